// Package seed provides database seeding utilities for development and testing.
package seed

import "blogapi/internal/models"

// DefaultUsers are inserted when the users table is empty.
var DefaultUsers = []models.User{
	{ID: 1, Name: "Ryan Dahl", Email: "node4lyfe@example.com", Expertise: "Node"},
	{ID: 2, Name: "Rob Pike", Email: "gofarther@example.com", Expertise: "Go"},
	{ID: 3, Name: "DHH", Email: "magic@example.com", Expertise: "Rails"},
	{ID: 4, Name: "John Watkins", Email: "jwats@example.com", Expertise: ".NET"},
}

// DefaultPosts are inserted when the posts table is empty.
var DefaultPosts = []models.Post{
	{
		ID:     1,
		UserID: 1,
		Title:  "Node is awesome",
		Body:   "Node.js is a JavaScript runtime built on Chrome's V8 JavaScript engine.",
	},
	{
		ID:     2,
		UserID: 1,
		Title:  "Spring Boot is cooler",
		Body:   "Spring Boot makes it easy to create stand-alone, production-grade Spring based Applications that you can \"just run\".",
	},
	{
		ID:     3,
		UserID: 2,
		Title:  "Go is faster",
		Body:   "Go is an open source programming language that makes it easy to build simple, reliable, and efficient software.",
	},
	{
		ID:     4,
		UserID: 3,
		Title:  "'What about me?' -Rails",
		Body:   "Ruby on Rails makes it much easier and more fun. It includes everything you need to build fantastic applications, and you can learn it with the support of our large, friendly community.",
	},
	{
		ID:     5,
		UserID: 4,
		Title:  ".NET has the gravy",
		Body:   ".NET enables engineers to develop blazing fast web services with ease, utilizing tools developed by Microsoft!",
	},
}
