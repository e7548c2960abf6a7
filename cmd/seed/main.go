// Command main runs the database seeder for the blog API.
package main

import (
	"flag"
	"log"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 0, "Number of fake users to create")
	numPosts := flag.Int("fake", 0, "Number of fake posts to create on top of the default data")
	shouldClean := flag.Bool("clean", false, "Delete all posts and users before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible fake data (0 = random)")
	flag.Parse()

	log.Printf("Target: %d fake users, %d fake posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, *randSeed)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete.")
}
