package server

import (
	"errors"
	"fmt"

	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Returns every post in id order, optionally only those written by one user.
// @Tags posts
// @Produce json
// @Param userId query int false "Author user ID"
// @Success 200 {array} models.Post
// @Failure 400 {object} models.ErrorResponse "userId is not an integer"
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseOptionalQueryID(c, "userId")
	if err != nil {
		return nil
	}

	posts, err := s.postRepo.GetAllPosts(ctx, userID)
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id <= 0 {
		return models.Respond(c, models.NewPostNotFoundError(id))
	}

	post, err := s.postRepo.GetPost(ctx, uint(id))
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.Respond(c, models.NewPostNotFoundError(id))
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description The referenced user must already exist. Any id in the body is replaced by a generated one.
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.Post true "Post to create"
// @Success 201 {object} models.Post
// @Header 201 {string} Location "/api/posts/{id}"
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	post, err := s.bindPost(c)
	if err != nil {
		return nil
	}

	exists, err := s.postRepo.PostExists(ctx, post.ID)
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}
	if exists {
		return models.Respond(c, models.NewDuplicatePostError(post.ID))
	}

	userID := post.ReferencedUserID()
	if err := s.postRepo.AddPost(ctx, post); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return models.Respond(c, models.NewUnknownUserError(userID))
		case errors.Is(err, repository.ErrPostExists):
			return models.Respond(c, models.NewDuplicatePostError(0))
		default:
			return models.Respond(c, models.NewInternalError(err))
		}
	}

	c.Location(fmt.Sprintf("/api/posts/%d", post.ID))
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Replace a post
// @Description Replaces title, body and user. A non-zero version must match the stored one.
// @Tags posts
// @Accept json
// @Param id path int true "Post ID"
// @Param post body models.Post true "Full post; id must equal the path id"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.bindPost(c)
	if err != nil {
		return nil
	}
	if int(post.ID) != id {
		return models.Respond(c, models.NewValidationError("Post ID in body does not match URL"))
	}

	userID := post.ReferencedUserID()
	outcome, err := s.postRepo.UpdatePost(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Respond(c, models.NewUnknownUserError(userID))
		}
		return models.Respond(c, models.NewInternalError(err))
	}

	switch outcome {
	case repository.UpdateNotFound, repository.UpdateConflict:
		exists, err := s.postRepo.PostExists(ctx, post.ID)
		if err != nil {
			return models.Respond(c, models.NewInternalError(err))
		}
		if !exists {
			return models.Respond(c, models.NewPostNotFoundError(id))
		}
		// The row is still there, so the write lost a race. Left to the error handler.
		return models.NewConflictError(post.ID, repository.ErrConcurrencyConflict)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id <= 0 {
		return models.Respond(c, models.NewPostNotFoundError(id))
	}

	post, err := s.postRepo.GetPost(ctx, uint(id))
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}
	if post == nil {
		return models.Respond(c, models.NewPostNotFoundError(id))
	}

	if err := s.postRepo.DeletePost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			return models.Respond(c, models.NewPostNotFoundError(id))
		}
		return models.Respond(c, models.NewInternalError(err))
	}

	return c.JSON(post)
}

// bindPost parses and validates the request body. On failure it writes a 400
// and returns errResponseWritten.
func (s *Server) bindPost(c *fiber.Ctx) (*models.Post, error) {
	var post models.Post
	if err := c.BodyParser(&post); err != nil {
		_ = models.Respond(c, models.NewValidationError("Invalid request body"))
		return nil, errResponseWritten
	}
	if err := validation.Struct(&post); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return nil, errResponseWritten
	}
	return &post, nil
}
