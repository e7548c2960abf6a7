// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postsTable = "posts"

// UpdateOutcome tags the result of UpdatePost.
type UpdateOutcome int

const (
	// UpdateFailed is returned alongside a non-nil error; nothing was written.
	UpdateFailed UpdateOutcome = iota
	// UpdateApplied means the row was replaced and its version bumped.
	UpdateApplied
	// UpdateNotFound means no row has the post's id.
	UpdateNotFound
	// UpdateConflict means the row exists but the version token did not match.
	UpdateConflict
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateFailed:
		return "failed"
	case UpdateApplied:
		return "applied"
	case UpdateNotFound:
		return "not_found"
	case UpdateConflict:
		return "conflict"
	default:
		return fmt.Sprintf("UpdateOutcome(%d)", int(o))
	}
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// GetAllPosts lists every post, or only those by *userID when it is non-nil, in id order.
	GetAllPosts(ctx context.Context, userID *uint) ([]*models.Post, error)
	// GetPost returns (nil, nil) when the post does not exist.
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	AddPost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) (UpdateOutcome, error)
	DeletePost(ctx context.Context, post *models.Post) error
	PostExists(ctx context.Context, id uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:  db,
		log: observability.NewRepoLogger(postsTable),
	}
}

func (r *postRepository) GetAllPosts(ctx context.Context, userID *uint) (posts []*models.Post, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "GetAllPosts", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("select", postsTable)()

	query := r.db.WithContext(ctx).Preload("User").Order("posts.id ASC")
	if userID != nil {
		query = query.Where("posts.user_id = ?", *userID)
	}
	if err := query.Find(&posts).Error; err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (r *postRepository) GetPost(ctx context.Context, id uint) (result *models.Post, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "GetPost", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("select", postsTable)()

	var post models.Post
	err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).Preload("User").First(&post, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// UserID is not serialized, so restore it for cache hits.
	post.AttachUser(post.User)
	return &post, nil
}

func (r *postRepository) AddPost(ctx context.Context, post *models.Post) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "AddPost", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("insert", postsTable)()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveUser(tx, post); err != nil {
			return err
		}
		post.ID = 0
		post.Version = 1
		return tx.Omit(clause.Associations).Create(post).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPostExists
		}
		if !errors.Is(err, ErrUserNotFound) {
			r.log.LogError(ctx, err, "create")
		}
		return err
	}

	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *postRepository) UpdatePost(ctx context.Context, post *models.Post) (outcome UpdateOutcome, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "UpdatePost", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("update", postsTable)()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveUser(tx, post); err != nil {
			return err
		}

		query := tx.Model(&models.Post{}).Where("id = ?", post.ID)
		if post.Version != 0 {
			query = query.Where("version = ?", post.Version)
		}
		res := query.Updates(map[string]any{
			"title":   post.Title,
			"body":    post.Body,
			"user_id": post.UserID,
			"version": gorm.Expr("version + 1"),
		})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				outcome = UpdateNotFound
			} else {
				outcome = UpdateConflict
			}
			return nil
		}

		var current models.Post
		if err := tx.Select("version").First(&current, post.ID).Error; err != nil {
			return err
		}
		post.Version = current.Version
		outcome = UpdateApplied
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			r.log.LogError(ctx, err, "update")
		}
		return UpdateFailed, err
	}

	cache.InvalidatePost(ctx, post.ID)

	if outcome != UpdateApplied {
		observability.UpdateConflicts.WithLabelValues(outcome.String()).Inc()
		r.log.LogConflict(ctx, map[string]any{"post_id": post.ID, "version": post.Version, "outcome": outcome.String()})
		return outcome, nil
	}

	r.log.LogUpdate(ctx, map[string]any{"post_id": post.ID, "version": post.Version})
	return outcome, nil
}

func (r *postRepository) DeletePost(ctx context.Context, post *models.Post) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "DeletePost", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("delete", postsTable)()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, post.ID)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return res.Error
	}
	cache.InvalidatePost(ctx, post.ID)

	if res.RowsAffected == 0 {
		return fmt.Errorf("delete post %d: %w", post.ID, ErrConcurrencyConflict)
	}

	r.log.LogDelete(ctx, map[string]any{"post_id": post.ID})
	return nil
}

func (r *postRepository) PostExists(ctx context.Context, id uint) (exists bool, err error) {
	if id == 0 {
		return false, nil
	}

	ctx, span := observability.StartRepositorySpan(ctx, "PostExists", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("select", postsTable)()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// resolveUser swaps the client-supplied user reference for the stored row.
func resolveUser(tx *gorm.DB, post *models.Post) error {
	user, err := findUser(tx, post.ReferencedUserID())
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	post.AttachUser(user)
	return nil
}
