package repository

import (
	"context"
	"errors"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines read operations for users. Users are created by seeding only.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "GetUserByID", "users")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("select", "users")()

	return findUser(r.db.WithContext(ctx), id)
}

func (r *userRepository) List(ctx context.Context) (users []models.User, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "ListUsers", "users")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("select", "users")()

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// findUser returns (nil, nil) when no user has the given id.
func findUser(db *gorm.DB, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
