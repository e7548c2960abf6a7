package seed

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configure the fake data seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// RandSeed makes the generated content reproducible when non-zero.
	RandSeed int64
}

// Seeder generates fake users and posts on top of the default data.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	return &Seeder{db: db, faker: gofakeit.New(randSeed)}
}

// BuildUser returns an unsaved user with generated profile data.
func (s *Seeder) BuildUser() models.User {
	return models.User{
		Name:      s.faker.Name(),
		Email:     s.faker.Email(),
		Expertise: s.faker.ProgrammingLanguage(),
	}
}

// BuildPost returns an unsaved post written by user.
func (s *Seeder) BuildPost(user models.User) models.Post {
	return models.Post{
		Title:   s.faker.Sentence(5),
		Body:    s.faker.Paragraph(1, 3, 12, " "),
		UserID:  user.ID,
		Version: 1,
	}
}

// Run applies opts: optionally wipe, ensure the default data, then add fake rows.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}
	if err := Initialize(s.db); err != nil {
		return err
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		// No new users: spread the fake posts across the existing ones.
		users, err = repository.NewUserRepository(s.db).List(context.Background())
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
	}
	_, err = s.SeedPosts(users, opts.NumPosts)
	return err
}

// SeedUsers inserts n fake users.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, s.BuildUser())
	}
	if err := s.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("create fake users: %w", err)
	}
	middleware.Logger.Info("Fake users created", slog.Int("count", len(users)))
	return users, nil
}

// SeedPosts inserts n fake posts spread across users.
func (s *Seeder) SeedPosts(users []models.User, n int) ([]models.Post, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot create posts without users")
	}
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.faker.IntRange(0, len(users)-1)]
		posts = append(posts, s.BuildPost(author))
	}
	if err := s.db.Omit(clause.Associations).CreateInBatches(&posts, 100).Error; err != nil {
		return nil, fmt.Errorf("create fake posts: %w", err)
	}
	middleware.Logger.Info("Fake posts created", slog.Int("count", len(posts)))
	return posts, nil
}

// ClearAll deletes every post and user.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("clear posts: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		middleware.Logger.Info("Cleared posts and users")
		return nil
	})
}
