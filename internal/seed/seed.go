package seed

import (
	"fmt"
	"log/slog"

	"blogapi/internal/middleware"
	"blogapi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Initialize inserts the default users when there are none and the default posts
// when there are none. Running it against a populated database is a no-op.
func Initialize(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		users := cloneUsers()
		usersAdded, err := insertIfEmpty(tx, &models.User{}, &users)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		posts := clonePosts()
		postsAdded, err := insertIfEmpty(tx, &models.Post{}, &posts)
		if err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}

		if usersAdded {
			if err := realignSequence(tx, "users"); err != nil {
				return err
			}
		}
		if postsAdded {
			if err := realignSequence(tx, "posts"); err != nil {
				return err
			}
		}

		middleware.Logger.Info("Seed data ensured",
			slog.Bool("users_inserted", usersAdded),
			slog.Bool("posts_inserted", postsAdded),
		)
		return nil
	})
}

// insertIfEmpty creates rows (a pointer to a slice) only when model's table has no rows.
func insertIfEmpty(tx *gorm.DB, model any, rows any) (bool, error) {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Omit(clause.Associations).Create(rows).Error; err != nil {
		return false, err
	}
	return true, nil
}

// realignSequence moves a Postgres serial past explicitly inserted ids.
func realignSequence(tx *gorm.DB, table string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	err := tx.Exec(fmt.Sprintf(`
		SELECT setval(
			pg_get_serial_sequence('%[1]s', 'id'),
			GREATEST((SELECT COALESCE(MAX(id), 1) FROM %[1]s), 1),
			true
		)`, table)).Error
	if err != nil {
		return fmt.Errorf("failed to reset %s sequence: %w", table, err)
	}
	return nil
}

func cloneUsers() []models.User {
	out := make([]models.User, len(DefaultUsers))
	copy(out, DefaultUsers)
	return out
}

func clonePosts() []models.Post {
	out := make([]models.Post, len(DefaultPosts))
	copy(out, DefaultPosts)
	for i := range out {
		out[i].Version = 1
	}
	return out
}
