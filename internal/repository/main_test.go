package repository

import (
	"testing"

	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory database holding two users and three posts:
// posts 1 and 2 by user 1, post 3 by user 2.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	users := []models.User{
		{ID: 1, Name: "Ryan Dahl", Email: "node4lyfe@example.com", Expertise: "Node"},
		{ID: 2, Name: "Rob Pike", Email: "gofarther@example.com", Expertise: "Go"},
	}
	require.NoError(t, db.Create(&users).Error)

	posts := []models.Post{
		{ID: 1, Title: "Node is awesome", Body: "fast", UserID: 1, Version: 1},
		{ID: 2, Title: "Spring Boot is cooler", Body: "just run", UserID: 1, Version: 1},
		{ID: 3, Title: "Go is faster", Body: "simple", UserID: 2, Version: 1},
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&posts).Error)
	return db
}
