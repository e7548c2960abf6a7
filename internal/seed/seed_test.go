package seed

import (
	"testing"

	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestInitialize_InsertsDefaults(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Initialize(db))

	var users []models.User
	require.NoError(t, db.Order("id ASC").Find(&users).Error)
	require.Len(t, users, 4)
	assert.Equal(t, "Ryan Dahl", users[0].Name)
	assert.Equal(t, ".NET", users[3].Expertise)

	var posts []models.Post
	require.NoError(t, db.Preload("User").Order("id ASC").Find(&posts).Error)
	require.Len(t, posts, 5)
	assert.Equal(t, "Spring Boot is cooler", posts[1].Title)
	assert.Equal(t, "Rob Pike", posts[2].User.Name)
	assert.Equal(t, "John Watkins", posts[4].User.Name)
	for _, p := range posts {
		assert.Equal(t, uint(1), p.Version)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Initialize(db))
	require.NoError(t, Initialize(db))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(4), userCount)
	assert.Equal(t, int64(5), postCount)
}

func TestInitialize_KeepsExistingPosts(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: 1, Name: "Someone"}).Error)
	require.NoError(t, db.Create(&models.Post{Title: "Mine", Body: "Only", UserID: 1, Version: 1}).Error)

	require.NoError(t, Initialize(db))

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(1), postCount)

	var user models.User
	require.NoError(t, db.First(&user, 1).Error)
	assert.Equal(t, "Someone", user.Name)
}

func TestInitialize_DoesNotMutateDefaults(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Initialize(db))
	assert.Equal(t, uint(0), DefaultPosts[0].Version)
}

func TestSeeder_RunWithFakeData(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, 42)

	require.NoError(t, s.Run(Options{NumUsers: 3, NumPosts: 10}))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(7), userCount)
	assert.Equal(t, int64(15), postCount)
}

func TestSeeder_PostsOnlyUseExistingUsers(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db, 7)

	require.NoError(t, s.Run(Options{NumPosts: 4}))

	var orphans int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("user_id NOT IN (?)", db.Model(&models.User{}).Select("id")).
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Initialize(db))

	require.NoError(t, NewSeeder(db, 1).ClearAll())

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, postCount)
}

func TestSeeder_BuildPost(t *testing.T) {
	s := NewSeeder(nil, 3)
	post := s.BuildPost(models.User{ID: 9})
	assert.Equal(t, uint(9), post.UserID)
	assert.NotEmpty(t, post.Title)
	assert.NotEmpty(t, post.Body)
	assert.Equal(t, uint(1), post.Version)
}
