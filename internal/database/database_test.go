package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thereayou/inkpost/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	// Именованная in-memory база: общая для пула соединений gorm,
	// но своя на каждый тест
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))

	return NewDatabase(db)
}

func createTestUser(t *testing.T, d *Database, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, d.CreateUser(user))
	return user
}

func createTestPost(t *testing.T, d *Database, author *models.User, title string) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:     title,
		Content:   "content of " + title,
		AuthorID:  author.ID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, d.CreatePost(post))
	return post
}
