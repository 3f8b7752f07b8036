// Package storagetest opens throwaway in-memory databases migrated with the
// production schema.
package storagetest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"testgram/internal/models"
	"testgram/internal/storage"
)

var dbSeq atomic.Int64

// NewDB returns a fresh, migrated SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testgram_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), storage.NewGormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and
	// serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.AutoMigrateTables(db))
	return db
}

// CreateUser inserts a user with the given username and names.
func CreateUser(t testing.TB, db *gorm.DB, username, first, last string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x", FirstName: first, LastName: last, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateChat inserts a chat opened by user1.
func CreateChat(t testing.TB, db *gorm.DB, user1, user2 uint) *models.Chat {
	t.Helper()
	c := &models.Chat{User1ID: user1, User2ID: user2}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateMessage inserts a message with an explicit creation time.
func CreateMessage(t testing.TB, db *gorm.DB, chatID, authorID uint, content string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{ChatID: chatID, AuthorID: authorID, Content: content}
	m.CreatedAt = at.UTC()
	m.UpdatedAt = at.UTC()
	require.NoError(t, db.Create(m).Error)
	return m
}

// CreatePost inserts a post by authorID.
func CreatePost(t testing.TB, db *gorm.DB, authorID uint, title, body string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: authorID, Title: title, Body: body}
	require.NoError(t, db.Create(p).Error)
	return p
}
