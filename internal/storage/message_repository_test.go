package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testgram/internal/models"
	"testgram/internal/storage"
	"testgram/internal/storage/storagetest"
)

func TestLatestByChat(t *testing.T) {
	db := storagetest.NewDB(t)
	a := storagetest.CreateUser(t, db, "a", "A", "")
	b := storagetest.CreateUser(t, db, "b", "B", "")
	c := storagetest.CreateUser(t, db, "c", "C", "")
	withB := storagetest.CreateChat(t, db, a.ID, b.ID)
	withC := storagetest.CreateChat(t, db, a.ID, c.ID)
	empty := storagetest.CreateChat(t, db, b.ID, c.ID)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	storagetest.CreateMessage(t, db, withB.ID, a.ID, "one", at)
	lastB := storagetest.CreateMessage(t, db, withB.ID, b.ID, "two", at.Add(time.Second))
	storagetest.CreateMessage(t, db, withB.ID, a.ID, "zero", at.Add(-time.Hour))
	lastC := storagetest.CreateMessage(t, db, withC.ID, c.ID, "yo", at)

	latest, err := storage.NewGormMessageRepository(db).LatestByChat(context.Background(), []uint{withB.ID, withC.ID, empty.ID})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, lastB.ID, latest[withB.ID].ID)
	assert.Equal(t, "two", latest[withB.ID].Content)
	assert.Equal(t, lastC.ID, latest[withC.ID].ID)
	_, ok := latest[empty.ID]
	assert.False(t, ok)
}

func TestListByChatNewestFirst(t *testing.T) {
	db := storagetest.NewDB(t)
	a := storagetest.CreateUser(t, db, "a", "A", "")
	b := storagetest.CreateUser(t, db, "b", "B", "")
	chat := storagetest.CreateChat(t, db, a.ID, b.ID)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m1 := storagetest.CreateMessage(t, db, chat.ID, a.ID, "1", at)
	m2 := storagetest.CreateMessage(t, db, chat.ID, b.ID, "2", at.Add(time.Second))
	m3 := storagetest.CreateMessage(t, db, chat.ID, a.ID, "3", at.Add(time.Second))

	msgs, err := storage.NewGormMessageRepository(db).ListByChat(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []uint{m3.ID, m2.ID, m1.ID}, []uint{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	require.NotNil(t, msgs[0].Author)
	assert.Equal(t, "A", msgs[0].Author.FirstName)
	assert.True(t, msgs[0].CreatedAt.Equal(at.Add(time.Second)))
}

func TestMessageDeleteMissing(t *testing.T) {
	db := storagetest.NewDB(t)
	err := storage.NewGormMessageRepository(db).Delete(context.Background(), 42)
	assert.True(t, storage.IsNotFound(err))
}

func TestMessagesTableHasNoEditColumn(t *testing.T) {
	db := storagetest.NewDB(t)
	assert.True(t, db.Migrator().HasColumn(&models.Message{}, "content"))
	assert.False(t, db.Migrator().HasColumn(&models.Message{}, "updated"))
}
