package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testgram/internal/kafka"
	"testgram/internal/models"
	"testgram/internal/storage/storagetest"
)

func TestPostMessageByNonParticipantStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	a := storagetest.CreateUser(t, env.db, "a", "A", "")
	b := storagetest.CreateUser(t, env.db, "b", "B", "")
	c := storagetest.CreateUser(t, env.db, "c", "C", "")
	chat := storagetest.CreateChat(t, env.db, b.ID, c.ID)
	svc := env.messageService()
	ctx := context.Background()

	_, err := svc.PostMessage(ctx, a.ID, chat.ID, "hello")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PostMessage(ctx, a.ID, chat.ID+50, "hello")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PostMessage(ctx, b.ID, chat.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	var rows int64
	require.NoError(t, env.db.Model(&models.Message{}).Count(&rows).Error)
	assert.Zero(t, rows)
	assert.Empty(t, env.events.types())
}

func TestPostAndListMessages(t *testing.T) {
	env := newTestEnv(t)
	a := storagetest.CreateUser(t, env.db, "a", "Ann", "Lee")
	b := storagetest.CreateUser(t, env.db, "b", "Bob", "")
	chat := storagetest.CreateChat(t, env.db, a.ID, b.ID)
	svc := env.messageService()
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	storagetest.CreateMessage(t, env.db, chat.ID, b.ID, "hi", at)

	msg, err := svc.PostMessage(ctx, a.ID, chat.ID, "hello")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, chat.ID, msg.ChatID)

	views, err := svc.ListMessages(ctx, a.ID, chat.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, msg.ID, views[0].ID)
	assert.Equal(t, "you", views[0].AuthorLabel)
	assert.Equal(t, "Bob", views[1].AuthorLabel)

	fromB, err := svc.ListMessages(ctx, b.ID, chat.ID)
	require.NoError(t, err)
	require.Len(t, fromB, 2)
	assert.Equal(t, "Ann Lee", fromB[0].AuthorLabel)
	assert.Equal(t, "you", fromB[1].AuthorLabel)

	require.Len(t, env.events.events, 1)
	ev := env.events.events[0]
	assert.Equal(t, kafka.EventMessageCreated, ev.Type)
	assert.Equal(t, msg.ID, ev.MessageID)
	assert.Equal(t, chat.ID, ev.ChatID)
}

func TestListMessagesHidesForeignChats(t *testing.T) {
	env := newTestEnv(t)
	a := storagetest.CreateUser(t, env.db, "a", "A", "")
	b := storagetest.CreateUser(t, env.db, "b", "B", "")
	c := storagetest.CreateUser(t, env.db, "c", "C", "")
	chat := storagetest.CreateChat(t, env.db, b.ID, c.ID)
	svc := env.messageService()
	ctx := context.Background()

	_, foreign := svc.ListMessages(ctx, a.ID, chat.ID)
	_, missing := svc.ListMessages(ctx, a.ID, chat.ID+1000)
	assert.ErrorIs(t, foreign, ErrNotFound)
	assert.ErrorIs(t, missing, ErrNotFound)
	assert.NotErrorIs(t, foreign, ErrForbidden)
}

func TestDeleteMessageOwnership(t *testing.T) {
	env := newTestEnv(t)
	a := storagetest.CreateUser(t, env.db, "a", "A", "")
	b := storagetest.CreateUser(t, env.db, "b", "B", "")
	chat := storagetest.CreateChat(t, env.db, a.ID, b.ID)
	msg := storagetest.CreateMessage(t, env.db, chat.ID, a.ID, "mine", time.Now())
	svc := env.messageService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteMessage(ctx, b.ID, msg.ID), ErrForbidden)
	require.NoError(t, svc.DeleteMessage(ctx, a.ID, msg.ID))
	assert.ErrorIs(t, svc.DeleteMessage(ctx, a.ID, msg.ID), ErrNotFound)
	assert.Equal(t, []string{kafka.EventMessageDeleted}, env.events.types())
}
