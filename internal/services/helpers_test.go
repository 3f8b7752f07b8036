package services

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"testgram/internal/config"
	"testgram/internal/kafka"
	"testgram/internal/storage"
	"testgram/internal/storage/storagetest"
)

var testAuthConfig = config.AuthConfig{JWTSecretKey: "test-secret", JWTIssuer: "testgram-auth"}

type recordingEvents struct {
	mu     sync.Mutex
	events []kafka.ChatEvent
}

func (r *recordingEvents) Publish(_ context.Context, ev kafka.ChatEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	db     *gorm.DB
	events *recordingEvents

	users       storage.UserRepository
	friendships storage.FriendshipRepository
	posts       storage.PostRepository
	comments    storage.CommentRepository
	reactions   storage.ReactionRepository
	chats       storage.ChatRepository
	messages    storage.MessageRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := storagetest.NewDB(t)
	return &testEnv{
		db:          db,
		events:      &recordingEvents{},
		users:       storage.NewGormUserRepository(db),
		friendships: storage.NewGormFriendshipRepository(db),
		posts:       storage.NewGormPostRepository(db),
		comments:    storage.NewGormCommentRepository(db),
		reactions:   storage.NewGormReactionRepository(db),
		chats:       storage.NewGormChatRepository(db),
		messages:    storage.NewGormMessageRepository(db),
	}
}

func (e *testEnv) chatService() ChatService {
	return NewChatService(e.chats, e.messages, e.users, e.events, "you")
}

func (e *testEnv) messageService() MessageService {
	return NewMessageService(e.chats, e.messages, e.events, "you")
}
