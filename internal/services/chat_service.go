package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"testgram/internal/kafka"
	"testgram/internal/models"
	"testgram/internal/storage"
)

// EventPublisher receives chat lifecycle events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev kafka.ChatEvent)
}

func publish(ctx context.Context, events EventPublisher, ev kafka.ChatEvent) {
	if events != nil {
		events.Publish(ctx, ev)
	}
}

// ChatFilter restricts a chat listing by whether chats have messages.
type ChatFilter int

const (
	ChatFilterNone ChatFilter = iota
	ChatFilterHasMessages
	ChatFilterNoMessages
)

func (f ChatFilter) hasMessages() *bool {
	var v bool
	switch f {
	case ChatFilterHasMessages:
		v = true
	case ChatFilterNoMessages:
		v = false
	default:
		return nil
	}
	return &v
}

// ChatPreview is one entry of a user's chat directory. The last message
// fields are zero for chats without messages.
type ChatPreview struct {
	ID                 uint
	CompanionID        uint
	CompanionName      string
	LastMessageID      uint
	LastMessageContent string
	LastMessageAt      *time.Time
	// LastMessageAuthor is the self label when the requester wrote the last
	// message, the companion's display name otherwise.
	LastMessageAuthor string
}

// ChatService is the chat directory of a user.
type ChatService interface {
	// ListChats returns the requester's chats: those with messages by last
	// message time (newest first), then empty chats by id descending.
	ListChats(ctx context.Context, userID uint, filter ChatFilter, page storage.Page) ([]ChatPreview, int64, error)
	// CreateOrGetChat returns the chat between the two users, creating it
	// when absent. The flag reports whether it was created.
	CreateOrGetChat(ctx context.Context, userID, otherUserID uint) (*models.Chat, bool, error)
	// DeleteChat removes the chat and its messages. Chats the requester does
	// not take part in are reported as not found.
	DeleteChat(ctx context.Context, userID, chatID uint) error
}

type chatService struct {
	chatRepo    storage.ChatRepository
	messageRepo storage.MessageRepository
	userRepo    storage.UserRepository
	events      EventPublisher
	selfLabel   string
}

// NewChatService creates a new ChatService. selfLabel names the requester
// in previews of messages they wrote.
func NewChatService(chatRepo storage.ChatRepository, messageRepo storage.MessageRepository, userRepo storage.UserRepository, events EventPublisher, selfLabel string) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		events:      events,
		selfLabel:   selfLabel,
	}
}

func (s *chatService) ListChats(ctx context.Context, userID uint, filter ChatFilter, page storage.Page) ([]ChatPreview, int64, error) {
	chats, total, err := s.chatRepo.ListForUser(ctx, userID, filter.hasMessages(), page)
	if err != nil {
		return nil, 0, fmt.Errorf("listing chats of user %d: %w", userID, err)
	}

	ids := make([]uint, 0, len(chats))
	for i := range chats {
		ids = append(ids, chats[i].ID)
	}
	latest, err := s.messageRepo.LatestByChat(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("loading last messages: %w", err)
	}

	previews := make([]ChatPreview, 0, len(chats))
	for i := range chats {
		chat := &chats[i]
		p := ChatPreview{ID: chat.ID, CompanionID: chat.CompanionID(userID)}
		if companion := chat.Companion(userID); companion != nil {
			p.CompanionName = companion.DisplayName()
		}
		if m, ok := latest[chat.ID]; ok {
			at := m.CreatedAt
			p.LastMessageID = m.ID
			p.LastMessageContent = m.Content
			p.LastMessageAt = &at
			if m.AuthorID == userID {
				p.LastMessageAuthor = s.selfLabel
			} else {
				p.LastMessageAuthor = p.CompanionName
			}
		}
		previews = append(previews, p)
	}
	return previews, total, nil
}

func (s *chatService) CreateOrGetChat(ctx context.Context, userID, otherUserID uint) (*models.Chat, bool, error) {
	if userID == otherUserID {
		return nil, false, fmt.Errorf("%w: cannot open a chat with yourself", ErrValidation)
	}
	exists, err := s.userRepo.Exists(ctx, otherUserID)
	if err != nil {
		return nil, false, fmt.Errorf("looking up user %d: %w", otherUserID, err)
	}
	if !exists {
		return nil, false, fmt.Errorf("%w: user %d does not exist", ErrValidation, otherUserID)
	}

	chat, err := s.chatRepo.FindByPair(ctx, userID, otherUserID)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("looking up chat: %w", err)
	}

	newChat := &models.Chat{User1ID: userID, User2ID: otherUserID}
	if err := s.chatRepo.Create(ctx, newChat); err != nil {
		if !storage.IsUniqueViolation(err) {
			return nil, false, fmt.Errorf("creating chat: %w", err)
		}
		// The other side opened the chat concurrently.
		chat, err = s.chatRepo.FindByPair(ctx, userID, otherUserID)
		if err != nil {
			return nil, false, fmt.Errorf("re-reading chat: %w", err)
		}
		return chat, false, nil
	}

	publish(ctx, s.events, kafka.ChatEvent{Type: kafka.EventChatCreated, ChatID: newChat.ID, ActorID: userID})
	return newChat, true, nil
}

func (s *chatService) DeleteChat(ctx context.Context, userID, chatID uint) error {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chatNotFound(chatID)
		}
		return fmt.Errorf("loading chat %d: %w", chatID, err)
	}
	if !isParticipant(chat, userID) {
		return chatNotFound(chatID)
	}

	if err := s.chatRepo.DeleteWithMessages(ctx, chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chatNotFound(chatID)
		}
		return fmt.Errorf("deleting chat %d: %w", chatID, err)
	}

	publish(ctx, s.events, kafka.ChatEvent{Type: kafka.EventChatDeleted, ChatID: chatID, ActorID: userID})
	return nil
}
