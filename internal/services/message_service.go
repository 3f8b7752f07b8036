package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"testgram/internal/kafka"
	"testgram/internal/models"
	"testgram/internal/storage"
)

// MessageView is a message as presented to one participant.
type MessageView struct {
	ID          uint
	Content     string
	AuthorLabel string
	CreatedAt   time.Time
}

// MessageService 定义了消息相关服务的接口。
type MessageService interface {
	// ListMessages returns the chat's messages newest first. Missing chats
	// and chats the requester is not part of are both ErrNotFound.
	ListMessages(ctx context.Context, userID, chatID uint) ([]MessageView, error)
	// PostMessage appends content to the chat. A chat the requester cannot
	// write to is an invalid reference: ErrValidation, nothing stored.
	PostMessage(ctx context.Context, userID, chatID uint, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID uint) error
}

// messageService 是 MessageService 的实现。
type messageService struct {
	chatRepo    storage.ChatRepository
	messageRepo storage.MessageRepository
	events      EventPublisher
	selfLabel   string
}

// NewMessageService 创建一个新的 MessageService 实例。
func NewMessageService(chatRepo storage.ChatRepository, messageRepo storage.MessageRepository, events EventPublisher, selfLabel string) MessageService {
	return &messageService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		events:      events,
		selfLabel:   selfLabel,
	}
}

func (s *messageService) ListMessages(ctx context.Context, userID, chatID uint) ([]MessageView, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chatNotFound(chatID)
		}
		return nil, fmt.Errorf("loading chat %d: %w", chatID, err)
	}
	if !isParticipant(chat, userID) {
		return nil, chatNotFound(chatID)
	}

	messages, err := s.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("listing messages of chat %d: %w", chatID, err)
	}

	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		views = append(views, MessageView{
			ID:          m.ID,
			Content:     m.Content,
			AuthorLabel: s.authorLabel(chat, m, userID),
			CreatedAt:   m.CreatedAt,
		})
	}
	return views, nil
}

func (s *messageService) authorLabel(chat *models.Chat, m *models.Message, userID uint) string {
	if m.AuthorID == userID {
		return s.selfLabel
	}
	if m.Author != nil {
		return m.Author.DisplayName()
	}
	if companion := chat.Companion(userID); companion != nil {
		return companion.DisplayName()
	}
	return ""
}

func (s *messageService) PostMessage(ctx context.Context, userID, chatID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading chat %d: %w", chatID, err)
	}
	if err != nil || !isParticipant(chat, userID) {
		return nil, fmt.Errorf("%w: invalid chat %d", ErrValidation, chatID)
	}

	message := &models.Message{ChatID: chatID, AuthorID: userID, Content: content}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("storing message: %w", err)
	}

	publish(ctx, s.events, kafka.ChatEvent{
		Type:       kafka.EventMessageCreated,
		ChatID:     chatID,
		MessageID:  message.ID,
		ActorID:    userID,
		Content:    message.Content,
		OccurredAt: message.CreatedAt,
	})
	return message, nil
}

func (s *messageService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message %d", ErrNotFound, messageID)
		}
		return fmt.Errorf("loading message %d: %w", messageID, err)
	}
	if err := requireOwner(message.AuthorID, userID, "message"); err != nil {
		return err
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message %d", ErrNotFound, messageID)
		}
		return fmt.Errorf("deleting message %d: %w", messageID, err)
	}

	publish(ctx, s.events, kafka.ChatEvent{
		Type:      kafka.EventMessageDeleted,
		ChatID:    message.ChatID,
		MessageID: messageID,
		ActorID:   userID,
	})
	return nil
}
