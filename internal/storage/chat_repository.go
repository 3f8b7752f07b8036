package storage

import (
	"context"

	"gorm.io/gorm"

	"testgram/internal/models"
)

// latestMessageJoin attaches the newest message of every chat as "lm".
// Chats without messages keep NULL lm columns.
const latestMessageJoin = `LEFT JOIN messages lm ON lm.id = (
	SELECT m.id FROM messages m
	WHERE m.chat_id = chats.id
	ORDER BY m.created_at DESC, m.id DESC
	LIMIT 1)`

// chatDirectoryOrder puts chats with messages first, newest message on top,
// then empty chats by descending id.
const chatDirectoryOrder = "CASE WHEN lm.id IS NULL THEN 1 ELSE 0 END, lm.created_at DESC, lm.id DESC, chats.id DESC"

// ChatRepository defines the interface for chat data operations.
type ChatRepository interface {
	// Create inserts the chat. A second chat for the same unordered pair
	// violates idx_chat_pair.
	Create(ctx context.Context, chat *models.Chat) error
	// GetByID loads the chat with both participants.
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	// FindByPair returns the chat between a and b in either direction.
	FindByPair(ctx context.Context, a, b uint) (*models.Chat, error)
	// ListForUser returns the chats userID participates in, in directory
	// order, with both participants preloaded. hasMessages restricts the
	// listing to chats with (true) or without (false) messages.
	ListForUser(ctx context.Context, userID uint, hasMessages *bool, page Page) ([]models.Chat, int64, error)
	// DeleteWithMessages removes the chat and all of its messages atomically.
	DeleteWithMessages(ctx context.Context, id uint) error
}

type gormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-based ChatRepository.
func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *gormChatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Preload("User1").Preload("User2").First(&chat, id).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *gormChatRepository) FindByPair(ctx context.Context, a, b uint) (*models.Chat, error) {
	high, low := models.ChatPairKey(a, b)
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("User1").Preload("User2").
		Where("pair_high = ? AND pair_low = ?", high, low).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *gormChatRepository) ListForUser(ctx context.Context, userID uint, hasMessages *bool, page Page) ([]models.Chat, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Chat{}).
			Joins(latestMessageJoin).
			Where("(chats.user1_id = ? OR chats.user2_id = ?)", userID, userID)
		if hasMessages != nil {
			if *hasMessages {
				q = q.Where("lm.id IS NOT NULL")
			} else {
				q = q.Where("lm.id IS NULL")
			}
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	chats := []models.Chat{}
	err := page.apply(scope().Select("chats.*").Order(chatDirectoryOrder)).
		Preload("User1").Preload("User2").
		Find(&chats).Error
	if err != nil {
		return nil, 0, err
	}
	return chats, total, nil
}

func (r *gormChatRepository) DeleteWithMessages(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Chat{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
