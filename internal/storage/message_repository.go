package storage

import (
	"context"

	"gorm.io/gorm"

	"testgram/internal/models"
)

// MessageRepository 定义了消息数据操作的接口。
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	// ListByChat returns the chat's messages newest first with authors preloaded.
	ListByChat(ctx context.Context, chatID uint) ([]models.Message, error)
	// LatestByChat returns the newest message of each given chat in a single
	// query, keyed by chat id. Chats without messages are absent.
	LatestByChat(ctx context.Context, chatIDs []uint) (map[uint]models.Message, error)
	CountByChat(ctx context.Context, chatID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// gormMessageRepository 使用 GORM 实现 MessageRepository。
type gormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建一个新的基于 GORM 的 MessageRepository。
func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create 在数据库中创建一条新的消息记录。
func (r *gormMessageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetByID 通过ID检索消息。
func (r *gormMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *gormMessageRepository) ListByChat(ctx context.Context, chatID uint) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *gormMessageRepository) LatestByChat(ctx context.Context, chatIDs []uint) (map[uint]models.Message, error) {
	latest := make(map[uint]models.Message, len(chatIDs))
	if len(chatIDs) == 0 {
		return latest, nil
	}

	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("messages.chat_id IN ?", chatIDs).
		Where(`messages.id = (
			SELECT m.id FROM messages m
			WHERE m.chat_id = messages.chat_id
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1)`).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		latest[m.ChatID] = m
	}
	return latest, nil
}

func (r *gormMessageRepository) CountByChat(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}

func (r *gormMessageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
