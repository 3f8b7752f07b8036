package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"testgram/internal/models"
)

// ReactionRepository defines the interface for reaction data operations.
type ReactionRepository interface {
	// Upsert stores value as the author's reaction to the post, inserting
	// the row or overwriting the existing one, and returns the stored row.
	Upsert(ctx context.Context, authorID, postID uint, value *models.ReactionValue) (*models.Reaction, error)
	GetByAuthorAndPost(ctx context.Context, authorID, postID uint) (*models.Reaction, error)
	// ClearValue sets the value to NULL and keeps the row. It affects
	// nothing when no reaction exists.
	ClearValue(ctx context.Context, authorID, postID uint) error
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type gormReactionRepository struct {
	db *gorm.DB
}

// NewGormReactionRepository creates a new GORM-based ReactionRepository.
func NewGormReactionRepository(db *gorm.DB) ReactionRepository {
	return &gormReactionRepository{db: db}
}

func (r *gormReactionRepository) Upsert(ctx context.Context, authorID, postID uint, value *models.ReactionValue) (*models.Reaction, error) {
	reaction := &models.Reaction{AuthorID: authorID, PostID: postID, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "author_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(reaction).Error
	if err != nil {
		return nil, err
	}
	// The id of an overwritten row is not reported by every driver.
	return r.GetByAuthorAndPost(ctx, authorID, postID)
}

func (r *gormReactionRepository) GetByAuthorAndPost(ctx context.Context, authorID, postID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND post_id = ?", authorID, postID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *gormReactionRepository) ClearValue(ctx context.Context, authorID, postID uint) error {
	return r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("author_id = ? AND post_id = ?", authorID, postID).
		Update("value", gorm.Expr("NULL")).Error
}

func (r *gormReactionRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
