package storage

import (
	"context"

	"gorm.io/gorm"

	"testgram/internal/models"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// List returns comments newest id first; a nil postID lists every post.
	List(ctx context.Context, postID *uint, page Page) ([]models.Comment, int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GORM-based CommentRepository.
func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

func (r *gormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormCommentRepository) List(ctx context.Context, postID *uint, page Page) ([]models.Comment, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Comment{})
		if postID != nil {
			q = q.Where("post_id = ?", *postID)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := page.apply(scope().Preload("Author").Order("id DESC")).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Update saves the body and marks the comment as edited.
func (r *gormCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if comment.ID == 0 {
		return gorm.ErrMissingWhereClause
	}
	comment.Updated = true
	return r.db.WithContext(ctx).Model(comment).Select("body", "updated", "updated_at").Updates(comment).Error
}

func (r *gormCommentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
