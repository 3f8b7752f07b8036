package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"testgram/internal/models"
	"testgram/internal/storage"
)

// CommentService 定义了评论相关服务的接口。
type CommentService interface {
	// CreateComment fails with ErrValidation when the post does not exist.
	CreateComment(ctx context.Context, userID, postID uint, body string) (*models.Comment, error)
	// ListComments lists comments of one post, or of all posts when postID is nil.
	ListComments(ctx context.Context, postID *uint, page storage.Page) ([]models.Comment, int64, error)
	UpdateComment(ctx context.Context, userID, commentID uint, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uint) error
}

type commentService struct {
	commentRepo storage.CommentRepository
	postRepo    storage.PostRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo storage.CommentRepository, postRepo storage.PostRepository) CommentService {
	return &commentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *commentService) CreateComment(ctx context.Context, userID, postID uint, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("looking up post %d: %w", postID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: post %d does not exist", ErrValidation, postID)
	}

	comment := &models.Comment{AuthorID: userID, PostID: postID, Body: body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return s.load(ctx, comment.ID)
}

func (s *commentService) load(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return nil, fmt.Errorf("loading comment %d: %w", commentID, err)
	}
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, postID *uint, page storage.Page) ([]models.Comment, int64, error) {
	comments, total, err := s.commentRepo.List(ctx, postID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("listing comments: %w", err)
	}
	return comments, total, nil
}

func (s *commentService) UpdateComment(ctx context.Context, userID, commentID uint, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}
	comment, err := s.load(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(comment.AuthorID, userID, "comment"); err != nil {
		return nil, err
	}
	comment.Body = body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("updating comment %d: %w", commentID, err)
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.load(ctx, commentID)
	if err != nil {
		return err
	}
	if err := requireOwner(comment.AuthorID, userID, "comment"); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return fmt.Errorf("deleting comment %d: %w", commentID, err)
	}
	return nil
}
