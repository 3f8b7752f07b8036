package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"testgram/internal/models"
	"testgram/internal/storage"
)

// PostDetail is a post together with the requester's reaction to it.
type PostDetail struct {
	Post       models.Post
	MyReaction *models.ReactionValue
}

// PostUpdate lists the fields to change; nil fields are left untouched.
type PostUpdate struct {
	Title *string
	Body  *string
}

// PostService 定义了帖子相关服务的接口。
type PostService interface {
	CreatePost(ctx context.Context, userID uint, title, body string) (*models.Post, error)
	GetPost(ctx context.Context, userID, postID uint) (*PostDetail, error)
	ListPosts(ctx context.Context, page storage.Page) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, userID, postID uint, upd PostUpdate) (*models.Post, error)
	// DeletePost removes the post with its comments and reactions.
	DeletePost(ctx context.Context, userID, postID uint) error
}

type postService struct {
	postRepo     storage.PostRepository
	reactionRepo storage.ReactionRepository
}

// NewPostService creates a new PostService.
func NewPostService(postRepo storage.PostRepository, reactionRepo storage.ReactionRepository) PostService {
	return &postService{postRepo: postRepo, reactionRepo: reactionRepo}
}

func validatePost(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > models.PostTitleMaxLen {
		return fmt.Errorf("%w: title is longer than %d characters", ErrValidation, models.PostTitleMaxLen)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	return nil
}

func (s *postService) CreatePost(ctx context.Context, userID uint, title, body string) (*models.Post, error) {
	if err := validatePost(title, body); err != nil {
		return nil, err
	}
	post := &models.Post{AuthorID: userID, Title: title, Body: body}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return s.load(ctx, post.ID)
}

func (s *postService) load(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, fmt.Errorf("loading post %d: %w", postID, err)
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, userID, postID uint) (*PostDetail, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: *post}
	reaction, err := s.reactionRepo.GetByAuthorAndPost(ctx, userID, postID)
	switch {
	case err == nil:
		detail.MyReaction = reaction.Value
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("loading reaction: %w", err)
	}
	return detail, nil
}

func (s *postService) ListPosts(ctx context.Context, page storage.Page) ([]models.Post, int64, error) {
	posts, total, err := s.postRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("listing posts: %w", err)
	}
	return posts, total, nil
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID uint, upd PostUpdate) (*models.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(post.AuthorID, userID, "post"); err != nil {
		return nil, err
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Body != nil {
		post.Body = *upd.Body
	}
	if err := validatePost(post.Title, post.Body); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post %d: %w", postID, err)
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if err := requireOwner(post.AuthorID, userID, "post"); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return fmt.Errorf("deleting post %d: %w", postID, err)
	}
	return nil
}
