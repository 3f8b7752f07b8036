package services

import (
	"context"
	"fmt"

	"testgram/internal/models"
	"testgram/internal/storage"
)

// ReactionService stores at most one reaction per (user, post).
type ReactionService interface {
	// SetReaction creates or overwrites the requester's reaction. A nil
	// value stores an unset reaction.
	SetReaction(ctx context.Context, userID, postID uint, value *models.ReactionValue) (*models.Reaction, error)
	// ClearReaction unsets the requester's reaction, keeping the row.
	ClearReaction(ctx context.Context, userID, postID uint) error
}

type reactionService struct {
	reactionRepo storage.ReactionRepository
	postRepo     storage.PostRepository
}

// NewReactionService creates a new ReactionService.
func NewReactionService(reactionRepo storage.ReactionRepository, postRepo storage.PostRepository) ReactionService {
	return &reactionService{reactionRepo: reactionRepo, postRepo: postRepo}
}

func (s *reactionService) requirePost(ctx context.Context, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("looking up post %d: %w", postID, err)
	}
	if !exists {
		return fmt.Errorf("%w: post %d does not exist", ErrValidation, postID)
	}
	return nil
}

func (s *reactionService) SetReaction(ctx context.Context, userID, postID uint, value *models.ReactionValue) (*models.Reaction, error) {
	if value != nil && !value.Valid() {
		return nil, fmt.Errorf("%w: unknown reaction %q", ErrValidation, *value)
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	reaction, err := s.reactionRepo.Upsert(ctx, userID, postID, value)
	if err != nil {
		return nil, fmt.Errorf("storing reaction: %w", err)
	}
	return reaction, nil
}

func (s *reactionService) ClearReaction(ctx context.Context, userID, postID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	if err := s.reactionRepo.ClearValue(ctx, userID, postID); err != nil {
		return fmt.Errorf("clearing reaction: %w", err)
	}
	return nil
}
