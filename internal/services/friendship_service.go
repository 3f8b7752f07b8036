package services

import (
	"context"
	"fmt"

	"testgram/internal/models"
	"testgram/internal/storage"
)

// FriendshipService manages the symmetric friend relation. Callers never see
// a direction: A is a friend of B exactly when B is a friend of A.
type FriendshipService interface {
	// AddFriend is idempotent.
	AddFriend(ctx context.Context, userID, targetID uint) error
	// RemoveFriend is idempotent.
	RemoveFriend(ctx context.Context, userID, targetID uint) error
	AreFriends(ctx context.Context, userID, otherID uint) (bool, error)
	ListFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFriends(ctx context.Context, userID uint) (int64, error)
}

type friendshipService struct {
	userRepo       storage.UserRepository
	friendshipRepo storage.FriendshipRepository
}

// NewFriendshipService creates a new FriendshipService.
func NewFriendshipService(userRepo storage.UserRepository, friendshipRepo storage.FriendshipRepository) FriendshipService {
	return &friendshipService{userRepo: userRepo, friendshipRepo: friendshipRepo}
}

func (s *friendshipService) checkTarget(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return fmt.Errorf("%w: cannot befriend yourself", ErrValidation)
	}
	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return fmt.Errorf("looking up user %d: %w", targetID, err)
	}
	if !exists {
		return fmt.Errorf("%w: user %d", ErrNotFound, targetID)
	}
	return nil
}

func (s *friendshipService) AddFriend(ctx context.Context, userID, targetID uint) error {
	if err := s.checkTarget(ctx, userID, targetID); err != nil {
		return err
	}
	if err := s.friendshipRepo.Create(ctx, models.NewFriendship(userID, targetID)); err != nil {
		return fmt.Errorf("adding friend %d: %w", targetID, err)
	}
	return nil
}

func (s *friendshipService) RemoveFriend(ctx context.Context, userID, targetID uint) error {
	if err := s.checkTarget(ctx, userID, targetID); err != nil {
		return err
	}
	if err := s.friendshipRepo.Delete(ctx, userID, targetID); err != nil {
		return fmt.Errorf("removing friend %d: %w", targetID, err)
	}
	return nil
}

func (s *friendshipService) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	if userID == otherID {
		return false, nil
	}
	return s.friendshipRepo.AreUsersFriends(ctx, userID, otherID)
}

func (s *friendshipService) ListFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.friendshipRepo.GetFriendIDs(ctx, userID)
}

func (s *friendshipService) CountFriends(ctx context.Context, userID uint) (int64, error) {
	return s.friendshipRepo.CountFriends(ctx, userID)
}
