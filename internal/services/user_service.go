package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"testgram/internal/models"
	"testgram/internal/storage"
)

// UserListItem is a user as seen by the requester.
type UserListItem struct {
	User     models.User
	IsFriend bool
}

// UserProfile is the detailed view of one user.
type UserProfile struct {
	User        models.User
	IsFriend    bool
	FriendCount int64
	Posts       []models.Post
}

// UserService 定义了用户相关服务的接口。
type UserService interface {
	// ListUsers returns every user, newest first, flagged with friendship
	// to the requester.
	ListUsers(ctx context.Context, requesterID uint, page storage.Page) ([]UserListItem, int64, error)
	GetProfile(ctx context.Context, requesterID, userID uint) (*UserProfile, error)
	// ListFriends returns the friends of userID, flagged relative to the requester.
	ListFriends(ctx context.Context, requesterID, userID uint, page storage.Page) ([]UserListItem, int64, error)
}

// userService 是 UserService 的实现。
type userService struct {
	userRepo       storage.UserRepository
	friendshipRepo storage.FriendshipRepository
	postRepo       storage.PostRepository
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo storage.UserRepository, friendshipRepo storage.FriendshipRepository, postRepo storage.PostRepository) UserService {
	return &userService{userRepo: userRepo, friendshipRepo: friendshipRepo, postRepo: postRepo}
}

func (s *userService) ListUsers(ctx context.Context, requesterID uint, page storage.Page) ([]UserListItem, int64, error) {
	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	items, err := s.flagFriends(ctx, requesterID, users)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *userService) GetProfile(ctx context.Context, requesterID, userID uint) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}

	profile := &UserProfile{User: *user}
	if requesterID != userID {
		if profile.IsFriend, err = s.friendshipRepo.AreUsersFriends(ctx, requesterID, userID); err != nil {
			return nil, fmt.Errorf("checking friendship: %w", err)
		}
	}
	if profile.FriendCount, err = s.friendshipRepo.CountFriends(ctx, userID); err != nil {
		return nil, fmt.Errorf("counting friends: %w", err)
	}
	if profile.Posts, err = s.postRepo.ListByAuthor(ctx, userID); err != nil {
		return nil, fmt.Errorf("listing posts of user %d: %w", userID, err)
	}
	return profile, nil
}

func (s *userService) ListFriends(ctx context.Context, requesterID, userID uint, page storage.Page) ([]UserListItem, int64, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("looking up user %d: %w", userID, err)
	}
	if !exists {
		return nil, 0, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	friendIDs, err := s.friendshipRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("loading friends of %d: %w", userID, err)
	}
	users, total, err := s.userRepo.ListByIDs(ctx, friendIDs, page)
	if err != nil {
		return nil, 0, fmt.Errorf("listing friends of %d: %w", userID, err)
	}
	items, err := s.flagFriends(ctx, requesterID, users)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// flagFriends marks which of users are friends of requesterID in one query.
func (s *userService) flagFriends(ctx context.Context, requesterID uint, users []models.User) ([]UserListItem, error) {
	ids := make([]uint, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	friends, err := s.friendshipRepo.FriendIDsAmong(ctx, requesterID, ids)
	if err != nil {
		return nil, fmt.Errorf("checking friendships: %w", err)
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{User: u, IsFriend: friends[u.ID]})
	}
	return items, nil
}
