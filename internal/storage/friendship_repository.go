package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"testgram/internal/models"
)

// FriendshipRepository defines the interface for friendship data operations.
type FriendshipRepository interface {
	// Create inserts the canonical row for the pair; an existing row is kept.
	Create(ctx context.Context, friendship *models.Friendship) error
	Delete(ctx context.Context, userID1, userID2 uint) error
	AreUsersFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
	GetFriendIDs(ctx context.Context, userID uint) ([]uint, error)
	// FriendIDsAmong returns the subset of candidates that are friends of userID.
	FriendIDsAmong(ctx context.Context, userID uint, candidates []uint) (map[uint]bool, error)
	CountFriends(ctx context.Context, userID uint) (int64, error)
}

type gormFriendshipRepository struct {
	db *gorm.DB
}

// NewGormFriendshipRepository creates a new GormFriendshipRepository.
func NewGormFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &gormFriendshipRepository{db: db}
}

// Create creates a new friendship record in the database.
// It assumes that friendship.EnsureCanonicalOrder() has been called before.
func (r *gormFriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id1"}, {Name: "user_id2"}},
			DoNothing: true,
		}).
		Create(friendship).Error
}

func (r *gormFriendshipRepository) Delete(ctx context.Context, userID1, userID2 uint) error {
	f := models.NewFriendship(userID1, userID2)
	return r.db.WithContext(ctx).
		Where("user_id1 = ? AND user_id2 = ?", f.UserID1, f.UserID2).
		Delete(&models.Friendship{}).Error
}

// AreUsersFriends checks if two users are already friends.
func (r *gormFriendshipRepository) AreUsersFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	f := models.NewFriendship(userID1, userID2)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id1 = ? AND user_id2 = ?", f.UserID1, f.UserID2).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFriendIDs retrieves a list of user IDs who are friends with the given userID.
func (r *gormFriendshipRepository) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	friendIDs := make([]uint, 0, len(rows))
	for i := range rows {
		friendIDs = append(friendIDs, rows[i].Other(userID))
	}
	return friendIDs, nil
}

func (r *gormFriendshipRepository) FriendIDsAmong(ctx context.Context, userID uint, candidates []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(candidates))
	if len(candidates) == 0 {
		return result, nil
	}

	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id1 = ? AND user_id2 IN ?) OR (user_id2 = ? AND user_id1 IN ?)", userID, candidates, userID, candidates).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].Other(userID)] = true
	}
	return result, nil
}

func (r *gormFriendshipRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Count(&count).Error
	return count, err
}
