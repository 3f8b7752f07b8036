package storage

import (
	"context"

	"gorm.io/gorm"

	"testgram/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// List returns users ordered by id descending along with the total count.
	List(ctx context.Context, page Page) ([]models.User, int64, error)
	// ListByIDs returns the users whose id is in ids, ordered by id descending.
	ListByIDs(ctx context.Context, ids []uint, page Page) ([]models.User, int64, error)
}

// gormUserRepository implements UserRepository using GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based UserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create creates a new user record in the database.
func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by their ID.
func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err // Handles gorm.ErrRecordNotFound as well
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormUserRepository) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := page.apply(r.db.WithContext(ctx).Order("id DESC")).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *gormUserRepository) ListByIDs(ctx context.Context, ids []uint, page Page) ([]models.User, int64, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, 0, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", ids).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := page.apply(r.db.WithContext(ctx).Where("id IN ?", ids).Order("id DESC")).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
