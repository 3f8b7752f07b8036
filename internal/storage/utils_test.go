package storage_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"testgram/internal/storage"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, storage.IsUniqueViolation(fmt.Errorf("creating chat: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, storage.IsUniqueViolation(nil))
	assert.False(t, storage.IsUniqueViolation(gorm.ErrRecordNotFound))
	// Untranslated driver text is not matched.
	assert.False(t, storage.IsUniqueViolation(errors.New("UNIQUE constraint failed: chats.pair_high")))
}
