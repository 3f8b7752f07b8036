package models

import "time"

// BaseModel defines the common fields for all models.
// Rows are hard-deleted so that uniqueness constraints only ever describe
// live records.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
