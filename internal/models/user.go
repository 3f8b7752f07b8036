package models

import "strings"

// User is an account of the social network.
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Email        string `gorm:"type:varchar(254)" json:"email,omitempty"`
	FirstName    string `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string `gorm:"type:varchar(150)" json:"last_name"`
}

// TableName 指定 User 模型的表名。
func (User) TableName() string {
	return "users"
}

// DisplayName is "first last", or the username when both are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
