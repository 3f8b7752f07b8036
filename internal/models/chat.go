package models

import "gorm.io/gorm"

// Chat is a private conversation between two distinct users.
//
// User1 is whoever opened the chat. PairHigh/PairLow hold max/min of the two
// ids and carry the unique index, so exactly one chat exists per unordered
// pair regardless of who opened it.
type Chat struct {
	BaseModel
	User1ID  uint  `gorm:"not null;index" json:"user_1"`
	User1    *User `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE" json:"-"`
	User2ID  uint  `gorm:"not null;index" json:"user_2"`
	User2    *User `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE" json:"-"`
	PairHigh uint  `gorm:"not null;uniqueIndex:idx_chat_pair,priority:1" json:"-"`
	PairLow  uint  `gorm:"not null;uniqueIndex:idx_chat_pair,priority:2" json:"-"`
}

func (Chat) TableName() string {
	return "chats"
}

// ChatPairKey returns the normalized (high, low) key of an unordered pair.
func ChatPairKey(a, b uint) (high, low uint) {
	if a > b {
		return a, b
	}
	return b, a
}

// BeforeCreate fills the normalized pair columns.
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	c.PairHigh, c.PairLow = ChatPairKey(c.User1ID, c.User2ID)
	return nil
}

// HasParticipant reports whether userID is one of the two chat members.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// CompanionID returns the participant that is not userID.
func (c *Chat) CompanionID(userID uint) uint {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Companion returns the preloaded participant that is not userID, if any.
func (c *Chat) Companion(userID uint) *User {
	if c.User1ID == userID {
		return c.User2
	}
	return c.User1
}
