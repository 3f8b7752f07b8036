package models

// Friendship represents a friendship relationship between two users.
// The relation is symmetric: one row per unordered pair, with UserID1 always
// less than UserID2.
type Friendship struct {
	BaseModel
	UserID1 uint  `gorm:"not null;uniqueIndex:idx_friendship_users" json:"user_id1"`
	User1   *User `gorm:"foreignKey:UserID1;constraint:OnDelete:CASCADE" json:"-"`
	UserID2 uint  `gorm:"not null;uniqueIndex:idx_friendship_users;index" json:"user_id2"`
	User2   *User `gorm:"foreignKey:UserID2;constraint:OnDelete:CASCADE" json:"-"`
}

// NewFriendship builds the canonical row for the pair.
func NewFriendship(a, b uint) *Friendship {
	f := &Friendship{UserID1: a, UserID2: b}
	f.EnsureCanonicalOrder()
	return f
}

// EnsureCanonicalOrder sets UserID1 to the smaller ID and UserID2 to the larger ID.
// This should be called before creating a Friendship record.
func (f *Friendship) EnsureCanonicalOrder() {
	if f.UserID1 > f.UserID2 {
		f.UserID1, f.UserID2 = f.UserID2, f.UserID1
	}
}

// Other returns the friend of userID in this pair.
func (f *Friendship) Other(userID uint) uint {
	if f.UserID1 == userID {
		return f.UserID2
	}
	return f.UserID1
}
