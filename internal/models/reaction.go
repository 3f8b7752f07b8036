package models

// ReactionValue is one of the fixed emoji reactions.
type ReactionValue string

const (
	ReactionSmile   ReactionValue = "smile"
	ReactionThumbUp ReactionValue = "thumb_up"
	ReactionLaugh   ReactionValue = "laugh"
	ReactionSad     ReactionValue = "sad"
	ReactionHeart   ReactionValue = "heart"
)

// ReactionValues lists every accepted value in display order.
var ReactionValues = []ReactionValue{ReactionSmile, ReactionThumbUp, ReactionLaugh, ReactionSad, ReactionHeart}

// Valid reports whether v belongs to the enumeration.
func (v ReactionValue) Valid() bool {
	for _, known := range ReactionValues {
		if v == known {
			return true
		}
	}
	return false
}

// Reaction is a user's emoji on a post. At most one row exists per
// (author, post); a nil Value means the reaction is unset.
type Reaction struct {
	BaseModel
	AuthorID uint           `gorm:"not null;uniqueIndex:idx_reaction_author_post" json:"author_id"`
	Author   *User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	PostID   uint           `gorm:"not null;uniqueIndex:idx_reaction_author_post;index" json:"post_id"`
	Post     *Post          `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Value    *ReactionValue `gorm:"type:varchar(8)" json:"value"`
}

func (Reaction) TableName() string {
	return "reactions"
}
