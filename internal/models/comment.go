package models

// Comment is a reply to a post.
type Comment struct {
	BaseModel
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	Post     *Post  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Body     string `gorm:"type:text;not null" json:"body"`
	// Updated is set once the body has been edited.
	Updated bool `gorm:"not null;default:false" json:"updated"`
}

func (Comment) TableName() string {
	return "comments"
}
