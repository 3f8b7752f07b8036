package models

// Post is a publication owned by its author.
type Post struct {
	BaseModel
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Title    string `gorm:"type:varchar(64);not null" json:"title"`
	Body     string `gorm:"type:text;not null" json:"body"`
}

// PostTitleMaxLen is the column width of posts.title.
const PostTitleMaxLen = 64

// TableName 指定 Post 模型的表名。
func (Post) TableName() string {
	return "posts"
}
