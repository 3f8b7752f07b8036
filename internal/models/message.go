package models

// Message is one entry of a chat. Messages are append-only: the only
// mutation after creation is deletion.
type Message struct {
	BaseModel
	ChatID   uint   `gorm:"not null;index" json:"chat"`
	Chat     *Chat  `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

// TableName 指定 Message 模型的表名。
func (Message) TableName() string {
	return "messages"
}
