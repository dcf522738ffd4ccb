package models

import (
	"time"
)

// CommentMaxLen is the persisted column size for comment text.
const CommentMaxLen = 200

// Comment is attached to exactly one article and is removed together
// with it. The author reference is cleared when the author is deleted.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	Comment   string    `gorm:"size:200;not null" json:"comment"`
	AuthorID  *uint     `gorm:"index" json:"author_id,omitempty"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
