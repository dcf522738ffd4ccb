package models

import (
	"time"
)

// Title and content limits mirror the persisted column sizes.
const (
	ArticleTitleMinLen   = 5
	ArticleTitleMaxLen   = 120
	ArticleContentMaxLen = 3000
)

// Article is a published piece of writing. The author reference is
// nullable: deleting a user keeps their articles with author cleared.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:120;not null" json:"title"`
	Content   string    `gorm:"size:3000;not null" json:"content"`
	AuthorID  *uint     `gorm:"index" json:"author_id,omitempty"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Tags      []Tag     `gorm:"many2many:article_tags" json:"tags"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorUsername returns the author's username or "" for orphaned articles.
func (a *Article) AuthorUsername() string {
	if a.Author == nil {
		return ""
	}
	return a.Author.Username
}
