package models

import (
	"time"
)

// Tag labels articles; the association lives in the article_tags join table.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Tag       string    `gorm:"size:200;not null;uniqueIndex" json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
