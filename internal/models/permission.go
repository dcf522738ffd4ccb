package models

import (
	"time"
)

// Permission codenames. These are the named capability gates checked
// before the corresponding actions execute.
const (
	PermAddArticle    = "add_article"
	PermChangeArticle = "change_article"
	PermDeleteArticle = "delete_article"
	PermAddComment    = "add_comment"
)

// DefaultPermissions are granted to every user at registration.
var DefaultPermissions = []string{PermAddArticle, PermAddComment}

// AllPermissions lists every known codename, used to seed the table.
var AllPermissions = []string{
	PermAddArticle,
	PermChangeArticle,
	PermDeleteArticle,
	PermAddComment,
}

// Permission is a named capability that can be granted to users via the
// user_permissions join table.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Codename  string    `gorm:"size:100;not null;uniqueIndex" json:"codename"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
