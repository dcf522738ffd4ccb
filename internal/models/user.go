// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account in Chronicle.
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Username    string       `gorm:"unique;not null" json:"username"`
	Email       string       `gorm:"not null" json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Password    string       `gorm:"not null" json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Profile     *Profile     `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Articles    []Article    `gorm:"foreignKey:AuthorID" json:"articles,omitempty"`
	Permissions []Permission `gorm:"many2many:user_permissions" json:"-"`
}

// FullName returns "First Last", falling back to the username when both
// name fields are empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
