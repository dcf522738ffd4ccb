package models

import (
	"time"
)

// Profile holds the optional per-user attributes that extend the core
// account record. Exactly one Profile exists per User; it is created in
// the same transaction as the User at registration.
type Profile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
