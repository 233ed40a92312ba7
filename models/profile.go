package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleReader = "reader"
	RoleAdmin  = "admin"
)

// Profile carries the role of an identity issued by the auth provider.
// ID equals the subject of the bearer token.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role      string    `gorm:"type:varchar(16);not null;default:'reader'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
