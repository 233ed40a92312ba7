package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscriber struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Confirmed    bool       `gorm:"not null;default:false" json:"confirmed"`
	ConfirmToken string     `json:"-"`
	UnsubToken   string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}
