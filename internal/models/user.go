package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the root identity entity. Employees optionally reference it.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Role      string    `json:"role" gorm:"size:50;not null;default:user"`
	AvatarURL string    `json:"avatarUrl" gorm:"size:500"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
