package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. The saved property list holds
// property ids in save order; entries are never duplicated, and ids whose
// property has been deleted stay in place until explicitly removed.
type User struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string    `json:"name" gorm:"type:varchar(100);not null"`
	Email           string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password        string    `json:"-" gorm:"type:varchar(255);not null"`
	Number          string    `json:"number" gorm:"type:varchar(10);not null"`
	Address         string    `json:"address" gorm:"not null"`
	SavedProperties []string  `json:"savedProperties" gorm:"serializer:json;type:jsonb"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasSaved reports whether propertyID is already in the saved list.
func (u *User) HasSaved(propertyID string) bool {
	for _, id := range u.SavedProperties {
		if id == propertyID {
			return true
		}
	}
	return false
}
