package models

import "time"

type Profile struct {
	UserID      string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	Handle      string    `json:"handle" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Bio         *string   `json:"bio,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Deactivated bool      `json:"deactivated" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
