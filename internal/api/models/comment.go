package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to the rating written by AuthorID on ResourceID.
type Comment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	AuthorID    string    `json:"author_id" gorm:"type:uuid;not null;index:idx_comments_rating"`
	ResourceID  string    `json:"resource_id" gorm:"not null;index:idx_comments_rating"`
	Content     string    `json:"content" gorm:"not null"`
	Deactivated bool      `json:"deactivated" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (Comment) TableName() string {
	return "comments"
}
