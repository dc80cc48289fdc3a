package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks that UserID liked the rating written by AuthorID on ResourceID.
type Like struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_rating,priority:1"`
	AuthorID   string    `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_rating,priority:2;index:idx_likes_rating"`
	ResourceID string    `json:"resource_id" gorm:"not null;uniqueIndex:idx_likes_user_rating,priority:3;index:idx_likes_rating"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}

func (Like) TableName() string {
	return "likes"
}
