package models

import "time"

// Rating categories. Album ratings carry the artist id in ParentID,
// song ratings carry the album id.
const (
	CategoryAlbum  = "ALBUM"
	CategorySong   = "SONG"
	CategoryArtist = "ARTIST"
)

type Rating struct {
	UserID      string    `json:"user_id" gorm:"primaryKey;type:uuid"`
	ResourceID  string    `json:"resource_id" gorm:"primaryKey"`
	ParentID    *string   `json:"parent_id,omitempty" gorm:"index"`
	Category    string    `json:"category" gorm:"not null;check:category IN ('ALBUM','SONG','ARTIST')"`
	Rating      int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 10"`
	Content     *string   `json:"content,omitempty"` // non-nil marks the rating as a review
	Deactivated bool      `json:"deactivated" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Profile Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;references:UserID"`
}

func (Rating) TableName() string {
	return "ratings"
}

// IsReview reports whether the rating carries review text.
func (r *Rating) IsReview() bool {
	return r.Content != nil
}
