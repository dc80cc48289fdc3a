package models

import "time"

// Follow is a directed edge: UserID follows FollowingID.
type Follow struct {
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_user_following,priority:1"`
	FollowingID string    `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_user_following,priority:2;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Follower  Profile `json:"follower,omitempty" gorm:"foreignKey:UserID;references:UserID"`
	Following Profile `json:"following,omitempty" gorm:"foreignKey:FollowingID;references:UserID"`
}

func (Follow) TableName() string {
	return "follows"
}
