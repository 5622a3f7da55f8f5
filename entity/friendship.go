package entity

import (
	"time"

	"gorm.io/gorm"
)

// Friendship is one directed edge. Accepting a request stores (UserID=responder, FriendID=requester);
// the reverse direction is implied by lookups that union both columns.
type Friendship struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(255)"`
	UserID    string    `json:"userId" gorm:"type:varchar(255);not null;uniqueIndex:idx_friendship_pair,priority:1"`
	FriendID  string    `json:"friendId" gorm:"type:varchar(255);not null;uniqueIndex:idx_friendship_pair,priority:2;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
