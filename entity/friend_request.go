package entity

import "social-chat-api/enum"

// FriendRequest rows are never deleted, so the history of a pair accumulates.
type FriendRequest struct {
	BaseEntity
	FromUserID string                   `json:"fromUserId" gorm:"type:varchar(255);not null;index:idx_friend_request_pair,priority:1"`
	ToUserID   string                   `json:"toUserId" gorm:"type:varchar(255);not null;index:idx_friend_request_pair,priority:2"`
	Reason     string                   `json:"reason" gorm:"type:varchar(100)"`
	Status     enum.FriendRequestStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
}
