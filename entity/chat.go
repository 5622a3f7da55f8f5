package entity

import (
	"time"

	"gorm.io/gorm"
	"social-chat-api/enum"
)

type ChatRoom struct {
	BaseEntity
	Name string        `json:"name" gorm:"type:varchar(50);not null"`
	Type enum.ChatType `json:"type" gorm:"type:varchar(7);not null"`
	// PairKey is set only for direct rooms and keeps one room per pair.
	PairKey *string `json:"-" gorm:"type:varchar(511);uniqueIndex"`
}

type UserChatRoom struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(255)"`
	UserID     string    `json:"userId" gorm:"type:varchar(255);not null;uniqueIndex:idx_user_chat_room,priority:1"`
	ChatRoomID string    `json:"chatRoomId" gorm:"type:varchar(255);not null;uniqueIndex:idx_user_chat_room,priority:2;index"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (m *UserChatRoom) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}
