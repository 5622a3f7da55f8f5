package res

import (
	"time"

	"social-chat-api/enum"
)

type RoomIDResponse struct {
	RoomID string `json:"roomId"`
}

type ChatRoomResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Type      enum.ChatType `json:"type"`
	CreatedAt time.Time     `json:"createdAt"`
	UserIDs   []string      `json:"userIds"`
	UserCount int           `json:"userCount"`
}

type ChatRoomInfoResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      enum.ChatType  `json:"type"`
	CreatedAt time.Time      `json:"createdAt"`
	Users     []UserResponse `json:"users"`
}
