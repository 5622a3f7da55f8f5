package dto

import "time"

const (
	EventMessage      = "message"
	EventMemberJoined = "member_joined"
	EventMemberLeft   = "member_left"
	EventRoomCreated  = "room_created"
)

// RoomEvent is the frame written to every socket connected to RoomID.
type RoomEvent struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
