package req

type CreateDirectRoomRequest struct {
	FriendID string `json:"friendId" validate:"required"`
}

type CreateGroupRoomRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// RoomMessageRequest is a text frame sent over a chat room socket.
type RoomMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
