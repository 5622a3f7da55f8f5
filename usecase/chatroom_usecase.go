package usecase

import (
	"context"

	"social-chat-api/dto"
	"social-chat-api/dto/res"
)

type ChatroomUsecase interface {
	CreateDirect(ctx context.Context, userID, friendID string) (string, error)
	CreateGroup(ctx context.Context, name, creatorID string) (string, error)
	Join(ctx context.Context, roomID, userID string) error
	Quit(ctx context.Context, roomID, userID string) error
	ListForUser(ctx context.Context, userID string) ([]res.ChatRoomResponse, error)
	Members(ctx context.Context, roomID string) ([]res.UserResponse, error)
	Info(ctx context.Context, roomID string) (res.ChatRoomInfoResponse, error)
	IsMember(ctx context.Context, roomID, userID string) (bool, error)
}

// RoomNotifier receives membership events after they are committed.
type RoomNotifier interface {
	Publish(event dto.RoomEvent)
}

type nopNotifier struct{}

func (nopNotifier) Publish(dto.RoomEvent) {}
