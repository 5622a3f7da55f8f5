package usecase

import (
	"context"

	"social-chat-api/dto/req"
	"social-chat-api/dto/res"
)

type FriendshipUsecase interface {
	Add(ctx context.Context, fromUserID string, request *req.FriendAddRequest) error
	ListRequests(ctx context.Context, userID string) (res.FriendRequestListResponse, error)
	Agree(ctx context.Context, requesterID, responderID string) error
	Reject(ctx context.Context, requesterID, responderID string) error
	List(ctx context.Context, userID string) ([]res.UserResponse, error)
	Remove(ctx context.Context, userID, friendID string) error
}
