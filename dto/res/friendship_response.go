package res

import (
	"time"

	"social-chat-api/entity"
	"social-chat-api/enum"
)

type FriendRequestResponse struct {
	ID         string                   `json:"id"`
	FromUserID string                   `json:"fromUserId"`
	ToUserID   string                   `json:"toUserId"`
	Reason     string                   `json:"reason"`
	Status     enum.FriendRequestStatus `json:"status"`
	CreatedAt  time.Time                `json:"createdAt"`
}

type FriendRequestListResponse struct {
	Sent     []FriendRequestResponse `json:"sent"`
	Received []FriendRequestResponse `json:"received"`
}

func NewFriendRequestResponses(requests []entity.FriendRequest) []FriendRequestResponse {
	responses := make([]FriendRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, FriendRequestResponse{
			ID:         r.ID,
			FromUserID: r.FromUserID,
			ToUserID:   r.ToUserID,
			Reason:     r.Reason,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
		})
	}
	return responses
}
