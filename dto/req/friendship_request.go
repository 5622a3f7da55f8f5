package req

type FriendAddRequest struct {
	FriendID string `json:"friendId" validate:"required"`
	Reason   string `json:"reason" validate:"max=100"`
}
