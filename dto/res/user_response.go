package res

import (
	"time"

	"social-chat-api/entity"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	NickName  string    `json:"nickName"`
	Email     string    `json:"email"`
	HeadPic   string    `json:"headPic"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		NickName:  user.NickName,
		Email:     user.Email,
		HeadPic:   user.HeadPic,
		CreatedAt: user.CreatedAt,
	}
}

func NewUserResponses(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, NewUserResponse(&users[i]))
	}
	return responses
}
