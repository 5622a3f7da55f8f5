package usecase

import (
	"context"

	"social-chat-api/dto/req"
	"social-chat-api/dto/res"
)

type UserUsecase interface {
	Register(ctx context.Context, request *req.RegisterRequest) (res.UserResponse, error)
	Login(ctx context.Context, request *req.LoginRequest) (res.LoginResponse, error)
	Info(ctx context.Context, userID string) (res.UserResponse, error)
	UpdatePassword(ctx context.Context, request *req.UpdatePasswordRequest) error
	Update(ctx context.Context, userID string, request *req.UpdateUserRequest) (res.UserResponse, error)
}
