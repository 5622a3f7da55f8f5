package usecase

import (
	"context"

	"social-chat-api/dto/req"
	"social-chat-api/enum"
)

type CaptchaUsecase interface {
	SendCaptcha(ctx context.Context, purpose enum.CaptchaPurpose, request *req.CaptchaRequest) error
}
