package handler

import (
	"github.com/gofiber/fiber/v2"
	"social-chat-api/apperror"
	"social-chat-api/dto/res"
	"social-chat-api/middleware"
)

func parseBody(ctx *fiber.Ctx, payload interface{}) error {
	if err := ctx.BodyParser(payload); err != nil {
		return &apperror.Error{Kind: apperror.KindValidation, Message: "invalid request body", Err: err}
	}
	return nil
}

// sessionUserID is only called behind RequireLogin.
func sessionUserID(ctx *fiber.Ctx) (string, error) {
	claims := middleware.UserFromContext(ctx)
	if claims == nil {
		return "", fiber.ErrUnauthorized
	}
	return claims.UserID, nil
}

func respond[T any](ctx *fiber.Ctx, message string, data T) error {
	return ctx.Status(fiber.StatusOK).JSON(res.CommonResponse[T]{
		Message:    message,
		StatusCode: fiber.StatusOK,
		Data:       data,
	})
}
