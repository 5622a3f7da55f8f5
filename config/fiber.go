package config

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"social-chat-api/apperror"
	"social-chat-api/config/common"
	"social-chat-api/dto/res"
)

func NewFiber(cfg *common.Config, log *logrus.Logger) *fiber.App {
	appName := cfg.GetAppConfig()
	return fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		AppName:       appName,
		ErrorHandler:  NewErrorHandler(log),
	})
}

// NewErrorHandler renders every error returned by a handler as res.ErrorResponse.
// Internal causes are logged, never sent.
func NewErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(res.ErrorResponse{
				Status:     statusText(fiberErr.Code),
				StatusCode: fiberErr.Code,
				Error:      fiberErr.Message,
			})
		}

		code := apperror.StatusOf(err)
		if code == fiber.StatusInternalServerError {
			log.WithError(err).Errorf("%s %s failed", ctx.Method(), ctx.Path())
		}
		return ctx.Status(code).JSON(res.ErrorResponse{
			Status:     statusText(code),
			StatusCode: code,
			Error:      apperror.Message(err),
		})
	}
}

func statusText(code int) string {
	return fiber.NewError(code).Message
}
