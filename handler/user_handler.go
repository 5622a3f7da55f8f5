package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"social-chat-api/apperror"
	"social-chat-api/dto/req"
	"social-chat-api/enum"
	"social-chat-api/usecase"
)

type UserHandler struct {
	usecase.UserUsecase
	usecase.CaptchaUsecase
	*logrus.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, captchaUsecase usecase.CaptchaUsecase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{UserUsecase: userUsecase, CaptchaUsecase: captchaUsecase, Logger: logger}
}

func (handler *UserHandler) Register(ctx *fiber.Ctx) error {
	payload := new(req.RegisterRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	user, err := handler.UserUsecase.Register(ctx.Context(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to register %s", payload.Username)
		return err
	}
	return respond(ctx, "Successfully registered new user", user)
}

func (handler *UserHandler) Login(ctx *fiber.Ctx) error {
	payload := new(req.LoginRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	login, err := handler.UserUsecase.Login(ctx.Context(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed login for %s", payload.Username)
		return err
	}
	return respond(ctx, "Successfully logged in", login)
}

func (handler *UserHandler) Info(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	user, err := handler.UserUsecase.Info(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return respond(ctx, "Successfully retrieved user", user)
}

func (handler *UserHandler) UpdatePassword(ctx *fiber.Ctx) error {
	payload := new(req.UpdatePasswordRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	if err := handler.UserUsecase.UpdatePassword(ctx.Context(), payload); err != nil {
		handler.Logger.WithError(err).Warnf("failed to update password for %s", payload.Username)
		return err
	}
	return respond(ctx, "Successfully updated password", "ok")
}

func (handler *UserHandler) Update(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	payload := new(req.UpdateUserRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	user, err := handler.UserUsecase.Update(ctx.Context(), userID, payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to update user %s", userID)
		return err
	}
	return respond(ctx, "Successfully updated user", user)
}

// Captcha builds the GET handler mailing a code for purpose to ?address=.
func (handler *UserHandler) Captcha(purpose enum.CaptchaPurpose) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		payload := new(req.CaptchaRequest)
		if err := ctx.QueryParser(payload); err != nil {
			return &apperror.Error{Kind: apperror.KindValidation, Message: "invalid query", Err: err}
		}
		if err := handler.CaptchaUsecase.SendCaptcha(ctx.Context(), purpose, payload); err != nil {
			return err
		}
		return respond(ctx, "Verification code sent", "ok")
	}
}
