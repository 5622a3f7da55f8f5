package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"social-chat-api/dto/req"
	"social-chat-api/dto/res"
	"social-chat-api/usecase"
)

type ChatroomHandler struct {
	usecase.ChatroomUsecase
	*logrus.Logger
}

func NewChatroomHandler(chatroomUsecase usecase.ChatroomUsecase, logger *logrus.Logger) *ChatroomHandler {
	return &ChatroomHandler{ChatroomUsecase: chatroomUsecase, Logger: logger}
}

func (handler *ChatroomHandler) CreateDirect(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	payload := new(req.CreateDirectRoomRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	roomID, err := handler.ChatroomUsecase.CreateDirect(ctx.Context(), userID, payload.FriendID)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to create direct room for %s", userID)
		return err
	}
	return respond(ctx, "Chat room ready", res.RoomIDResponse{RoomID: roomID})
}

func (handler *ChatroomHandler) CreateGroup(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	payload := new(req.CreateGroupRoomRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	roomID, err := handler.ChatroomUsecase.CreateGroup(ctx.Context(), payload.Name, userID)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to create group room for %s", userID)
		return err
	}
	return respond(ctx, "Chat room created", res.RoomIDResponse{RoomID: roomID})
}

func (handler *ChatroomHandler) List(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	rooms, err := handler.ChatroomUsecase.ListForUser(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return respond(ctx, "Successfully retrieved chat rooms", rooms)
}

func (handler *ChatroomHandler) Info(ctx *fiber.Ctx) error {
	info, err := handler.ChatroomUsecase.Info(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return respond(ctx, "Successfully retrieved chat room", info)
}

func (handler *ChatroomHandler) Members(ctx *fiber.Ctx) error {
	members, err := handler.ChatroomUsecase.Members(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return respond(ctx, "Successfully retrieved members", members)
}

func (handler *ChatroomHandler) Join(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	if err := handler.ChatroomUsecase.Join(ctx.Context(), ctx.Params("id"), userID); err != nil {
		handler.Logger.WithError(err).Warnf("failed to join room %s", ctx.Params("id"))
		return err
	}
	return respond(ctx, "Joined chat room", "ok")
}

func (handler *ChatroomHandler) Quit(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	if err := handler.ChatroomUsecase.Quit(ctx.Context(), ctx.Params("id"), userID); err != nil {
		handler.Logger.WithError(err).Warnf("failed to quit room %s", ctx.Params("id"))
		return err
	}
	return respond(ctx, "Left chat room", "ok")
}
