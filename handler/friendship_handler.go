package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"social-chat-api/dto/req"
	"social-chat-api/usecase"
)

type FriendshipHandler struct {
	usecase.FriendshipUsecase
	*logrus.Logger
}

func NewFriendshipHandler(friendshipUsecase usecase.FriendshipUsecase, logger *logrus.Logger) *FriendshipHandler {
	return &FriendshipHandler{FriendshipUsecase: friendshipUsecase, Logger: logger}
}

func (handler *FriendshipHandler) Add(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	payload := new(req.FriendAddRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}
	if err := handler.FriendshipUsecase.Add(ctx.Context(), userID, payload); err != nil {
		handler.Logger.WithError(err).Warnf("failed to add friend %s for %s", payload.FriendID, userID)
		return err
	}
	return respond(ctx, "Friend request sent", "ok")
}

func (handler *FriendshipHandler) RequestList(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	requests, err := handler.FriendshipUsecase.ListRequests(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return respond(ctx, "Successfully retrieved friend requests", requests)
}

// Agree accepts the request sent by :id to the session user.
func (handler *FriendshipHandler) Agree(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	if err := handler.FriendshipUsecase.Agree(ctx.Context(), ctx.Params("id"), userID); err != nil {
		handler.Logger.WithError(err).Warnf("failed to agree friend request from %s", ctx.Params("id"))
		return err
	}
	return respond(ctx, "Friend request accepted", "ok")
}

func (handler *FriendshipHandler) Reject(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	if err := handler.FriendshipUsecase.Reject(ctx.Context(), ctx.Params("id"), userID); err != nil {
		return err
	}
	return respond(ctx, "Friend request rejected", "ok")
}

func (handler *FriendshipHandler) List(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	friends, err := handler.FriendshipUsecase.List(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return respond(ctx, "Successfully retrieved friends", friends)
}

func (handler *FriendshipHandler) Remove(ctx *fiber.Ctx) error {
	userID, err := sessionUserID(ctx)
	if err != nil {
		return err
	}
	if err := handler.FriendshipUsecase.Remove(ctx.Context(), userID, ctx.Params("id")); err != nil {
		return err
	}
	return respond(ctx, "Friend removed", "ok")
}
