package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"social-chat-api/apperror"
	"social-chat-api/dto/req"
	"social-chat-api/dto/res"
	"social-chat-api/entity"
	"social-chat-api/enum"
	"social-chat-api/repository"
)

var (
	errEmptyFriendID   = apperror.Validation("friend id must not be empty")
	errNoPendingFriend = apperror.NotFound("no pending friend request")
)

type FriendshipUsecaseImpl struct {
	Requests    *repository.FriendRequestRepository
	Friendships *repository.FriendshipRepository
	Users       *repository.UserRepository
	*validator.Validate
	*gorm.DB
	*logrus.Logger

	// RequirePending makes agree and reject fail with NotFound when no pending
	// request matches. Off by default: both calls then always succeed.
	RequirePending bool
}

func NewFriendshipUsecase(
	requests *repository.FriendRequestRepository,
	friendships *repository.FriendshipRepository,
	users *repository.UserRepository,
	validate *validator.Validate,
	DB *gorm.DB,
	logger *logrus.Logger,
	requirePending bool,
) FriendshipUsecase {
	return &FriendshipUsecaseImpl{
		Requests:       requests,
		Friendships:    friendships,
		Users:          users,
		Validate:       validate,
		DB:             DB,
		Logger:         logger,
		RequirePending: requirePending,
	}
}

// Add always records a new pending request, even when one is already open.
func (uc *FriendshipUsecaseImpl) Add(ctx context.Context, fromUserID string, request *req.FriendAddRequest) error {
	if err := validateRequest(uc.Validate, request); err != nil {
		return err
	}
	if request.FriendID == fromUserID {
		return apperror.Validation("cannot add yourself as a friend")
	}
	exists, err := uc.Users.ExistsById(ctx, uc.DB, request.FriendID)
	if err != nil {
		return apperror.Internal("failed to send friend request", err)
	}
	if !exists {
		return apperror.NotFound("user does not exist")
	}

	friendRequest := &entity.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   request.FriendID,
		Reason:     request.Reason,
		Status:     enum.FriendRequestPending,
	}
	if err := uc.Requests.Save(ctx, uc.DB, friendRequest); err != nil {
		uc.Logger.WithError(err).Errorf("failed to save friend request %s -> %s", fromUserID, request.FriendID)
		return apperror.Internal("failed to send friend request", err)
	}
	uc.Logger.Infof("friend request %s sent from %s to %s", friendRequest.ID, fromUserID, request.FriendID)
	return nil
}

func (uc *FriendshipUsecaseImpl) ListRequests(ctx context.Context, userID string) (res.FriendRequestListResponse, error) {
	sent, err := uc.Requests.FindBySender(ctx, uc.DB, userID)
	if err != nil {
		return res.FriendRequestListResponse{}, apperror.Internal("failed to list friend requests", err)
	}
	received, err := uc.Requests.FindByReceiver(ctx, uc.DB, userID)
	if err != nil {
		return res.FriendRequestListResponse{}, apperror.Internal("failed to list friend requests", err)
	}
	return res.FriendRequestListResponse{
		Sent:     res.NewFriendRequestResponses(sent),
		Received: res.NewFriendRequestResponses(received),
	}, nil
}

// Agree accepts every pending request from requester to responder and stores
// the single edge owned by the responder when it is missing. Repeating it is a no-op.
func (uc *FriendshipUsecaseImpl) Agree(ctx context.Context, requesterID, responderID string) error {
	if requesterID == "" {
		return errEmptyFriendID
	}

	err := uc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accepted, err := uc.Requests.ResolvePending(ctx, tx, requesterID, responderID, enum.FriendRequestAccepted)
		if err != nil {
			return err
		}

		exists, err := uc.Friendships.Exists(ctx, tx, responderID, requesterID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if accepted == 0 && uc.RequirePending {
			return errNoPendingFriend
		}
		_, err = uc.Friendships.SaveIgnoreConflict(ctx, tx, &entity.Friendship{UserID: responderID, FriendID: requesterID})
		return err
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return err
		}
		uc.Logger.WithError(err).Errorf("failed to accept friend request %s -> %s", requesterID, responderID)
		return apperror.Internal("failed to accept friend request", err)
	}
	uc.Logger.Infof("friendship accepted between %s and %s", requesterID, responderID)
	return nil
}

// Reject flips every pending request from requester to responder.
func (uc *FriendshipUsecaseImpl) Reject(ctx context.Context, requesterID, responderID string) error {
	if requesterID == "" {
		return errEmptyFriendID
	}
	rejected, err := uc.Requests.ResolvePending(ctx, uc.DB, requesterID, responderID, enum.FriendRequestRejected)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to reject friend request %s -> %s", requesterID, responderID)
		return apperror.Internal("failed to reject friend request", err)
	}
	if rejected == 0 && uc.RequirePending {
		return errNoPendingFriend
	}
	return nil
}

// List unions both edge columns, so one stored edge lists each side as the other's friend.
func (uc *FriendshipUsecaseImpl) List(ctx context.Context, userID string) ([]res.UserResponse, error) {
	edges, err := uc.Friendships.FindTouching(ctx, uc.DB, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list friends", err)
	}

	seen := make(map[string]struct{}, len(edges))
	friendIDs := make([]string, 0, len(edges))
	for _, edge := range edges {
		for _, id := range []string{edge.UserID, edge.FriendID} {
			if id == userID {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			friendIDs = append(friendIDs, id)
		}
	}

	var friends []entity.User
	if err := uc.Users.FindByIds(ctx, uc.DB, &friends, friendIDs); err != nil {
		return nil, apperror.Internal("failed to list friends", err)
	}
	return res.NewUserResponses(friends), nil
}

// Remove deletes only the edge stored as (userID, friendID). An edge stored the
// other way round survives.
func (uc *FriendshipUsecaseImpl) Remove(ctx context.Context, userID, friendID string) error {
	if friendID == "" {
		return errEmptyFriendID
	}
	if err := uc.Friendships.DeleteEdge(ctx, uc.DB, userID, friendID); err != nil {
		uc.Logger.WithError(err).Errorf("failed to remove friend %s of %s", friendID, userID)
		return apperror.Internal("failed to remove friend", err)
	}
	return nil
}
