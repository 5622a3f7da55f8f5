package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"social-chat-api/apperror"
	"social-chat-api/dto"
	"social-chat-api/dto/res"
	"social-chat-api/entity"
	"social-chat-api/enum"
	"social-chat-api/repository"
)

var (
	errRoomNotFound  = apperror.NotFound("chat room does not exist")
	errDirectNoJoin  = apperror.Invariant("direct rooms cannot accept new members")
	errDirectNoLeave = apperror.Invariant("direct rooms cannot remove members")
)

type ChatroomUsecaseImpl struct {
	Rooms       *repository.ChatRoomRepository
	Memberships *repository.UserChatRoomRepository
	Users       *repository.UserRepository
	*gorm.DB
	*logrus.Logger
	Notifier RoomNotifier
}

func NewChatroomUsecase(
	rooms *repository.ChatRoomRepository,
	members *repository.UserChatRoomRepository,
	users *repository.UserRepository,
	DB *gorm.DB,
	logger *logrus.Logger,
	notifier RoomNotifier,
) ChatroomUsecase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ChatroomUsecaseImpl{Rooms: rooms, Memberships: members, Users: users, DB: DB, Logger: logger, Notifier: notifier}
}

// CreateDirect returns the existing direct room of the pair when there is one.
func (uc *ChatroomUsecaseImpl) CreateDirect(ctx context.Context, userID, friendID string) (string, error) {
	if friendID == "" {
		return "", errEmptyFriendID
	}
	if friendID == userID {
		return "", apperror.Validation("cannot create a direct room with yourself")
	}
	exists, err := uc.Users.ExistsById(ctx, uc.DB, friendID)
	if err != nil {
		return "", apperror.Internal("failed to create chat room", err)
	}
	if !exists {
		return "", apperror.NotFound("user does not exist")
	}

	key := pairKey(userID, friendID)
	existing, err := uc.Rooms.FindByPairKey(ctx, uc.DB, key)
	if err != nil {
		return "", apperror.Internal("failed to create chat room", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	name, err := randomRoomName()
	if err != nil {
		return "", apperror.Internal("failed to create chat room", err)
	}
	room := &entity.ChatRoom{Name: name, Type: enum.DIRECT, PairKey: &key}
	if err := uc.Rooms.CreateWithMembers(ctx, uc.DB, room, []string{userID, friendID}); err != nil {
		// a concurrent request may have won the unique pair key
		if winner, findErr := uc.Rooms.FindByPairKey(ctx, uc.DB, key); findErr == nil && winner != nil {
			return winner.ID, nil
		}
		uc.Logger.WithError(err).Errorf("failed to create direct room for %s and %s", userID, friendID)
		return "", apperror.Internal("failed to create chat room", err)
	}

	uc.publish(dto.EventRoomCreated, room.ID, userID)
	uc.Logger.Infof("direct room %s created for %s and %s", room.ID, userID, friendID)
	return room.ID, nil
}

func (uc *ChatroomUsecaseImpl) CreateGroup(ctx context.Context, name, creatorID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.Validation("group name must not be empty")
	}
	room := &entity.ChatRoom{Name: name, Type: enum.GROUP}
	if err := uc.Rooms.CreateWithMembers(ctx, uc.DB, room, []string{creatorID}); err != nil {
		uc.Logger.WithError(err).Errorf("failed to create group room %q", name)
		return "", apperror.Internal("failed to create chat room", err)
	}

	uc.publish(dto.EventRoomCreated, room.ID, creatorID)
	uc.Logger.Infof("group room %s created by %s", room.ID, creatorID)
	return room.ID, nil
}

func (uc *ChatroomUsecaseImpl) Join(ctx context.Context, roomID, userID string) error {
	room, err := uc.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Type == enum.DIRECT {
		return errDirectNoJoin
	}

	joined, err := uc.Memberships.SaveIgnoreConflict(ctx, uc.DB, &entity.UserChatRoom{UserID: userID, ChatRoomID: roomID})
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to add %s to room %s", userID, roomID)
		return apperror.Internal("failed to join chat room", err)
	}
	if joined {
		uc.publish(dto.EventMemberJoined, roomID, userID)
	}
	return nil
}

func (uc *ChatroomUsecaseImpl) Quit(ctx context.Context, roomID, userID string) error {
	room, err := uc.findRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Type == enum.DIRECT {
		return errDirectNoLeave
	}

	removed, err := uc.Memberships.DeleteMembership(ctx, uc.DB, roomID, userID)
	if err != nil {
		uc.Logger.WithError(err).Errorf("failed to remove %s from room %s", userID, roomID)
		return apperror.Internal("failed to quit chat room", err)
	}
	if removed > 0 {
		uc.publish(dto.EventMemberLeft, roomID, userID)
	}
	return nil
}

func (uc *ChatroomUsecaseImpl) ListForUser(ctx context.Context, userID string) ([]res.ChatRoomResponse, error) {
	roomIDs, err := uc.Memberships.FindRoomIDsByUser(ctx, uc.DB, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list chat rooms", err)
	}
	var rooms []entity.ChatRoom
	if err := uc.Rooms.FindByIds(ctx, uc.DB, &rooms, roomIDs); err != nil {
		return nil, apperror.Internal("failed to list chat rooms", err)
	}
	memberships, err := uc.Memberships.FindByRooms(ctx, uc.DB, roomIDs)
	if err != nil {
		return nil, apperror.Internal("failed to list chat rooms", err)
	}

	membersByRoom := make(map[string][]string, len(rooms))
	for _, m := range memberships {
		membersByRoom[m.ChatRoomID] = append(membersByRoom[m.ChatRoomID], m.UserID)
	}

	responses := make([]res.ChatRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		userIDs := membersByRoom[room.ID]
		if userIDs == nil {
			userIDs = []string{}
		}
		responses = append(responses, res.ChatRoomResponse{
			ID:        room.ID,
			Name:      room.Name,
			Type:      room.Type,
			CreatedAt: room.CreatedAt,
			UserIDs:   userIDs,
			UserCount: len(userIDs),
		})
	}
	return responses, nil
}

func (uc *ChatroomUsecaseImpl) Members(ctx context.Context, roomID string) ([]res.UserResponse, error) {
	userIDs, err := uc.Memberships.FindUserIDsByRoom(ctx, uc.DB, roomID)
	if err != nil {
		return nil, apperror.Internal("failed to list members", err)
	}
	var users []entity.User
	if err := uc.Users.FindByIds(ctx, uc.DB, &users, userIDs); err != nil {
		return nil, apperror.Internal("failed to list members", err)
	}
	return res.NewUserResponses(users), nil
}

func (uc *ChatroomUsecaseImpl) Info(ctx context.Context, roomID string) (res.ChatRoomInfoResponse, error) {
	room, err := uc.findRoom(ctx, roomID)
	if err != nil {
		return res.ChatRoomInfoResponse{}, err
	}
	users, err := uc.Members(ctx, roomID)
	if err != nil {
		return res.ChatRoomInfoResponse{}, err
	}
	return res.ChatRoomInfoResponse{
		ID:        room.ID,
		Name:      room.Name,
		Type:      room.Type,
		CreatedAt: room.CreatedAt,
		Users:     users,
	}, nil
}

func (uc *ChatroomUsecaseImpl) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	member, err := uc.Memberships.IsMember(ctx, uc.DB, roomID, userID)
	if err != nil {
		return false, apperror.Internal("failed to check membership", err)
	}
	return member, nil
}

func (uc *ChatroomUsecaseImpl) findRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	if roomID == "" {
		return nil, apperror.Validation("room id must not be empty")
	}
	var room entity.ChatRoom
	if err := uc.Rooms.FindById(ctx, uc.DB, &room, roomID); err != nil {
		if isNotFound(err) {
			return nil, errRoomNotFound
		}
		return nil, apperror.Internal("failed to find chat room", err)
	}
	return &room, nil
}

func (uc *ChatroomUsecaseImpl) publish(eventType, roomID, userID string) {
	uc.Notifier.Publish(dto.RoomEvent{
		Type:      eventType,
		RoomID:    roomID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
}

// pairKey is order independent so both members map to the same direct room.
func pairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + ":" + pair[1]
}

func randomRoomName() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("chatroom-%06d", n.Int64()), nil
}
