package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"social-chat-api/entity"
)

type ChatRoomRepository struct {
	Repository[entity.ChatRoom]
}

func NewChatRoomRepository() *ChatRoomRepository {
	return &ChatRoomRepository{}
}

// FindByPairKey returns nil, nil when no direct room exists for the pair.
func (repository ChatRoomRepository) FindByPairKey(ctx context.Context, db *gorm.DB, pairKey string) (*entity.ChatRoom, error) {
	var room entity.ChatRoom
	err := db.WithContext(ctx).Where("pair_key = ?", pairKey).Take(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateWithMembers stores the room and one membership row per user in a single transaction.
func (repository ChatRoomRepository) CreateWithMembers(ctx context.Context, db *gorm.DB, room *entity.ChatRoom, userIDs []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		members := make([]entity.UserChatRoom, 0, len(userIDs))
		for _, userID := range userIDs {
			members = append(members, entity.UserChatRoom{UserID: userID, ChatRoomID: room.ID})
		}
		return tx.Create(&members).Error
	})
}

type UserChatRoomRepository struct {
	Repository[entity.UserChatRoom]
}

func NewUserChatRoomRepository() *UserChatRoomRepository {
	return &UserChatRoomRepository{}
}

func (repository UserChatRoomRepository) FindRoomIDsByUser(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var roomIDs []string
	err := db.WithContext(ctx).
		Model(&entity.UserChatRoom{}).
		Where("user_id = ?", userID).
		Pluck("chat_room_id", &roomIDs).Error
	return roomIDs, err
}

func (repository UserChatRoomRepository) FindUserIDsByRoom(ctx context.Context, db *gorm.DB, roomID string) ([]string, error) {
	var userIDs []string
	err := db.WithContext(ctx).
		Model(&entity.UserChatRoom{}).
		Where("chat_room_id = ?", roomID).
		Order("created_at ASC").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (repository UserChatRoomRepository) FindByRooms(ctx context.Context, db *gorm.DB, roomIDs []string) ([]entity.UserChatRoom, error) {
	var members []entity.UserChatRoom
	if len(roomIDs) == 0 {
		return members, nil
	}
	err := db.WithContext(ctx).
		Where("chat_room_id IN ?", roomIDs).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (repository UserChatRoomRepository) IsMember(ctx context.Context, db *gorm.DB, roomID, userID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.UserChatRoom{}).
		Where("chat_room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

func (repository UserChatRoomRepository) DeleteMembership(ctx context.Context, db *gorm.DB, roomID, userID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("chat_room_id = ? AND user_id = ?", roomID, userID).
		Delete(&entity.UserChatRoom{})
	return result.RowsAffected, result.Error
}
