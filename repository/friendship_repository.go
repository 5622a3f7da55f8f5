package repository

import (
	"context"

	"gorm.io/gorm"
	"social-chat-api/entity"
	"social-chat-api/enum"
)

type FriendRequestRepository struct {
	Repository[entity.FriendRequest]
}

func NewFriendRequestRepository() *FriendRequestRepository {
	return &FriendRequestRepository{}
}

func (repository FriendRequestRepository) FindBySender(ctx context.Context, db *gorm.DB, userID string) ([]entity.FriendRequest, error) {
	var requests []entity.FriendRequest
	err := db.WithContext(ctx).
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (repository FriendRequestRepository) FindByReceiver(ctx context.Context, db *gorm.DB, userID string) ([]entity.FriendRequest, error) {
	var requests []entity.FriendRequest
	err := db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ResolvePending moves every pending request from -> to into status and returns how many changed.
func (repository FriendRequestRepository) ResolvePending(ctx context.Context, db *gorm.DB, fromUserID, toUserID string, status enum.FriendRequestStatus) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromUserID, toUserID, enum.FriendRequestPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}

type FriendshipRepository struct {
	Repository[entity.Friendship]
}

func NewFriendshipRepository() *FriendshipRepository {
	return &FriendshipRepository{}
}

func (repository FriendshipRepository) Exists(ctx context.Context, db *gorm.DB, userID, friendID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// FindTouching returns every edge that has userID on either side.
func (repository FriendshipRepository) FindTouching(ctx context.Context, db *gorm.DB, userID string) ([]entity.Friendship, error) {
	var edges []entity.Friendship
	err := db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Find(&edges).Error
	return edges, err
}

// DeleteEdge removes only the (userID, friendID) direction.
func (repository FriendshipRepository) DeleteEdge(ctx context.Context, db *gorm.DB, userID, friendID string) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&entity.Friendship{}).Error
}
