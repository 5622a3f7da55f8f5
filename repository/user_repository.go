package repository

import (
	"context"

	"gorm.io/gorm"
	"social-chat-api/entity"
)

type UserRepository struct {
	Repository[entity.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repository UserRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	user := &entity.User{}
	if err := db.WithContext(ctx).Where("username = ?", username).Take(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (repository UserRepository) ExistsByUsername(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
