package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository carries the queries every entity shares. The db argument is either
// the pool or an open transaction.
type Repository[T any] struct{}

func (repo Repository[T]) Save(ctx context.Context, db *gorm.DB, entity *T) error {
	return db.WithContext(ctx).Create(entity).Error
}

func (repo Repository[T]) SaveAll(ctx context.Context, db *gorm.DB, entities *[]T) error {
	return db.WithContext(ctx).Create(entities).Error
}

// SaveIgnoreConflict inserts entity unless a unique constraint already holds an equal row.
// It reports whether a row was written.
func (repo Repository[T]) SaveIgnoreConflict(ctx context.Context, db *gorm.DB, entity *T) (bool, error) {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entity)
	return result.RowsAffected > 0, result.Error
}

func (repo Repository[T]) Update(ctx context.Context, db *gorm.DB, entity *T) error {
	return db.WithContext(ctx).Save(entity).Error
}

func (repo Repository[T]) Delete(ctx context.Context, db *gorm.DB, entity *T) error {
	return db.WithContext(ctx).Delete(entity).Error
}

func (repo Repository[T]) FindById(ctx context.Context, db *gorm.DB, entity *T, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Take(entity).Error
}

func (repo Repository[T]) FindByIds(ctx context.Context, db *gorm.DB, entities *[]T, ids []string) error {
	if len(ids) == 0 {
		*entities = []T{}
		return nil
	}
	return db.WithContext(ctx).Where("id IN ?", ids).Find(entities).Error
}

func (repo Repository[T]) ExistsById(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (repo Repository[T]) FindAll(ctx context.Context, db *gorm.DB, entities *[]T) error {
	return db.WithContext(ctx).Find(entities).Error
}
