package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseEntity struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(255)"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (base *BaseEntity) BeforeCreate(tx *gorm.DB) error {
	assignID(&base.ID)
	return nil
}

// assignID keeps caller-supplied ids so tests and seeds can use fixed values.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
