package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SearchHistory struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	SearchQuery  string         `gorm:"type:varchar(500);not null"`
	QueryKey     string         `gorm:"type:varchar(512);index"` // normalized grouping key
	Platform     string         `gorm:"type:varchar(50);not null"`
	ResultsCount int            `gorm:"default:0"`
	CustomLabel  *string        `gorm:"type:varchar(200)"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}

type UserEvent struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventType string         `gorm:"type:varchar(50);not null;index"`
	EventData datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserEvent) TableName() string {
	return "user_events"
}

type UserFavorite struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_favorites_user_product"`
	ProductId string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_favorites_user_product"`
	UserNotes *string        `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserFavorite) TableName() string {
	return "user_favorites"
}
