package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComparisonSession struct {
	Id                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId              uuid.UUID      `gorm:"type:uuid;not null;index"`
	SessionName         *string        `gorm:"type:varchar(255)"`
	OriginalSearchQuery *string        `gorm:"type:text"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (ComparisonSession) TableName() string {
	return "comparison_sessions"
}

// ComparisonProduct is keyed by (comparison_id, product_id); the composite
// primary key is what keeps re-attachment from ever inserting a second row.
type ComparisonProduct struct {
	ComparisonId uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProductId    string         `gorm:"type:varchar(255);primaryKey"`
	AddedAt      time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (ComparisonProduct) TableName() string {
	return "comparison_products"
}

type ChatMessage struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ComparisonId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	MessageType    string         `gorm:"type:varchar(20);not null"` // "user" or "ai"
	MessageContent string         `gorm:"type:text;not null"`
	AiMetadata     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
