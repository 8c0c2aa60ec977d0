package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatMessageTypeUser = "user"
	ChatMessageTypeAi   = "ai"
)

type ComparisonSession struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	SessionName         *string
	OriginalSearchQuery *string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	DeletedAt           *time.Time
	IsDeleted           bool
}

type ComparisonProduct struct {
	ComparisonId uuid.UUID
	ProductId    string
	AddedAt      time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

type ChatMessage struct {
	Id             uuid.UUID
	ComparisonId   uuid.UUID
	UserId         uuid.UUID
	MessageType    string
	MessageContent string
	AiMetadata     map[string]interface{}
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
