package entity

import (
	"time"

	"github.com/google/uuid"
)

type SearchHistory struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	SearchQuery  string
	QueryKey     string
	Platform     string
	ResultsCount int
	CustomLabel  *string
	CreatedAt    time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

type UserEvent struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	EventType string
	EventData map[string]interface{}
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type UserFavorite struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ProductId string
	UserNotes *string
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
