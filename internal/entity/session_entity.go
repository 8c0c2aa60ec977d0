package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one refresh credential. A session is usable only while it is
// live (not soft-deleted) and not past ExpiresAt; everything else is treated
// as revoked.
type Session struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	IpAddress string
	UserAgent string
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// Active reports whether the session can still authenticate a refresh.
func (s *Session) Active(now time.Time) bool {
	return !s.IsDeleted && now.Before(s.ExpiresAt)
}
