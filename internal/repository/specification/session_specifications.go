package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByTokenHash matches the session carrying a given refresh-token digest.
type ByTokenHash struct {
	TokenHash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.TokenHash)
}

// NotExpired keeps only sessions still inside their expiry window.
type NotExpired struct {
	Now time.Time
}

func (s NotExpired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Now)
}
