package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Username      string         `gorm:"type:varchar(30);uniqueIndex;not null"`
	Email         string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	FirstName     string         `gorm:"type:varchar(50);not null"`
	LastName      string         `gorm:"type:varchar(50);not null"`
	PasswordHash  string         `gorm:"type:varchar(255);not null"`
	IsActive      bool           `gorm:"default:true"`
	EmailVerified bool           `gorm:"default:false"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// UserSession carries the refresh credential for one login. The raw refresh
// value is never stored; only its sha256 hex digest lands in token_hash.
type UserSession struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	TokenHash string         `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time      `gorm:"not null"`
	IpAddress string         `gorm:"type:varchar(45)"`
	UserAgent string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

type EmailVerificationToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}
