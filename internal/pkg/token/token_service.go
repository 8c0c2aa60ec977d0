package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess = "access"

	DefaultAccessTTL = 30 * time.Minute
)

// ErrInvalidToken is returned for any token that cannot be accepted: bad
// signature, expired, malformed claims, or the wrong token type.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of an access token.
type Claims struct {
	UserId   uuid.UUID
	Email    string
	Username string
}

// Service issues stateless signed access tokens and opaque refresh values.
// Refresh values carry no claims; their validity lives in the session store.
type Service struct {
	secret    []byte
	accessTTL time.Duration
}

func NewService(secret string, accessTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &Service{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

func (s *Service) IssueAccessToken(userId uuid.UUID, email, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userId.String(),
		"type":     TypeAccess,
		"email":    email,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// NewRefreshValue returns a fresh opaque refresh credential.
func (s *Service) NewRefreshValue() string {
	return uuid.New().String()
}

// HashRefreshValue digests a raw refresh value for storage; the raw value is
// never persisted.
func HashRefreshValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// VerifyAccessToken checks signature, expiry and token type. A refresh value
// presented here fails because it is not a JWT at all.
func (s *Service) VerifyAccessToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if typ, _ := mapClaims["type"].(string); typ != TypeAccess {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	userId, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)
	username, _ := mapClaims["username"].(string)

	return &Claims{
		UserId:   userId,
		Email:    email,
		Username: username,
	}, nil
}
