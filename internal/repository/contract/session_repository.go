package contract

import (
	"context"
	"time"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)

	// RotateToken swaps the stored refresh digest for a new one and extends
	// the expiry window, but only if the stored digest still equals oldHash
	// and the session is live and unexpired. Returns false when the
	// conditional update matched nothing, which is how a concurrent refresh
	// that lost the race observes its defeat.
	RotateToken(ctx context.Context, oldHash, newHash string, expiresAt time.Time, ipAddress, userAgent string) (bool, error)

	// ExtendAllForUser pushes the expiry of every live, unexpired session of
	// the user out to expiresAt.
	ExtendAllForUser(ctx context.Context, userId uuid.UUID, expiresAt time.Time) error

	// Revoke soft-deletes the live, unexpired session matching the digest.
	// Returns false when nothing active matched.
	Revoke(ctx context.Context, tokenHash string) (bool, error)
}
