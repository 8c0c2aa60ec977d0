package contract

import (
	"context"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ComparisonSessionRepository interface {
	Create(ctx context.Context, session *entity.ComparisonSession) error
	Update(ctx context.Context, session *entity.ComparisonSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ComparisonSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ListByActivity returns the user's live sessions newest-updated first.
	// When minMessages > 0 only sessions with at least that many live chat
	// messages qualify; the message count is taken through an outer join so
	// a session with zero messages counts as zero rather than vanishing.
	ListByActivity(ctx context.Context, userId uuid.UUID, limit, offset, minMessages int) ([]*entity.ComparisonSession, int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID) error
}
