package contract

import (
	"context"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SearchHistoryRepository interface {
	Create(ctx context.Context, record *entity.SearchHistory) error
	Update(ctx context.Context, record *entity.SearchHistory) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SearchHistory, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SearchHistory, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ListLatestPerKey returns, per distinct normalized key, the single live
	// row with the greatest creation instant, newest group first.
	ListLatestPerKey(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.SearchHistory, int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error)
}
