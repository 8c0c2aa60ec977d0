package contract

import (
	"context"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.UserFavorite) error
	Update(ctx context.Context, favorite *entity.UserFavorite) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFavorite, error)
	// FindOneAny looks past the soft-delete filter so a tombstoned favorite
	// can be resurrected instead of duplicated.
	FindOneAny(ctx context.Context, userId uuid.UUID, productId string) (*entity.UserFavorite, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFavorite, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Restore(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
