package contract

import (
	"context"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ComparisonProductRepository interface {
	Create(ctx context.Context, product *entity.ComparisonProduct) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonProduct, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindOneAny returns the pairing row regardless of its tombstone state,
	// or nil when the pair has never existed.
	FindOneAny(ctx context.Context, comparisonId uuid.UUID, productId string) (*entity.ComparisonProduct, error)

	// Restore clears the tombstone on an existing pairing and re-stamps its
	// attach instant.
	Restore(ctx context.Context, comparisonId uuid.UUID, productId string) error

	// Delete soft-deletes the live pairing. Returns false when no live
	// pairing matched.
	Delete(ctx context.Context, comparisonId uuid.UUID, productId string) (bool, error)

	DeleteAllBySession(ctx context.Context, comparisonId uuid.UUID) error
}
