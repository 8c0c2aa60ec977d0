package contract

import (
	"context"

	"shopquery-be/internal/entity"
)

type ProductRepository interface {
	FindById(ctx context.Context, productId string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error

	CreatePrice(ctx context.Context, price *entity.ProductPrice) error
	CreateRating(ctx context.Context, rating *entity.ProductRating) error
	LatestPrice(ctx context.Context, productId string) (*entity.ProductPrice, error)
	LatestRating(ctx context.Context, productId string) (*entity.ProductRating, error)
}
