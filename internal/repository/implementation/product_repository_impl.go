package implementation

import (
	"context"
	"errors"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/mapper"
	"shopquery-be/internal/model"
	"shopquery-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) FindById(ctx context.Context, productId string) (*entity.Product, error) {
	var m model.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", productId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProductToEntity(&m), nil
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) CreatePrice(ctx context.Context, price *entity.ProductPrice) error {
	m := &model.ProductPrice{
		Id:             uuid.New(),
		ProductId:      price.ProductId,
		CurrentPrice:   price.CurrentPrice,
		OriginalPrice:  price.OriginalPrice,
		CurrencyCode:   price.CurrencyCode,
		CurrencySymbol: price.CurrencySymbol,
		IsInStock:      price.IsInStock,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*price = *r.mapper.PriceToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) CreateRating(ctx context.Context, rating *entity.ProductRating) error {
	m := &model.ProductRating{
		Id:               uuid.New(),
		ProductId:        rating.ProductId,
		AverageRating:    rating.AverageRating,
		TotalReviewCount: rating.TotalReviewCount,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rating = *r.mapper.RatingToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) LatestPrice(ctx context.Context, productId string) (*entity.ProductPrice, error) {
	var m model.ProductPrice
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productId).
		Order("recorded_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PriceToEntity(&m), nil
}

func (r *ProductRepositoryImpl) LatestRating(ctx context.Context, productId string) (*entity.ProductRating, error) {
	var m model.ProductRating
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productId).
		Order("recorded_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RatingToEntity(&m), nil
}
