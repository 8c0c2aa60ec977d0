package mapper

import (
	"time"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/model"

	"gorm.io/gorm"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Product{
		ProductId:          p.ProductId,
		PlatformName:       p.PlatformName,
		ProductName:        p.ProductName,
		ProductDescription: p.ProductDescription,
		ProductURL:         p.ProductURL,
		ImageURL:           p.ImageURL,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
		IsDeleted:          p.DeletedAt.Valid,
	}
}

func (m *ProductMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Product{
		ProductId:          p.ProductId,
		PlatformName:       p.PlatformName,
		ProductName:        p.ProductName,
		ProductDescription: p.ProductDescription,
		ProductURL:         p.ProductURL,
		ImageURL:           p.ImageURL,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
	}
}

func (m *ProductMapper) PriceToEntity(p *model.ProductPrice) *entity.ProductPrice {
	if p == nil {
		return nil
	}
	return &entity.ProductPrice{
		ProductId:      p.ProductId,
		CurrentPrice:   p.CurrentPrice,
		OriginalPrice:  p.OriginalPrice,
		CurrencyCode:   p.CurrencyCode,
		CurrencySymbol: p.CurrencySymbol,
		IsInStock:      p.IsInStock,
		RecordedAt:     p.RecordedAt,
	}
}

func (m *ProductMapper) RatingToEntity(r *model.ProductRating) *entity.ProductRating {
	if r == nil {
		return nil
	}
	return &entity.ProductRating{
		ProductId:        r.ProductId,
		AverageRating:    r.AverageRating,
		TotalReviewCount: r.TotalReviewCount,
		RecordedAt:       r.RecordedAt,
	}
}
