package implementation

import (
	"context"
	"errors"
	"time"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/mapper"
	"shopquery-be/internal/model"
	"shopquery-be/internal/repository/contract"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComparisonProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComparisonMapper
}

func NewComparisonProductRepository(db *gorm.DB) contract.ComparisonProductRepository {
	return &ComparisonProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewComparisonMapper(),
	}
}

func (r *ComparisonProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ComparisonProductRepositoryImpl) Create(ctx context.Context, product *entity.ComparisonProduct) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ComparisonProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonProduct, error) {
	var models []*model.ComparisonProduct
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]*entity.ComparisonProduct, len(models))
	for i, m := range models {
		products[i] = r.mapper.ProductToEntity(m)
	}
	return products, nil
}

func (r *ComparisonProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ComparisonProduct{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ComparisonProductRepositoryImpl) FindOneAny(ctx context.Context, comparisonId uuid.UUID, productId string) (*entity.ComparisonProduct, error) {
	var m model.ComparisonProduct
	err := r.db.WithContext(ctx).Unscoped().
		Where("comparison_id = ? AND product_id = ?", comparisonId, productId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProductToEntity(&m), nil
}

func (r *ComparisonProductRepositoryImpl) Restore(ctx context.Context, comparisonId uuid.UUID, productId string) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&model.ComparisonProduct{}).
		Where("comparison_id = ? AND product_id = ?", comparisonId, productId).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"added_at":   time.Now(),
		}).Error
}

func (r *ComparisonProductRepositoryImpl) Delete(ctx context.Context, comparisonId uuid.UUID, productId string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("comparison_id = ? AND product_id = ?", comparisonId, productId).
		Delete(&model.ComparisonProduct{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ComparisonProductRepositoryImpl) DeleteAllBySession(ctx context.Context, comparisonId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("comparison_id = ?", comparisonId).
		Delete(&model.ComparisonProduct{}).Error
}
