package implementation

import (
	"context"
	"errors"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/mapper"
	"shopquery-be/internal/model"
	"shopquery-be/internal/repository/contract"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// queryKeyExpr groups rows by the stored normalized key, falling back to the
// lowercased raw query for rows created before keys were stamped.
const queryKeyExpr = "COALESCE(NULLIF(query_key, ''), LOWER(search_query))"

type SearchHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewSearchHistoryRepository(db *gorm.DB) contract.SearchHistoryRepository {
	return &SearchHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *SearchHistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SearchHistoryRepositoryImpl) Create(ctx context.Context, record *entity.SearchHistory) error {
	m := r.mapper.SearchHistoryToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.SearchHistoryToEntity(m)
	return nil
}

func (r *SearchHistoryRepositoryImpl) Update(ctx context.Context, record *entity.SearchHistory) error {
	m := r.mapper.SearchHistoryToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.SearchHistoryToEntity(m)
	return nil
}

func (r *SearchHistoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SearchHistory, error) {
	var m model.SearchHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SearchHistoryToEntity(&m), nil
}

func (r *SearchHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SearchHistory, error) {
	var models []*model.SearchHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]*entity.SearchHistory, len(models))
	for i, m := range models {
		records[i] = r.mapper.SearchHistoryToEntity(m)
	}
	return records, nil
}

func (r *SearchHistoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SearchHistory{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SearchHistoryRepositoryImpl) ListLatestPerKey(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.SearchHistory, int64, error) {
	// Per-key maxima over live rows only; the soft-delete scope is applied to
	// both the subquery and the outer query by GORM.
	latest := r.db.WithContext(ctx).
		Model(&model.SearchHistory{}).
		Select(queryKeyExpr + " AS qk, MAX(created_at) AS max_created").
		Where("user_id = ?", userId).
		Group("qk")

	base := r.db.WithContext(ctx).
		Model(&model.SearchHistory{}).
		Joins("JOIN (?) AS latest ON "+queryKeyExpr+" = latest.qk AND created_at = latest.max_created", latest).
		Where("user_id = ?", userId)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.SearchHistory
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]*entity.SearchHistory, len(models))
	for i, m := range models {
		records[i] = r.mapper.SearchHistoryToEntity(m)
	}
	return records, total, nil
}

func (r *SearchHistoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SearchHistory{}, id).Error
}

func (r *SearchHistoryRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.SearchHistory{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
