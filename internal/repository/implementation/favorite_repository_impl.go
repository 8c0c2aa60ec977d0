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

type FavoriteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewFavoriteRepository(db *gorm.DB) contract.FavoriteRepository {
	return &FavoriteRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *FavoriteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FavoriteRepositoryImpl) Create(ctx context.Context, favorite *entity.UserFavorite) error {
	m := r.mapper.FavoriteToModel(favorite)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*favorite = *r.mapper.FavoriteToEntity(m)
	return nil
}

func (r *FavoriteRepositoryImpl) Update(ctx context.Context, favorite *entity.UserFavorite) error {
	m := r.mapper.FavoriteToModel(favorite)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*favorite = *r.mapper.FavoriteToEntity(m)
	return nil
}

func (r *FavoriteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFavorite, error) {
	var m model.UserFavorite
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FavoriteToEntity(&m), nil
}

func (r *FavoriteRepositoryImpl) FindOneAny(ctx context.Context, userId uuid.UUID, productId string) (*entity.UserFavorite, error) {
	var m model.UserFavorite
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND product_id = ?", userId, productId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FavoriteToEntity(&m), nil
}

func (r *FavoriteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFavorite, error) {
	var models []*model.UserFavorite
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	favorites := make([]*entity.UserFavorite, len(models))
	for i, m := range models {
		favorites[i] = r.mapper.FavoriteToEntity(m)
	}
	return favorites, nil
}

func (r *FavoriteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UserFavorite{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FavoriteRepositoryImpl) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&model.UserFavorite{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *FavoriteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UserFavorite{}, id).Error
}
