package implementation

import (
	"context"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/mapper"
	"shopquery-be/internal/model"
	"shopquery-be/internal/repository/contract"
	"shopquery-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UserEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewUserEventRepository(db *gorm.DB) contract.UserEventRepository {
	return &UserEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *UserEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserEventRepositoryImpl) Create(ctx context.Context, event *entity.UserEvent) error {
	m := r.mapper.UserEventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.UserEventToEntity(m)
	return nil
}

func (r *UserEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserEvent, error) {
	var models []*model.UserEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	events := make([]*entity.UserEvent, len(models))
	for i, m := range models {
		events[i] = r.mapper.UserEventToEntity(m)
	}
	return events, nil
}

func (r *UserEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UserEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
