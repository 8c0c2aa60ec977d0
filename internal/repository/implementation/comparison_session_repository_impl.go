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

type ComparisonSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComparisonMapper
}

func NewComparisonSessionRepository(db *gorm.DB) contract.ComparisonSessionRepository {
	return &ComparisonSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewComparisonMapper(),
	}
}

func (r *ComparisonSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ComparisonSessionRepositoryImpl) Create(ctx context.Context, session *entity.ComparisonSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *ComparisonSessionRepositoryImpl) Update(ctx context.Context, session *entity.ComparisonSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *ComparisonSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ComparisonSession, error) {
	var m model.ComparisonSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *ComparisonSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonSession, error) {
	var models []*model.ComparisonSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.ComparisonSession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.SessionToEntity(m)
	}
	return sessions, nil
}

func (r *ComparisonSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ComparisonSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ComparisonSessionRepositoryImpl) ListByActivity(ctx context.Context, userId uuid.UUID, limit, offset, minMessages int) ([]*entity.ComparisonSession, int64, error) {
	// Live message counts per session. The LEFT JOIN keeps sessions with no
	// messages in the result with a count of zero.
	counts := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Select("comparison_id AS cid, COUNT(id) AS msg_count").
		Group("comparison_id")

	base := r.db.WithContext(ctx).
		Model(&model.ComparisonSession{}).
		Joins("LEFT JOIN (?) AS counts ON counts.cid = comparison_sessions.id", counts).
		Where("comparison_sessions.user_id = ?", userId)

	if minMessages > 0 {
		base = base.Where("COALESCE(counts.msg_count, 0) >= ?", minMessages)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.ComparisonSession
	err := base.Session(&gorm.Session{}).
		Order("comparison_sessions.updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	sessions := make([]*entity.ComparisonSession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.SessionToEntity(m)
	}
	return sessions, total, nil
}

func (r *ComparisonSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ComparisonSession{}, id).Error
}

func (r *ComparisonSessionRepositoryImpl) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ComparisonSession{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}
