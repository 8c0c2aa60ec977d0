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

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.UserSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var models []*model.UserSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.Session, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.SessionToEntity(m)
	}
	return sessions, nil
}

// RotateToken is a single conditional UPDATE: the WHERE clause re-checks the
// old digest so that of two refreshes racing on the same stale value, exactly
// one matches a row. GORM's soft-delete scope adds the live-only filter.
func (r *SessionRepositoryImpl) RotateToken(ctx context.Context, oldHash, newHash string, expiresAt time.Time, ipAddress, userAgent string) (bool, error) {
	updates := map[string]interface{}{
		"token_hash": newHash,
		"expires_at": expiresAt,
	}
	if ipAddress != "" {
		updates["ip_address"] = ipAddress
	}
	if userAgent != "" {
		updates["user_agent"] = userAgent
	}

	res := r.db.WithContext(ctx).
		Model(&model.UserSession{}).
		Where("token_hash = ? AND expires_at > ?", oldHash, time.Now()).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) ExtendAllForUser(ctx context.Context, userId uuid.UUID, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.UserSession{}).
		Where("user_id = ? AND expires_at > ?", userId, time.Now()).
		Update("expires_at", expiresAt).Error
}

// Revoke soft-deletes the matching session. Only live, unexpired sessions
// count; revoking an expired one reports false.
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, time.Now()).
		Delete(&model.UserSession{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
