package mapper

import (
	"encoding/json"
	"time"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) SearchHistoryToEntity(s *model.SearchHistory) *entity.SearchHistory {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.SearchHistory{
		Id:           s.Id,
		UserId:       s.UserId,
		SearchQuery:  s.SearchQuery,
		QueryKey:     s.QueryKey,
		Platform:     s.Platform,
		ResultsCount: s.ResultsCount,
		CustomLabel:  s.CustomLabel,
		CreatedAt:    s.CreatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    s.DeletedAt.Valid,
	}
}

func (m *ActivityMapper) SearchHistoryToModel(s *entity.SearchHistory) *model.SearchHistory {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.SearchHistory{
		Id:           s.Id,
		UserId:       s.UserId,
		SearchQuery:  s.SearchQuery,
		QueryKey:     s.QueryKey,
		Platform:     s.Platform,
		ResultsCount: s.ResultsCount,
		CustomLabel:  s.CustomLabel,
		CreatedAt:    s.CreatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *ActivityMapper) UserEventToEntity(e *model.UserEvent) *entity.UserEvent {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var data map[string]interface{}
	if len(e.EventData) > 0 {
		_ = json.Unmarshal(e.EventData, &data)
	}

	return &entity.UserEvent{
		Id:        e.Id,
		UserId:    e.UserId,
		EventType: e.EventType,
		EventData: data,
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *ActivityMapper) UserEventToModel(e *entity.UserEvent) *model.UserEvent {
	if e == nil {
		return nil
	}

	var data datatypes.JSON
	if e.EventData != nil {
		raw, err := json.Marshal(e.EventData)
		if err == nil {
			data = datatypes.JSON(raw)
		}
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	return &model.UserEvent{
		Id:        e.Id,
		UserId:    e.UserId,
		EventType: e.EventType,
		EventData: data,
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ActivityMapper) FavoriteToEntity(f *model.UserFavorite) *entity.UserFavorite {
	if f == nil {
		return nil
	}

	var deletedAt *time.Time
	if f.DeletedAt.Valid {
		t := f.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.UserFavorite{
		Id:        f.Id,
		UserId:    f.UserId,
		ProductId: f.ProductId,
		UserNotes: f.UserNotes,
		CreatedAt: f.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: f.DeletedAt.Valid,
	}
}

func (m *ActivityMapper) FavoriteToModel(f *entity.UserFavorite) *model.UserFavorite {
	if f == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if f.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *f.DeletedAt, Valid: true}
	}

	return &model.UserFavorite{
		Id:        f.Id,
		UserId:    f.UserId,
		ProductId: f.ProductId,
		UserNotes: f.UserNotes,
		CreatedAt: f.CreatedAt,
		DeletedAt: deletedAt,
	}
}
