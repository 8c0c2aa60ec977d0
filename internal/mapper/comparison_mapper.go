package mapper

import (
	"encoding/json"
	"time"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComparisonMapper struct{}

func NewComparisonMapper() *ComparisonMapper {
	return &ComparisonMapper{}
}

func (m *ComparisonMapper) SessionToEntity(s *model.ComparisonSession) *entity.ComparisonSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ComparisonSession{
		Id:                  s.Id,
		UserId:              s.UserId,
		SessionName:         s.SessionName,
		OriginalSearchQuery: s.OriginalSearchQuery,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
		IsDeleted:           s.DeletedAt.Valid,
	}
}

func (m *ComparisonMapper) SessionToModel(s *entity.ComparisonSession) *model.ComparisonSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ComparisonSession{
		Id:                  s.Id,
		UserId:              s.UserId,
		SessionName:         s.SessionName,
		OriginalSearchQuery: s.OriginalSearchQuery,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
	}
}

func (m *ComparisonMapper) ProductToEntity(p *model.ComparisonProduct) *entity.ComparisonProduct {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.ComparisonProduct{
		ComparisonId: p.ComparisonId,
		ProductId:    p.ProductId,
		AddedAt:      p.AddedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    p.DeletedAt.Valid,
	}
}

func (m *ComparisonMapper) ProductToModel(p *entity.ComparisonProduct) *model.ComparisonProduct {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	}

	return &model.ComparisonProduct{
		ComparisonId: p.ComparisonId,
		ProductId:    p.ProductId,
		AddedAt:      p.AddedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *ComparisonMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var meta map[string]interface{}
	if len(msg.AiMetadata) > 0 {
		_ = json.Unmarshal(msg.AiMetadata, &meta)
	}

	return &entity.ChatMessage{
		Id:             msg.Id,
		ComparisonId:   msg.ComparisonId,
		UserId:         msg.UserId,
		MessageType:    msg.MessageType,
		MessageContent: msg.MessageContent,
		AiMetadata:     meta,
		CreatedAt:      msg.CreatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      msg.DeletedAt.Valid,
	}
}

func (m *ComparisonMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var meta datatypes.JSON
	if msg.AiMetadata != nil {
		raw, err := json.Marshal(msg.AiMetadata)
		if err == nil {
			meta = datatypes.JSON(raw)
		}
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	}

	return &model.ChatMessage{
		Id:             msg.Id,
		ComparisonId:   msg.ComparisonId,
		UserId:         msg.UserId,
		MessageType:    msg.MessageType,
		MessageContent: msg.MessageContent,
		AiMetadata:     meta,
		CreatedAt:      msg.CreatedAt,
		DeletedAt:      deletedAt,
	}
}
