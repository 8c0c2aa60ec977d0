package contract

import (
	"context"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllBySession(ctx context.Context, comparisonId uuid.UUID) error
}
