package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateComparisonRequest struct {
	ProductIds          []string `json:"product_ids" validate:"required,min=1,dive,required"`
	OriginalSearchQuery *string  `json:"original_search_query"`
	SessionName         *string  `json:"session_name" validate:"omitempty,max=255"`
}

type ComparisonSessionDTO struct {
	Id                  uuid.UUID  `json:"id"`
	SessionName         *string    `json:"session_name"`
	OriginalSearchQuery *string    `json:"original_search_query"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}

type ComparisonSessionListResponse struct {
	Items []*ComparisonSessionDTO `json:"items"`
	Total int64                   `json:"total"`
}

type ComparisonProductDTO struct {
	ProductId string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

type AttachProductRequest struct {
	ProductId string `json:"product_id" validate:"required,max=255"`
}

type AppendMessageRequest struct {
	MessageType    string                 `json:"message_type" validate:"required,oneof=user ai"`
	MessageContent string                 `json:"message_content" validate:"required"`
	AiMetadata     map[string]interface{} `json:"ai_metadata"`
}

type ChatMessageDTO struct {
	Id             uuid.UUID              `json:"id"`
	MessageType    string                 `json:"message_type"`
	MessageContent string                 `json:"message_content"`
	AiMetadata     map[string]interface{} `json:"ai_metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type ChatMessageListResponse struct {
	Items []*ChatMessageDTO `json:"items"`
	Total int64             `json:"total"`
}

type ChatTurnRequest struct {
	Question string `json:"question" validate:"required"`
}

type ChatTurnResponse struct {
	Answer           string `json:"answer"`
	ProductsAnalyzed int    `json:"products_analyzed"`
}
