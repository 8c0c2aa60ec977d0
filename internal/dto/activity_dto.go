package dto

import (
	"time"

	"shopquery-be/pkg/productdata"

	"github.com/google/uuid"
)

type LogSearchRequest struct {
	Query        string `json:"query" validate:"required,max=500"`
	Platform     string `json:"platform" validate:"required,max=50"`
	ResultsCount int    `json:"results_count" validate:"gte=0"`
}

type ProductSearchResponse struct {
	Query        string                 `json:"query"`
	Page         int                    `json:"page"`
	TotalResults int                    `json:"total_results"`
	Products     []productdata.Snapshot `json:"products"`
}

type SearchHistoryDTO struct {
	Id           uuid.UUID `json:"id"`
	SearchQuery  string    `json:"search_query"`
	QueryKey     string    `json:"query_key"`
	Platform     string    `json:"platform"`
	ResultsCount int       `json:"results_count"`
	CustomLabel  *string   `json:"custom_label"`
	CreatedAt    time.Time `json:"created_at"`
}

type SearchHistoryListResponse struct {
	Items []*SearchHistoryDTO `json:"items"`
	Total int64               `json:"total"`
}

type UpdateSearchLabelRequest struct {
	CustomLabel *string `json:"custom_label" validate:"omitempty,max=200"`
}

type LogEventRequest struct {
	EventType string                 `json:"event_type" validate:"required,max=50"`
	EventData map[string]interface{} `json:"event_data"`
}

type UserEventDTO struct {
	Id        uuid.UUID              `json:"id"`
	EventType string                 `json:"event_type"`
	EventData map[string]interface{} `json:"event_data"`
	CreatedAt time.Time              `json:"created_at"`
}

type UserEventListResponse struct {
	Items []*UserEventDTO `json:"items"`
	Total int64           `json:"total"`
}
