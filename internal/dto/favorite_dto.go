package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddFavoriteRequest struct {
	ProductId string  `json:"product_id" validate:"required,max=255"`
	UserNotes *string `json:"user_notes"`
}

type FavoriteDTO struct {
	Id        uuid.UUID `json:"id"`
	ProductId string    `json:"product_id"`
	UserNotes *string   `json:"user_notes"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteListResponse struct {
	Items []*FavoriteDTO `json:"items"`
	Total int64          `json:"total"`
}
