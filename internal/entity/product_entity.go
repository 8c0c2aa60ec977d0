package entity

import (
	"time"
)

type Product struct {
	ProductId          string
	PlatformName       string
	ProductName        string
	ProductDescription *string
	ProductURL         *string
	ImageURL           *string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}

type ProductPrice struct {
	ProductId      string
	CurrentPrice   *float64
	OriginalPrice  *float64
	CurrencyCode   string
	CurrencySymbol string
	IsInStock      bool
	RecordedAt     time.Time
}

type ProductRating struct {
	ProductId        string
	AverageRating    *float64
	TotalReviewCount *int
	RecordedAt       time.Time
}
