package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product holds the minimal catalog row referenced by favorites and
// comparison attachments. Rows are created lazily from provider snapshots.
type Product struct {
	ProductId          string         `gorm:"type:varchar(255);primaryKey"`
	PlatformName       string         `gorm:"type:varchar(50);not null"`
	ProductName        string         `gorm:"type:varchar(500);not null"`
	ProductDescription *string        `gorm:"type:text"`
	ProductURL         *string        `gorm:"type:text"`
	ImageURL           *string        `gorm:"type:text"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// ProductPrice is an append-only snapshot log; the newest row per product is
// the best-known price.
type ProductPrice struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductId      string    `gorm:"type:varchar(255);not null;index"`
	CurrentPrice   *float64  `gorm:"type:numeric(10,2)"`
	OriginalPrice  *float64  `gorm:"type:numeric(10,2)"`
	CurrencyCode   string    `gorm:"type:varchar(3);default:'USD'"`
	CurrencySymbol string    `gorm:"type:varchar(5);default:'$'"`
	IsInStock      bool      `gorm:"default:true"`
	RecordedAt     time.Time `gorm:"autoCreateTime"`
}

func (ProductPrice) TableName() string {
	return "product_prices"
}

type ProductRating struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductId        string    `gorm:"type:varchar(255);not null;index"`
	AverageRating    *float64  `gorm:"type:numeric(3,2)"`
	TotalReviewCount *int
	RecordedAt       time.Time `gorm:"autoCreateTime"`
}

func (ProductRating) TableName() string {
	return "product_ratings"
}
