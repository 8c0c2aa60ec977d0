package specification

import (
	"gorm.io/gorm"
)

// ByQueryKey matches rows whose stored normalized key equals Key, falling
// back to a case-insensitive match on the raw query text so rows written
// before key normalization existed still group correctly.
type ByQueryKey struct {
	Key string
}

func (s ByQueryKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("query_key = ? OR LOWER(search_query) = ?", s.Key, s.Key)
}

// HasLabel keeps rows that carry a custom label.
type HasLabel struct{}

func (s HasLabel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("custom_label IS NOT NULL")
}

// ByEventType filters user events by type.
type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}

// ByProductID filters by the external product id column.
type ByProductID struct {
	ProductID string
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id = ?", s.ProductID)
}
