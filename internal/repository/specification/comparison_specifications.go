package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByComparisonID scopes attachments and messages to one comparison session.
type ByComparisonID struct {
	ComparisonID uuid.UUID
}

func (s ByComparisonID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("comparison_id = ?", s.ComparisonID)
}
