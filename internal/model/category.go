package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups medicines for catalog browsing. A medicine's category is
// optional; deleting a category leaves its medicines uncategorized.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's pluralization ("categories", not "categorys").
func (Category) TableName() string { return "categories" }
