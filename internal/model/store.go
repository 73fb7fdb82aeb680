package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is a sales location. Single-store deployments still get one row —
// the importer and organic order path both require a store FK.
type Store struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	WhatsApp  string    // checkout deep-link number, rendered by the storefront
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultStoreSlug anchors importer-created orders when no store is given.
const DefaultStoreSlug = "principal"
