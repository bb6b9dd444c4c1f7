package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a catalog item. Estoque is mutated only by sale commits and
// explicit catalog edits; it can never go below zero.
type Produto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"index;not null"`
	Categoria string    `gorm:"not null"`
	Preco     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estoque   int             `gorm:"not null;default:0"`
	// Foto holds a reference into the attachment store, not the image itself.
	Foto      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
