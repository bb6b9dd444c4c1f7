package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status de caixa.
const (
	CaixaAberto  = "ABERTO"
	CaixaFechado = "FECHADO"
)

// Caixa represents the lifecycle of a cash register session.
//
// Three tiers of totals coexist on a closed caixa:
//   - *Apurado: the physically counted values submitted at close, stored
//     exactly as given (trusted as the count, never recomputed server-side).
//   - ValorFechamentoSistema: grand total of linked sales, computed once at
//     close time.
//   - *Ajustado: optional admin overrides of the per-method system totals,
//     written only through the explicit edit operation.
//
// Invariant: at most one ABERTO caixa per responsável (partial unique index,
// see infra.applySchemaPatches).
type Caixa struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResponsavelID uuid.UUID `gorm:"type:uuid;not null;index"`
	DataAbertura  time.Time `gorm:"not null"`
	DataFechamento *time.Time
	ValorAbertura  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status         string          `gorm:"type:varchar(10);not null;default:'ABERTO'"`

	DinheiroApurado decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreditoApurado  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DebitoApurado   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PixApurado      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// ValorFechamentoApurado is the counted grand total as submitted — it may
	// legitimately differ from the sum of the four method fields above.
	ValorFechamentoApurado *decimal.Decimal `gorm:"type:decimal(10,2)"`

	ValorFechamentoSistema *decimal.Decimal `gorm:"type:decimal(10,2)"`

	DinheiroAjustado *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreditoAjustado  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	DebitoAjustado   *decimal.Decimal `gorm:"type:decimal(10,2)"`
	PixAjustado      *decimal.Decimal `gorm:"type:decimal(10,2)"`

	// ComprovanteFechamento references the closing-slip image in the
	// attachment store.
	ComprovanteFechamento *string

	Responsavel *Usuario `gorm:"foreignKey:ResponsavelID"`
}
