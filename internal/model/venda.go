package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pagamento.
const (
	MetodoDinheiro = "Dinheiro"
	MetodoPIX      = "PIX"
	MetodoCartao   = "Cartao"
)

// Tipos de cartão — required iff MetodoPagamento == Cartao.
const (
	CartaoDebito  = "Debito"
	CartaoCredito = "Credito"
)

// Venda is immutable after creation except for its caixa linkage: when a
// caixa row is removed the reference is cleared, never the sale.
type Venda struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CaixaID    *uuid.UUID `gorm:"type:uuid;index"`
	// Total is derived at creation from the line items; never edited afterwards.
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MetodoPagamento string          `gorm:"type:varchar(20);not null"`
	TipoCartao      *string         `gorm:"type:varchar(10)"`
	BandeiraCartao  *string         `gorm:"type:varchar(20)"`
	// NSU and CodigoAutorizacao are opaque gateway strings — never validated.
	NSU               *string `gorm:"type:varchar(100);column:nsu"`
	CodigoAutorizacao *string `gorm:"type:varchar(100)"`
	// FotoNotinha references the receipt photo in the attachment store.
	FotoNotinha *string
	Observacoes *string
	CreatedAt   time.Time

	Itens    []ItemVenda `gorm:"foreignKey:VendaID;constraint:OnDelete:CASCADE"`
	Vendedor *Usuario    `gorm:"foreignKey:VendedorID"`
	Caixa    *Caixa      `gorm:"foreignKey:CaixaID;constraint:OnDelete:SET NULL"`
}

// ItemVenda is a price snapshot: NomeProduto and PrecoUnitario are captured at
// sale time and stay fixed regardless of later catalog changes. A referenced
// Produto cannot be deleted while items point at it.
type ItemVenda struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	NomeProduto    string          `gorm:"not null"`
	Quantidade     int             `gorm:"not null"`
	PrecoUnitario  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID;constraint:OnDelete:RESTRICT"`
}
