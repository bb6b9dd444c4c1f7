package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,min=1"`
}

type RegistrarVendaRequest struct {
	Itens           []ItemVendaRequest `json:"itens"            validate:"required,min=1,dive"`
	MetodoPagamento string             `json:"metodo_pagamento" validate:"required,oneof=Dinheiro PIX Cartao"`
	// TipoCartao is required iff metodo_pagamento == Cartao.
	TipoCartao     *string `json:"tipo_cartao"     validate:"required_if=MetodoPagamento Cartao,omitempty,oneof=Debito Credito"`
	BandeiraCartao *string `json:"bandeira_cartao" validate:"omitempty,oneof=ELO VISA MASTERCARD AMEX OUTRO"`
	// NSU / CodigoAutorizacao are opaque gateway strings — recorded, not validated.
	NSU               *string `json:"nsu"`
	CodigoAutorizacao *string `json:"codigo_autorizacao"`
	FotoNotinhaBase64 *string `json:"foto_notinha_base64"`
	Observacoes       *string `json:"observacoes"`
}

// VendaFilter is bound from the query string of GET /v1/vendas.
type VendaFilter struct {
	Data  string `form:"data"`                   // YYYY-MM-DD; empty = today
	Page  int    `form:"page,default=1"  validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	Produto       string          `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID                string              `json:"id"`
	VendedorID        string              `json:"vendedor_id"`
	CaixaID           *string             `json:"caixa_id"`
	Total             decimal.Decimal     `json:"total"`
	MetodoPagamento   string              `json:"metodo_pagamento"`
	TipoCartao        *string             `json:"tipo_cartao"`
	BandeiraCartao    *string             `json:"bandeira_cartao"`
	NSU               *string             `json:"nsu"`
	CodigoAutorizacao *string             `json:"codigo_autorizacao"`
	FotoNotinhaURL    *string             `json:"foto_notinha_url"`
	Observacoes       *string             `json:"observacoes"`
	Itens             []ItemVendaResponse `json:"itens"`
	CreatedAt         string              `json:"created_at"`
}

type VendaListItem struct {
	ID              string              `json:"id"`
	VendedorID      string              `json:"vendedor_id"`
	Vendedor        string              `json:"vendedor"`
	Total           decimal.Decimal     `json:"total"`
	MetodoPagamento string              `json:"metodo_pagamento"`
	TipoCartao      *string             `json:"tipo_cartao"`
	Itens           []ItemVendaResponse `json:"itens"`
	CreatedAt       string              `json:"created_at"`
}

type VendaListResponse struct {
	Data  []VendaListItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
