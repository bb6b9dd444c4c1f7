package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome       string          `json:"nome"      validate:"required,min=2"`
	Categoria  string          `json:"categoria" validate:"required"`
	Preco      decimal.Decimal `json:"preco"     validate:"min=0"`
	Estoque    int             `json:"estoque"   validate:"min=0"`
	FotoBase64 *string         `json:"foto_base64"`
}

type AtualizarProdutoRequest struct {
	Nome       string           `json:"nome"`
	Categoria  string           `json:"categoria"`
	Preco      *decimal.Decimal `json:"preco"   validate:"omitempty"`
	Estoque    *int             `json:"estoque" validate:"omitempty,min=0"`
	FotoBase64 *string          `json:"foto_base64"`
}

// ProdutoFilter is bound from the query string of GET /v1/produtos.
type ProdutoFilter struct {
	Nome      string `form:"nome"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID        string          `json:"id"`
	Nome      string          `json:"nome"`
	Categoria string          `json:"categoria"`
	Preco     decimal.Decimal `json:"preco"`
	Estoque   int             `json:"estoque"`
	FotoURL   *string         `json:"foto_url"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
