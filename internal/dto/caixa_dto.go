package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	ValorAbertura decimal.Decimal `json:"valor_abertura" validate:"min=0"`
}

// TotaisApurados carries the physically counted close-out values. The server
// stores them exactly as submitted — the count is trusted, not recomputed.
type TotaisApurados struct {
	Dinheiro decimal.Decimal `json:"dinheiro" validate:"min=0"`
	Credito  decimal.Decimal `json:"credito"  validate:"min=0"`
	Debito   decimal.Decimal `json:"debito"   validate:"min=0"`
	Pix      decimal.Decimal `json:"pix"      validate:"min=0"`
	Total    decimal.Decimal `json:"total"    validate:"min=0"`
}

type FecharCaixaRequest struct {
	Totais TotaisApurados `json:"totais" validate:"required"`
	// ComprovanteBase64: optional closing-slip photo, stored in the attachment
	// store and referenced from the caixa.
	ComprovanteBase64 *string `json:"comprovante_base64"`
}

// EditarCaixaRequest is the admin override path. Only the supplied fields are
// written; nil means "leave unchanged". No validation against computed totals.
type EditarCaixaRequest struct {
	DinheiroAjustado *decimal.Decimal `json:"dinheiro_ajustado"`
	CreditoAjustado  *decimal.Decimal `json:"credito_ajustado"`
	DebitoAjustado   *decimal.Decimal `json:"debito_ajustado"`
	PixAjustado      *decimal.Decimal `json:"pix_ajustado"`

	DinheiroApurado        *decimal.Decimal `json:"dinheiro_apurado"`
	CreditoApurado         *decimal.Decimal `json:"credito_apurado"`
	DebitoApurado          *decimal.Decimal `json:"debito_apurado"`
	PixApurado             *decimal.Decimal `json:"pix_apurado"`
	ValorFechamentoApurado *decimal.Decimal `json:"valor_fechamento_apurado"`
}

// HistoricoFilter is bound from the query string of GET /v1/caixas/historico.
type HistoricoFilter struct {
	VendedorID string `form:"vendedor_id"` // uuid; admin only — forced to self otherwise
	Data       string `form:"data"`        // YYYY-MM-DD, matches the close date
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TotaisPorMetodo is a per-payment-method breakdown plus grand total.
type TotaisPorMetodo struct {
	Dinheiro decimal.Decimal `json:"dinheiro"`
	Credito  decimal.Decimal `json:"credito"`
	Debito   decimal.Decimal `json:"debito"`
	Pix      decimal.Decimal `json:"pix"`
	Total    decimal.Decimal `json:"total"`
}

type CaixaResponse struct {
	ID             string          `json:"id"`
	ResponsavelID  string          `json:"responsavel_id"`
	Responsavel    string          `json:"responsavel"`
	DataAbertura   string          `json:"data_abertura"`
	DataFechamento *string         `json:"data_fechamento"`
	ValorAbertura  decimal.Decimal `json:"valor_abertura"`
	Status         string          `json:"status"`

	DinheiroApurado        decimal.Decimal  `json:"dinheiro_apurado"`
	CreditoApurado         decimal.Decimal  `json:"credito_apurado"`
	DebitoApurado          decimal.Decimal  `json:"debito_apurado"`
	PixApurado             decimal.Decimal  `json:"pix_apurado"`
	ValorFechamentoApurado *decimal.Decimal `json:"valor_fechamento_apurado"`
	ValorFechamentoSistema *decimal.Decimal `json:"valor_fechamento_sistema"`

	DinheiroAjustado *decimal.Decimal `json:"dinheiro_ajustado"`
	CreditoAjustado  *decimal.Decimal `json:"credito_ajustado"`
	DebitoAjustado   *decimal.Decimal `json:"debito_ajustado"`
	PixAjustado      *decimal.Decimal `json:"pix_ajustado"`

	ComprovanteURL *string `json:"comprovante_url"`
}

// DetalheCaixaResponse is the full reconciliation view of a caixa.
// Sistema resolves each method to the admin-adjusted value when present, else
// the computed sum of linked sales; its Total is the sum of the four resolved
// components, which may differ from Caixa.ValorFechamentoSistema — both are
// exposed on purpose.
type DetalheCaixaResponse struct {
	Caixa   CaixaResponse    `json:"caixa"`
	Apurado TotaisPorMetodo  `json:"apurado"`
	Sistema TotaisPorMetodo  `json:"sistema"`
	Vendas  []VendaListItem  `json:"vendas"`
}
