package dto

import "github.com/shopspring/decimal"

// ─── Dashboard admin ─────────────────────────────────────────────────────────

type RankingProduto struct {
	Produto      string `json:"produto"`
	TotalVendido int    `json:"total_vendido"` // units
}

type RankingVendedor struct {
	Vendedor     string          `json:"vendedor"`
	ValorVendido decimal.Decimal `json:"valor_vendido"`
}

type VendedorResumo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nome     string `json:"nome"`
}

type DashboardAdminResponse struct {
	Data                 string            `json:"data"` // YYYY-MM-DD
	TotalVendido         decimal.Decimal   `json:"total_vendido"`
	TotalItensVendidos   int               `json:"total_itens_vendidos"`
	RankingProdutos      []RankingProduto  `json:"ranking_produtos"`       // top-5, month to date
	RankingVendedores    []RankingVendedor `json:"ranking_vendedores"`     // top-3, month to date
	VendedoresDisponiveis []VendedorResumo `json:"vendedores_disponiveis"`
}

// ─── Dashboard funcionário ───────────────────────────────────────────────────

type DashboardFuncionarioResponse struct {
	// Periodo: "caixa_atual" when scoped to the open caixa, else the date.
	Periodo       string          `json:"periodo"`
	TotalVendido  decimal.Decimal `json:"total_vendido"`
	ItensVendidos int             `json:"itens_vendidos"`
}

// ─── Estoque baixo ───────────────────────────────────────────────────────────

type EstoqueBaixoItem struct {
	ID      string `json:"id"`
	Nome    string `json:"nome"`
	Estoque int    `json:"estoque"`
}
