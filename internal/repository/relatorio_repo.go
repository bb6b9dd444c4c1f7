package repository

import (
	"context"
	"time"

	"github.com/DonboyBR/sigam-backend/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RelatorioRepository holds the read-only aggregations behind the dashboards.
// All queries use [from, to) timestamp ranges so they hit the created_at index.
type RelatorioRepository interface {
	TotalVendidoPeriodo(ctx context.Context, ini, fim time.Time, vendedorID *uuid.UUID) (decimal.Decimal, error)
	ItensVendidosPeriodo(ctx context.Context, ini, fim time.Time, vendedorID *uuid.UUID) (int, error)
	RankingProdutos(ctx context.Context, ini, fim time.Time, limite int) ([]dto.RankingProduto, error)
	RankingVendedores(ctx context.Context, ini, fim time.Time, limite int) ([]dto.RankingVendedor, error)
	// TotalVendidoPorCaixa scopes an operator's figures to one caixa — the
	// employee dashboard's "current session" view.
	TotalVendidoPorCaixa(ctx context.Context, caixaID, vendedorID uuid.UUID) (decimal.Decimal, int, error)
}

type relatorioRepo struct{ db *gorm.DB }

func NewRelatorioRepository(db *gorm.DB) RelatorioRepository { return &relatorioRepo{db: db} }

func (r *relatorioRepo) TotalVendidoPeriodo(ctx context.Context, ini, fim time.Time, vendedorID *uuid.UUID) (decimal.Decimal, error) {
	q := "SELECT COALESCE(SUM(total), 0) FROM vendas WHERE created_at >= ? AND created_at < ?"
	args := []interface{}{ini, fim}
	if vendedorID != nil {
		q += " AND vendedor_id = ?"
		args = append(args, *vendedorID)
	}
	var soma decimal.Decimal
	err := r.db.WithContext(ctx).Raw(q, args...).Scan(&soma).Error
	return soma, err
}

func (r *relatorioRepo) ItensVendidosPeriodo(ctx context.Context, ini, fim time.Time, vendedorID *uuid.UUID) (int, error) {
	q := `SELECT COALESCE(SUM(i.quantidade), 0)
	      FROM item_vendas i JOIN vendas v ON v.id = i.venda_id
	      WHERE v.created_at >= ? AND v.created_at < ?`
	args := []interface{}{ini, fim}
	if vendedorID != nil {
		q += " AND v.vendedor_id = ?"
		args = append(args, *vendedorID)
	}
	var total int
	err := r.db.WithContext(ctx).Raw(q, args...).Scan(&total).Error
	return total, err
}

func (r *relatorioRepo) RankingProdutos(ctx context.Context, ini, fim time.Time, limite int) ([]dto.RankingProduto, error) {
	var ranking []dto.RankingProduto
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.nome_produto AS produto, SUM(i.quantidade) AS total_vendido
		FROM item_vendas i JOIN vendas v ON v.id = i.venda_id
		WHERE v.created_at >= ? AND v.created_at < ?
		GROUP BY i.nome_produto
		ORDER BY total_vendido DESC
		LIMIT ?`, ini, fim, limite).Scan(&ranking).Error
	return ranking, err
}

func (r *relatorioRepo) RankingVendedores(ctx context.Context, ini, fim time.Time, limite int) ([]dto.RankingVendedor, error) {
	var ranking []dto.RankingVendedor
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.username AS vendedor, COALESCE(SUM(v.total), 0) AS valor_vendido
		FROM vendas v JOIN usuarios u ON u.id = v.vendedor_id
		WHERE v.created_at >= ? AND v.created_at < ?
		GROUP BY u.username
		ORDER BY valor_vendido DESC
		LIMIT ?`, ini, fim, limite).Scan(&ranking).Error
	return ranking, err
}

func (r *relatorioRepo) TotalVendidoPorCaixa(ctx context.Context, caixaID, vendedorID uuid.UUID) (decimal.Decimal, int, error) {
	var soma decimal.Decimal
	err := r.db.WithContext(ctx).Raw(
		"SELECT COALESCE(SUM(total), 0) FROM vendas WHERE caixa_id = ? AND vendedor_id = ?",
		caixaID, vendedorID).Scan(&soma).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	var itens int
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(i.quantidade), 0)
		FROM item_vendas i JOIN vendas v ON v.id = i.venda_id
		WHERE v.caixa_id = ? AND v.vendedor_id = ?`, caixaID, vendedorID).Scan(&itens).Error
	return soma, itens, err
}
