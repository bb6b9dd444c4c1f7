package repository

import (
	"context"

	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Per-method keys used by SumPorMetodo. Cartao sales split by tipo_cartao —
// the old blanket-credit mapping is gone.
const (
	MetodoDinheiro = "dinheiro"
	MetodoPix      = "pix"
	MetodoCredito  = "credito"
	MetodoDebito   = "debito"
)

type VendaRepository interface {
	// CreateTx persists the sale and its items inside the caller's transaction.
	CreateTx(tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	ListPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.Venda, error)
	// SumTotalPorCaixaTx sums every sale linked to the caixa — any operator,
	// any payment method. Runs inside the close transaction.
	SumTotalPorCaixaTx(ctx context.Context, tx *gorm.DB, caixaID uuid.UUID) (decimal.Decimal, error)
	// SumPorMetodo aggregates linked sale totals per payment-method key.
	// A non-nil vendedorID restricts the sum to that operator's own sales.
	SumPorMetodo(ctx context.Context, caixaID uuid.UUID, vendedorID *uuid.UUID) (map[string]decimal.Decimal, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Itens").Preload("Vendedor").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venda{})
	if filter.Data != "" {
		q = q.Where("DATE(created_at) = ?", filter.Data)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Itens").Preload("Vendedor").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vendas).Error
	return vendas, total, err
}

func (r *vendaRepo) ListPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.Venda, error) {
	var vendas []model.Venda
	err := r.db.WithContext(ctx).
		Where("caixa_id = ?", caixaID).
		Preload("Itens").Preload("Vendedor").
		Order("created_at DESC").
		Find(&vendas).Error
	return vendas, err
}

func (r *vendaRepo) SumTotalPorCaixaTx(ctx context.Context, tx *gorm.DB, caixaID uuid.UUID) (decimal.Decimal, error) {
	var soma decimal.Decimal
	err := tx.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(total), 0) FROM vendas WHERE caixa_id = ?", caixaID).
		Scan(&soma).Error
	return soma, err
}

func (r *vendaRepo) SumPorMetodo(ctx context.Context, caixaID uuid.UUID, vendedorID *uuid.UUID) (map[string]decimal.Decimal, error) {
	type linha struct {
		Metodo string
		Soma   decimal.Decimal
	}

	q := `SELECT CASE
	        WHEN metodo_pagamento = 'Dinheiro' THEN 'dinheiro'
	        WHEN metodo_pagamento = 'PIX' THEN 'pix'
	        WHEN metodo_pagamento = 'Cartao' AND tipo_cartao = 'Debito' THEN 'debito'
	        ELSE 'credito'
	      END AS metodo, COALESCE(SUM(total), 0) AS soma
	      FROM vendas WHERE caixa_id = ?`
	args := []interface{}{caixaID}
	if vendedorID != nil {
		q += " AND vendedor_id = ?"
		args = append(args, *vendedorID)
	}
	q += " GROUP BY 1"

	var linhas []linha
	if err := r.db.WithContext(ctx).Raw(q, args...).Scan(&linhas).Error; err != nil {
		return nil, err
	}

	sums := map[string]decimal.Decimal{
		MetodoDinheiro: decimal.Zero,
		MetodoPix:      decimal.Zero,
		MetodoCredito:  decimal.Zero,
		MetodoDebito:   decimal.Zero,
	}
	for _, l := range linhas {
		sums[l.Metodo] = l.Soma
	}
	return sums, nil
}
