package repository

import (
	"context"

	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProdutoRepository defines the data access contract for catalog items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory fakes.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Update(ctx context.Context, p *model.Produto) error
	Delete(ctx context.Context, id uuid.UUID) error
	// TemItensVenda reports whether any sale line item references the product;
	// deletion is blocked while one exists.
	TemItensVenda(ctx context.Context, id uuid.UUID) (bool, error)
	// DescontarEstoqueTx performs the atomic conditional decrement inside the
	// sale transaction. Returns false when current stock is below qtd — the
	// check and the decrement are one statement, so concurrent sales against
	// the same product cannot jointly oversell.
	DescontarEstoqueTx(tx *gorm.DB, id uuid.UUID, qtd int) (bool, error)
	EstoqueBaixo(ctx context.Context, limite int) ([]model.Produto, error)
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})
	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nome ASC").Limit(filter.Limit).Offset(offset).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Produto{}, "id = ?", id).Error
}

func (r *produtoRepo) TemItensVenda(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ItemVenda{}).Where("produto_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *produtoRepo) DescontarEstoqueTx(tx *gorm.DB, id uuid.UUID, qtd int) (bool, error) {
	res := tx.Model(&model.Produto{}).
		Where("id = ? AND estoque >= ?", id, qtd).
		Update("estoque", gorm.Expr("estoque - ?", qtd))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *produtoRepo) EstoqueBaixo(ctx context.Context, limite int) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).
		Where("estoque <= ?", limite).
		Order("estoque ASC").
		Find(&produtos).Error
	return produtos, err
}
