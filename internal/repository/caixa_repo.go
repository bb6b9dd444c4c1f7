package repository

import (
	"context"
	"time"

	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoricoQuery narrows the closed-caixa listing. Authorization decides what
// goes in here — the repository applies the filters blindly.
type HistoricoQuery struct {
	ResponsavelID  *uuid.UUID
	DataFechamento *time.Time // exact close date
}

type CaixaRepository interface {
	Create(ctx context.Context, c *model.Caixa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	// FindAbertoPorResponsavel returns (nil, nil) when the operator has no open
	// caixa — "none open" is a result, not a failure.
	FindAbertoPorResponsavel(ctx context.Context, responsavelID uuid.UUID) (*model.Caixa, error)
	// FecharTx writes the closing fields inside the caller's transaction,
	// conditioned on the caixa still being ABERTO. Returns false when the row
	// was already FECHADO — two concurrent closes cannot both win.
	FecharTx(tx *gorm.DB, c *model.Caixa) (bool, error)
	// UpdateCampos applies a partial column update; the admin edit path.
	UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	ListFechados(ctx context.Context, q HistoricoQuery) ([]model.Caixa, error)
	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

func (r *caixaRepo) Create(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Preload("Responsavel").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *caixaRepo) FindAbertoPorResponsavel(ctx context.Context, responsavelID uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Where("responsavel_id = ? AND status = ?", responsavelID, model.CaixaAberto).
		First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) FecharTx(tx *gorm.DB, c *model.Caixa) (bool, error) {
	res := tx.Model(&model.Caixa{}).
		Where("id = ? AND status = ?", c.ID, model.CaixaAberto).
		Updates(map[string]interface{}{
			"status":                   c.Status,
			"data_fechamento":          c.DataFechamento,
			"dinheiro_apurado":         c.DinheiroApurado,
			"credito_apurado":          c.CreditoApurado,
			"debito_apurado":           c.DebitoApurado,
			"pix_apurado":              c.PixApurado,
			"valor_fechamento_apurado": c.ValorFechamentoApurado,
			"valor_fechamento_sistema": c.ValorFechamentoSistema,
			"comprovante_fechamento":   c.ComprovanteFechamento,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *caixaRepo) UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Caixa{}).Where("id = ?", id).Updates(campos).Error
}

func (r *caixaRepo) ListFechados(ctx context.Context, q HistoricoQuery) ([]model.Caixa, error) {
	var caixas []model.Caixa
	query := r.db.WithContext(ctx).
		Where("status = ?", model.CaixaFechado).
		Preload("Responsavel")
	if q.ResponsavelID != nil {
		query = query.Where("responsavel_id = ?", *q.ResponsavelID)
	}
	if q.DataFechamento != nil {
		query = query.Where("DATE(data_fechamento) = DATE(?)", *q.DataFechamento)
	}
	err := query.Order("data_fechamento DESC").Find(&caixas).Error
	return caixas, err
}
