package service

import (
	"context"
	"errors"
	"time"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"
	"github.com/DonboyBR/sigam-backend/internal/repository"
	"github.com/DonboyBR/sigam-backend/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaService interface {
	Abrir(ctx context.Context, ator Ator, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	// BuscarAberto returns (nil, nil) when the operator has no open caixa —
	// callers must treat "none open" as a result, not a failure.
	BuscarAberto(ctx context.Context, ator Ator) (*dto.CaixaResponse, error)
	// TotaisParciais is a point-in-time snapshot of the operator's own sales
	// in their open caixa, recomputed on every call.
	TotaisParciais(ctx context.Context, ator Ator) (*dto.TotaisPorMetodo, error)
	Fechar(ctx context.Context, ator Ator, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error)
	Historico(ctx context.Context, ator Ator, filtro dto.HistoricoFilter) ([]dto.CaixaResponse, error)
	Detalhes(ctx context.Context, ator Ator, caixaID uuid.UUID) (*dto.DetalheCaixaResponse, error)
	EditarAjustes(ctx context.Context, ator Ator, caixaID uuid.UUID, req dto.EditarCaixaRequest) (*dto.CaixaResponse, error)
	// FindCaixaAberto is called by VendaService to link new sales.
	FindCaixaAberto(ctx context.Context, responsavelID uuid.UUID) (*model.Caixa, error)
	// BuscarModelo fetches the raw caixa after the same access check as
	// Detalhes — used by the PDF report.
	BuscarModelo(ctx context.Context, ator Ator, caixaID uuid.UUID) (*model.Caixa, error)
}

type caixaService struct {
	repo       repository.CaixaRepository
	vendaRepo  repository.VendaRepository
	anexos     AnexoStore
	dispatcher *worker.Dispatcher
}

func NewCaixaService(repo repository.CaixaRepository, vendaRepo repository.VendaRepository, anexos AnexoStore, dispatcher *worker.Dispatcher) CaixaService {
	return &caixaService{repo: repo, vendaRepo: vendaRepo, anexos: anexos, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, ator Ator, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	existing, err := s.repo.FindAbertoPorResponsavel(ctx, ator.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict("Já existe um caixa aberto para este operador.")
	}

	caixa := &model.Caixa{
		ResponsavelID: ator.ID,
		DataAbertura:  time.Now(),
		ValorAbertura: req.ValorAbertura,
		Status:        model.CaixaAberto,
	}
	if err := s.repo.Create(ctx, caixa); err != nil {
		// The partial unique index backs the one-open-caixa invariant when two
		// opens race past the existence check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Já existe um caixa aberto para este operador.")
		}
		return nil, err
	}
	return s.toResponse(caixa), nil
}

// ── BuscarAberto ──────────────────────────────────────────────────────────────

func (s *caixaService) BuscarAberto(ctx context.Context, ator Ator) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindAbertoPorResponsavel(ctx, ator.ID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, nil
	}
	return s.toResponse(caixa), nil
}

// ── TotaisParciais ────────────────────────────────────────────────────────────

func (s *caixaService) TotaisParciais(ctx context.Context, ator Ator) (*dto.TotaisPorMetodo, error) {
	caixa, err := s.repo.FindAbertoPorResponsavel(ctx, ator.ID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, apierror.NotFound("Nenhum caixa aberto encontrado.")
	}

	sums, err := s.vendaRepo.SumPorMetodo(ctx, caixa.ID, &ator.ID)
	if err != nil {
		return nil, err
	}
	totais := breakdown(sums)
	return &totais, nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// The counted values are stored exactly as submitted — the physical count is
// trusted. The system total is computed inside the same transaction as the
// status flip so a caixa can never be half-closed.

func (s *caixaService) Fechar(ctx context.Context, ator Ator, caixaID uuid.UUID, req dto.FecharCaixaRequest) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NotFound("Caixa não encontrado.")
	}
	if !ator.podeAcessarCaixa(caixa) {
		return nil, apierror.Forbidden("Sem permissão para fechar este caixa.")
	}
	if caixa.Status == model.CaixaFechado {
		return nil, apierror.Conflict("Este caixa já está fechado.")
	}

	var comprovanteRef string
	if req.ComprovanteBase64 != nil && s.anexos != nil {
		ref, err := s.anexos.Salvar("comprovantes", *req.ComprovanteBase64)
		if err != nil {
			return nil, err
		}
		comprovanteRef = ref
		caixa.ComprovanteFechamento = &ref
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sistema, err := s.vendaRepo.SumTotalPorCaixaTx(ctx, tx, caixa.ID)
		if err != nil {
			return err
		}

		caixa.DinheiroApurado = req.Totais.Dinheiro
		caixa.CreditoApurado = req.Totais.Credito
		caixa.DebitoApurado = req.Totais.Debito
		caixa.PixApurado = req.Totais.Pix
		total := req.Totais.Total
		caixa.ValorFechamentoApurado = &total
		caixa.ValorFechamentoSistema = &sistema

		now := time.Now()
		caixa.DataFechamento = &now
		caixa.Status = model.CaixaFechado

		// Re-asserted inside the transaction: the pre-check above races with
		// concurrent closes, the conditional update does not.
		fechado, err := s.repo.FecharTx(tx, caixa)
		if err != nil {
			return err
		}
		if !fechado {
			return apierror.Conflict("Este caixa já está fechado.")
		}
		return nil
	})
	if txErr != nil {
		// The close rolled back; don't leave its attachment behind.
		if comprovanteRef != "" {
			s.anexos.Remover(comprovanteRef)
		}
		return nil, txErr
	}

	// Closing summary e-mail — best effort, never blocks the close.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueFechamento(ctx, worker.FechamentoPayload{
			CaixaID:        caixa.ID.String(),
			ValorApurado:   req.Totais.Total.StringFixed(2),
			ValorSistema:   caixa.ValorFechamentoSistema.StringFixed(2),
			DataFechamento: caixa.DataFechamento.Format(time.RFC3339),
		})
	}

	return s.toResponse(caixa), nil
}

// ── Historico ─────────────────────────────────────────────────────────────────

func (s *caixaService) Historico(ctx context.Context, ator Ator, filtro dto.HistoricoFilter) ([]dto.CaixaResponse, error) {
	q := repository.HistoricoQuery{}

	if !ator.Admin {
		// Non-admin requesters only ever see their own sessions — the filter
		// argument is overridden, not defaulted.
		id := ator.ID
		q.ResponsavelID = &id
	} else if filtro.VendedorID != "" && filtro.VendedorID != "todos" {
		id, err := uuid.Parse(filtro.VendedorID)
		if err != nil {
			return nil, apierror.Validation("vendedor_id inválido")
		}
		q.ResponsavelID = &id
	}

	if filtro.Data != "" {
		dia, err := time.Parse("2006-01-02", filtro.Data)
		if err != nil {
			return nil, apierror.Validation("data inválida, use YYYY-MM-DD")
		}
		q.DataFechamento = &dia
	}

	caixas, err := s.repo.ListFechados(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		resp = append(resp, *s.toResponse(&caixas[i]))
	}
	return resp, nil
}

// ── Detalhes ──────────────────────────────────────────────────────────────────
// The reconciliation breakdown resolves each method to the admin-adjusted
// value when present, else the computed sum; its grand total is the sum of the
// four resolved components and may differ from the raw stored system total.
// Both are exposed.

func (s *caixaService) Detalhes(ctx context.Context, ator Ator, caixaID uuid.UUID) (*dto.DetalheCaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NotFound("Caixa não encontrado.")
	}
	if !ator.podeAcessarCaixa(caixa) {
		return nil, apierror.Forbidden("Sem permissão para acessar este caixa.")
	}

	sums, err := s.vendaRepo.SumPorMetodo(ctx, caixa.ID, nil)
	if err != nil {
		return nil, err
	}

	sistema := dto.TotaisPorMetodo{
		Dinheiro: resolver(caixa.DinheiroAjustado, sums[repository.MetodoDinheiro]),
		Credito:  resolver(caixa.CreditoAjustado, sums[repository.MetodoCredito]),
		Debito:   resolver(caixa.DebitoAjustado, sums[repository.MetodoDebito]),
		Pix:      resolver(caixa.PixAjustado, sums[repository.MetodoPix]),
	}
	sistema.Total = sistema.Dinheiro.Add(sistema.Credito).Add(sistema.Debito).Add(sistema.Pix)

	apurado := dto.TotaisPorMetodo{
		Dinheiro: caixa.DinheiroApurado,
		Credito:  caixa.CreditoApurado,
		Debito:   caixa.DebitoApurado,
		Pix:      caixa.PixApurado,
	}
	if caixa.ValorFechamentoApurado != nil {
		apurado.Total = *caixa.ValorFechamentoApurado
	}

	vendas, err := s.vendaRepo.ListPorCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	itens := make([]dto.VendaListItem, 0, len(vendas))
	for i := range vendas {
		itens = append(itens, *vendaToListItem(&vendas[i]))
	}

	return &dto.DetalheCaixaResponse{
		Caixa:   *s.toResponse(caixa),
		Apurado: apurado,
		Sistema: sistema,
		Vendas:  itens,
	}, nil
}

// ── EditarAjustes ─────────────────────────────────────────────────────────────
// Deliberate manual override path: only the supplied fields are written, and
// they are not validated against computed totals. Status and timestamps are
// never touched here.

func (s *caixaService) EditarAjustes(ctx context.Context, ator Ator, caixaID uuid.UUID, req dto.EditarCaixaRequest) (*dto.CaixaResponse, error) {
	if !ator.Admin {
		return nil, apierror.Forbidden("Apenas administradores podem editar totais de caixa.")
	}
	if _, err := s.repo.FindByID(ctx, caixaID); err != nil {
		return nil, apierror.NotFound("Caixa não encontrado.")
	}

	campos := map[string]interface{}{}
	colunas := []struct {
		nome  string
		valor *decimal.Decimal
	}{
		{"dinheiro_ajustado", req.DinheiroAjustado},
		{"credito_ajustado", req.CreditoAjustado},
		{"debito_ajustado", req.DebitoAjustado},
		{"pix_ajustado", req.PixAjustado},
		{"dinheiro_apurado", req.DinheiroApurado},
		{"credito_apurado", req.CreditoApurado},
		{"debito_apurado", req.DebitoApurado},
		{"pix_apurado", req.PixApurado},
		{"valor_fechamento_apurado", req.ValorFechamentoApurado},
	}
	for _, c := range colunas {
		if c.valor != nil {
			campos[c.nome] = *c.valor
		}
	}
	if len(campos) == 0 {
		return nil, apierror.Validation("Nenhum campo para atualizar.")
	}

	if err := s.repo.UpdateCampos(ctx, caixaID, campos); err != nil {
		return nil, err
	}

	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(caixa), nil
}

// ── FindCaixaAberto ───────────────────────────────────────────────────────────

func (s *caixaService) FindCaixaAberto(ctx context.Context, responsavelID uuid.UUID) (*model.Caixa, error) {
	return s.repo.FindAbertoPorResponsavel(ctx, responsavelID)
}

func (s *caixaService) BuscarModelo(ctx context.Context, ator Ator, caixaID uuid.UUID) (*model.Caixa, error) {
	caixa, err := s.repo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, apierror.NotFound("Caixa não encontrado.")
	}
	if !ator.podeAcessarCaixa(caixa) {
		return nil, apierror.Forbidden("Sem permissão para acessar este caixa.")
	}
	return caixa, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// resolver is the single two-tier resolution used everywhere reconciliation is
// displayed: the admin override when present, else the computed value.
func resolver(ajustado *decimal.Decimal, calculado decimal.Decimal) decimal.Decimal {
	if ajustado != nil {
		return *ajustado
	}
	return calculado
}

// breakdown converts the repository's per-method map into a response with the
// grand total filled in.
func breakdown(sums map[string]decimal.Decimal) dto.TotaisPorMetodo {
	t := dto.TotaisPorMetodo{
		Dinheiro: sums[repository.MetodoDinheiro],
		Credito:  sums[repository.MetodoCredito],
		Debito:   sums[repository.MetodoDebito],
		Pix:      sums[repository.MetodoPix],
	}
	t.Total = t.Dinheiro.Add(t.Credito).Add(t.Debito).Add(t.Pix)
	return t
}

func (s *caixaService) toResponse(c *model.Caixa) *dto.CaixaResponse {
	resp := &dto.CaixaResponse{
		ID:            c.ID.String(),
		ResponsavelID: c.ResponsavelID.String(),
		DataAbertura:  c.DataAbertura.Format("2006-01-02T15:04:05Z"),
		ValorAbertura: c.ValorAbertura,
		Status:        c.Status,

		DinheiroApurado:        c.DinheiroApurado,
		CreditoApurado:         c.CreditoApurado,
		DebitoApurado:          c.DebitoApurado,
		PixApurado:             c.PixApurado,
		ValorFechamentoApurado: c.ValorFechamentoApurado,
		ValorFechamentoSistema: c.ValorFechamentoSistema,

		DinheiroAjustado: c.DinheiroAjustado,
		CreditoAjustado:  c.CreditoAjustado,
		DebitoAjustado:   c.DebitoAjustado,
		PixAjustado:      c.PixAjustado,
	}
	if c.Responsavel != nil {
		resp.Responsavel = c.Responsavel.Nome
	}
	if c.DataFechamento != nil {
		t := c.DataFechamento.Format("2006-01-02T15:04:05Z")
		resp.DataFechamento = &t
	}
	if c.ComprovanteFechamento != nil && s.anexos != nil {
		url := s.anexos.URL(*c.ComprovanteFechamento)
		resp.ComprovanteURL = &url
	}
	return resp
}
