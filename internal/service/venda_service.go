package service

import (
	"context"
	"fmt"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"
	"github.com/DonboyBR/sigam-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	Registrar(ctx context.Context, ator Ator, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	BuscarPorID(ctx context.Context, ator Ator, id uuid.UUID) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	produtoRepo repository.ProdutoRepository
	caixa       CaixaService
	anexos      AnexoStore
}

func NewVendaService(repo repository.VendaRepository, produtoRepo repository.ProdutoRepository, caixa CaixaService, anexos AnexoStore) VendaService {
	return &vendaService{repo: repo, produtoRepo: produtoRepo, caixa: caixa, anexos: anexos}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. the operator's open caixa is resolved (no open caixa → conflict);
//  2. each item decrements stock through an atomic conditional update, so a
//     stale read can never let two concurrent sales jointly oversell;
//  3. the sale + items are created with name/price snapshots and a
//     server-computed total.
//
// Any item failing the stock floor rolls back the whole sale — stock and
// session state come out unchanged.

func (s *vendaService) Registrar(ctx context.Context, ator Ator, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	if len(req.Itens) == 0 {
		return nil, apierror.Validation("A venda precisa de ao menos um item.")
	}
	if req.MetodoPagamento == model.MetodoCartao && req.TipoCartao == nil {
		return nil, apierror.Validation("Vendas no cartão exigem o tipo (Debito ou Credito).")
	}

	caixa, err := s.caixa.FindCaixaAberto(ctx, ator.ID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, apierror.Conflict("Nenhum caixa aberto para este operador.")
	}

	var fotoRef *string
	if req.FotoNotinhaBase64 != nil && s.anexos != nil {
		ref, err := s.anexos.Salvar("notinhas", *req.FotoNotinhaBase64)
		if err != nil {
			return nil, err
		}
		fotoRef = &ref
	}

	var venda model.Venda
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		total := decimal.Zero
		var itens []model.ItemVenda

		for _, item := range req.Itens {
			pid, err := uuid.Parse(item.ProdutoID)
			if err != nil {
				return apierror.Validation(fmt.Sprintf("produto_id inválido: %s", item.ProdutoID))
			}
			p, err := s.produtoRepo.FindByID(ctx, pid)
			if err != nil {
				return apierror.NotFound(fmt.Sprintf("Produto %s não encontrado.", item.ProdutoID))
			}

			ok, err := s.produtoRepo.DescontarEstoqueTx(tx, pid, item.Quantidade)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.Validation(fmt.Sprintf("Estoque insuficiente para o produto %s.", p.Nome))
			}

			subtotal := p.Preco.Mul(decimal.NewFromInt(int64(item.Quantidade)))
			total = total.Add(subtotal)
			itens = append(itens, model.ItemVenda{
				ProdutoID:     pid,
				NomeProduto:   p.Nome,
				Quantidade:    item.Quantidade,
				PrecoUnitario: p.Preco,
			})
		}

		caixaID := caixa.ID
		venda = model.Venda{
			VendedorID:        ator.ID,
			CaixaID:           &caixaID,
			Total:             total,
			MetodoPagamento:   req.MetodoPagamento,
			TipoCartao:        req.TipoCartao,
			BandeiraCartao:    req.BandeiraCartao,
			NSU:               req.NSU,
			CodigoAutorizacao: req.CodigoAutorizacao,
			FotoNotinha:       fotoRef,
			Observacoes:       req.Observacoes,
			Itens:             itens,
		}
		return s.repo.CreateTx(tx, &venda)
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.toResponse(&venda), nil
}

// ── BuscarPorID ───────────────────────────────────────────────────────────────

func (s *vendaService) BuscarPorID(ctx context.Context, ator Ator, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Venda não encontrada.")
	}
	if !ator.Admin && venda.VendedorID != ator.ID {
		return nil, apierror.Forbidden("Sem permissão para acessar esta venda.")
	}
	return s.toResponse(venda), nil
}

// ── Listar ────────────────────────────────────────────────────────────────────
// Default filter: today's sales, newest first.

func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendaListItem, 0, len(vendas))
	for i := range vendas {
		items = append(items, *vendaToListItem(&vendas[i]))
	}
	return &dto.VendaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func itemToResponse(item *model.ItemVenda) dto.ItemVendaResponse {
	return dto.ItemVendaResponse{
		Produto:       item.NomeProduto,
		Quantidade:    item.Quantidade,
		PrecoUnitario: item.PrecoUnitario,
		Subtotal:      item.PrecoUnitario.Mul(decimal.NewFromInt(int64(item.Quantidade))),
	}
}

func vendaToListItem(v *model.Venda) *dto.VendaListItem {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for i := range v.Itens {
		itens = append(itens, itemToResponse(&v.Itens[i]))
	}
	vendedor := ""
	if v.Vendedor != nil {
		vendedor = v.Vendedor.Nome
	}
	return &dto.VendaListItem{
		ID:              v.ID.String(),
		VendedorID:      v.VendedorID.String(),
		Vendedor:        vendedor,
		Total:           v.Total,
		MetodoPagamento: v.MetodoPagamento,
		TipoCartao:      v.TipoCartao,
		Itens:           itens,
		CreatedAt:       v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (s *vendaService) toResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for i := range v.Itens {
		itens = append(itens, itemToResponse(&v.Itens[i]))
	}
	resp := &dto.VendaResponse{
		ID:                v.ID.String(),
		VendedorID:        v.VendedorID.String(),
		Total:             v.Total,
		MetodoPagamento:   v.MetodoPagamento,
		TipoCartao:        v.TipoCartao,
		BandeiraCartao:    v.BandeiraCartao,
		NSU:               v.NSU,
		CodigoAutorizacao: v.CodigoAutorizacao,
		Observacoes:       v.Observacoes,
		Itens:             itens,
		CreatedAt:         v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if v.CaixaID != nil {
		id := v.CaixaID.String()
		resp.CaixaID = &id
	}
	if v.FotoNotinha != nil && s.anexos != nil {
		url := s.anexos.URL(*v.FotoNotinha)
		resp.FotoNotinhaURL = &url
	}
	return resp
}
