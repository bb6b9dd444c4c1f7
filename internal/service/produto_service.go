package service

import (
	"context"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"
	"github.com/DonboyBR/sigam-backend/internal/repository"

	"github.com/google/uuid"
)

// EstoqueBaixoLimite is the default threshold for the low-stock endpoint.
const EstoqueBaixoLimite = 10

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	EstoqueBaixo(ctx context.Context, limite int) ([]dto.EstoqueBaixoItem, error)
}

type produtoService struct {
	repo   repository.ProdutoRepository
	anexos AnexoStore
}

func NewProdutoService(repo repository.ProdutoRepository, anexos AnexoStore) ProdutoService {
	return &produtoService{repo: repo, anexos: anexos}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	p := model.Produto{
		Nome:      req.Nome,
		Categoria: req.Categoria,
		Preco:     req.Preco,
		Estoque:   req.Estoque,
	}
	if req.FotoBase64 != nil && s.anexos != nil {
		ref, err := s.anexos.Salvar("produtos", *req.FotoBase64)
		if err != nil {
			return nil, err
		}
		p.Foto = &ref
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return s.toResponse(&p), nil
}

func (s *produtoService) BuscarPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Produto não encontrado.")
	}
	return s.toResponse(p), nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		items = append(items, *s.toResponse(&produtos[i]))
	}
	return &dto.ProdutoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Produto não encontrado.")
	}
	if req.Nome != "" {
		p.Nome = req.Nome
	}
	if req.Categoria != "" {
		p.Categoria = req.Categoria
	}
	if req.Preco != nil {
		p.Preco = *req.Preco
	}
	if req.Estoque != nil {
		if *req.Estoque < 0 {
			return nil, apierror.Validation("Estoque não pode ser negativo.")
		}
		p.Estoque = *req.Estoque
	}
	if req.FotoBase64 != nil && s.anexos != nil {
		ref, err := s.anexos.Salvar("produtos", *req.FotoBase64)
		if err != nil {
			return nil, err
		}
		p.Foto = &ref
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.toResponse(p), nil
}

// Excluir refuses to remove a product that already appears in a sale: line
// items snapshot the name/price but keep the FK for ranking queries.
func (s *produtoService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("Produto não encontrado.")
	}
	tem, err := s.repo.TemItensVenda(ctx, id)
	if err != nil {
		return err
	}
	if tem {
		return apierror.Conflict("Produto já possui vendas registradas e não pode ser excluído.")
	}
	return s.repo.Delete(ctx, id)
}

func (s *produtoService) EstoqueBaixo(ctx context.Context, limite int) ([]dto.EstoqueBaixoItem, error) {
	if limite <= 0 {
		limite = EstoqueBaixoLimite
	}
	produtos, err := s.repo.EstoqueBaixo(ctx, limite)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EstoqueBaixoItem, 0, len(produtos))
	for _, p := range produtos {
		items = append(items, dto.EstoqueBaixoItem{
			ID:      p.ID.String(),
			Nome:    p.Nome,
			Estoque: p.Estoque,
		})
	}
	return items, nil
}

func (s *produtoService) toResponse(p *model.Produto) *dto.ProdutoResponse {
	resp := &dto.ProdutoResponse{
		ID:        p.ID.String(),
		Nome:      p.Nome,
		Categoria: p.Categoria,
		Preco:     p.Preco,
		Estoque:   p.Estoque,
	}
	if p.Foto != nil && s.anexos != nil {
		url := s.anexos.URL(*p.Foto)
		resp.FotoURL = &url
	}
	return resp
}
