package service

import (
	"context"
	"sync"
	"time"

	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"
	"github.com/DonboyBR/sigam-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type fakeCaixaRepo struct {
	mu     sync.Mutex
	caixas map[uuid.UUID]*model.Caixa
}

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{caixas: make(map[uuid.UUID]*model.Caixa)}
}

func (r *fakeCaixaRepo) DB() *gorm.DB { return nil }

// Create enforces the partial unique index: a second open caixa for the same
// responsável fails with ErrDuplicatedKey, even under concurrent calls.
func (r *fakeCaixaRepo) Create(_ context.Context, c *model.Caixa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.caixas {
		if existing.ResponsavelID == c.ResponsavelID && existing.Status == model.CaixaAberto {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.caixas[c.ID] = &cp
	return nil
}

func (r *fakeCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCaixaRepo) FindAbertoPorResponsavel(_ context.Context, responsavelID uuid.UUID) (*model.Caixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.caixas {
		if c.ResponsavelID == responsavelID && c.Status == model.CaixaAberto {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// FecharTx mimics the conditional UPDATE ... WHERE status = 'ABERTO': only one
// of two racing closes finds the row still open.
func (r *fakeCaixaRepo) FecharTx(_ *gorm.DB, c *model.Caixa) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	atual, ok := r.caixas[c.ID]
	if !ok || atual.Status != model.CaixaAberto {
		return false, nil
	}
	cp := *c
	r.caixas[c.ID] = &cp
	return true, nil
}

func (r *fakeCaixaRepo) UpdateCampos(_ context.Context, id uuid.UUID, campos map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caixas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, v := range campos {
		d := v.(decimal.Decimal)
		switch col {
		case "dinheiro_ajustado":
			c.DinheiroAjustado = &d
		case "credito_ajustado":
			c.CreditoAjustado = &d
		case "debito_ajustado":
			c.DebitoAjustado = &d
		case "pix_ajustado":
			c.PixAjustado = &d
		case "dinheiro_apurado":
			c.DinheiroApurado = d
		case "credito_apurado":
			c.CreditoApurado = d
		case "debito_apurado":
			c.DebitoApurado = d
		case "pix_apurado":
			c.PixApurado = d
		case "valor_fechamento_apurado":
			c.ValorFechamentoApurado = &d
		}
	}
	return nil
}

func (r *fakeCaixaRepo) ListFechados(_ context.Context, q repository.HistoricoQuery) ([]model.Caixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Caixa
	for _, c := range r.caixas {
		if c.Status != model.CaixaFechado {
			continue
		}
		if q.ResponsavelID != nil && c.ResponsavelID != *q.ResponsavelID {
			continue
		}
		if q.DataFechamento != nil {
			if c.DataFechamento == nil {
				continue
			}
			y1, m1, d1 := c.DataFechamento.Date()
			y2, m2, d2 := q.DataFechamento.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		out = append(out, *c)
	}
	return out, nil
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

// ── In-memory VendaRepository ────────────────────────────────────────────────

type fakeVendaRepo struct {
	mu     sync.Mutex
	vendas []model.Venda
}

func (r *fakeVendaRepo) DB() *gorm.DB { return nil }

func (r *fakeVendaRepo) CreateTx(_ *gorm.DB, v *model.Venda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	r.vendas = append(r.vendas, *v)
	return nil
}

func (r *fakeVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.vendas {
		if r.vendas[i].ID == id {
			cp := r.vendas[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVendaRepo) List(_ context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Venda(nil), r.vendas...), int64(len(r.vendas)), nil
}

func (r *fakeVendaRepo) ListPorCaixa(_ context.Context, caixaID uuid.UUID) ([]model.Venda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venda
	for _, v := range r.vendas {
		if v.CaixaID != nil && *v.CaixaID == caixaID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVendaRepo) SumTotalPorCaixaTx(_ context.Context, _ *gorm.DB, caixaID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, v := range r.vendas {
		if v.CaixaID != nil && *v.CaixaID == caixaID {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

func (r *fakeVendaRepo) SumPorMetodo(_ context.Context, caixaID uuid.UUID, vendedorID *uuid.UUID) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]decimal.Decimal{
		repository.MetodoDinheiro: decimal.Zero,
		repository.MetodoPix:      decimal.Zero,
		repository.MetodoCredito:  decimal.Zero,
		repository.MetodoDebito:   decimal.Zero,
	}
	for _, v := range r.vendas {
		if v.CaixaID == nil || *v.CaixaID != caixaID {
			continue
		}
		if vendedorID != nil && v.VendedorID != *vendedorID {
			continue
		}
		switch v.MetodoPagamento {
		case model.MetodoDinheiro:
			sums[repository.MetodoDinheiro] = sums[repository.MetodoDinheiro].Add(v.Total)
		case model.MetodoPIX:
			sums[repository.MetodoPix] = sums[repository.MetodoPix].Add(v.Total)
		case model.MetodoCartao:
			if v.TipoCartao != nil && *v.TipoCartao == model.CartaoDebito {
				sums[repository.MetodoDebito] = sums[repository.MetodoDebito].Add(v.Total)
			} else {
				sums[repository.MetodoCredito] = sums[repository.MetodoCredito].Add(v.Total)
			}
		}
	}
	return sums, nil
}

var _ repository.VendaRepository = (*fakeVendaRepo)(nil)

// ── In-memory ProdutoRepository ──────────────────────────────────────────────

type fakeProdutoRepo struct {
	mu        sync.Mutex
	produtos  map[uuid.UUID]*model.Produto
	comVendas map[uuid.UUID]bool
}

func newFakeProdutoRepo() *fakeProdutoRepo {
	return &fakeProdutoRepo{
		produtos:  make(map[uuid.UUID]*model.Produto),
		comVendas: make(map[uuid.UUID]bool),
	}
}

func (r *fakeProdutoRepo) seed(nome string, preco decimal.Decimal, estoque int) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.produtos[id] = &model.Produto{ID: id, Nome: nome, Categoria: "Geral", Preco: preco, Estoque: estoque}
	return id
}

func (r *fakeProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *fakeProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Produto
	for _, p := range r.produtos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *fakeProdutoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.produtos, id)
	return nil
}

func (r *fakeProdutoRepo) TemItensVenda(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.comVendas[id], nil
}

func (r *fakeProdutoRepo) DescontarEstoqueTx(_ *gorm.DB, id uuid.UUID, qtd int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.produtos[id]
	if !ok || p.Estoque < qtd {
		return false, nil
	}
	p.Estoque -= qtd
	return true, nil
}

func (r *fakeProdutoRepo) EstoqueBaixo(_ context.Context, limite int) ([]model.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Produto
	for _, p := range r.produtos {
		if p.Estoque <= limite {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.ProdutoRepository = (*fakeProdutoRepo)(nil)

// ── In-memory UsuarioRepository ──────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, existing := range r.usuarios {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) List(_ context.Context, incluirInativos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if !incluirInativos && !u.Ativo {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = false
	}
	return nil
}

func (r *fakeUsuarioRepo) Reativar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = true
	}
	return nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

// ── Stub RelatorioRepository ─────────────────────────────────────────────────

type fakeRelatorioRepo struct {
	totalPeriodo   decimal.Decimal
	itensPeriodo   int
	rankingProds   []dto.RankingProduto
	rankingVends   []dto.RankingVendedor
	totalPorCaixa  decimal.Decimal
	itensPorCaixa  int
	ultimoVendedor *uuid.UUID
}

func (r *fakeRelatorioRepo) TotalVendidoPeriodo(_ context.Context, _, _ time.Time, vendedorID *uuid.UUID) (decimal.Decimal, error) {
	r.ultimoVendedor = vendedorID
	return r.totalPeriodo, nil
}

func (r *fakeRelatorioRepo) ItensVendidosPeriodo(_ context.Context, _, _ time.Time, _ *uuid.UUID) (int, error) {
	return r.itensPeriodo, nil
}

func (r *fakeRelatorioRepo) RankingProdutos(_ context.Context, _, _ time.Time, limite int) ([]dto.RankingProduto, error) {
	if len(r.rankingProds) > limite {
		return r.rankingProds[:limite], nil
	}
	return r.rankingProds, nil
}

func (r *fakeRelatorioRepo) RankingVendedores(_ context.Context, _, _ time.Time, limite int) ([]dto.RankingVendedor, error) {
	if len(r.rankingVends) > limite {
		return r.rankingVends[:limite], nil
	}
	return r.rankingVends, nil
}

func (r *fakeRelatorioRepo) TotalVendidoPorCaixa(_ context.Context, _, _ uuid.UUID) (decimal.Decimal, int, error) {
	return r.totalPorCaixa, r.itensPorCaixa, nil
}

var _ repository.RelatorioRepository = (*fakeRelatorioRepo)(nil)

// ── In-memory AnexoStore ─────────────────────────────────────────────────────

type fakeAnexoStore struct {
	mu        sync.Mutex
	salvos    []string
	removidos []string
	// aoSalvar runs between the save and its return; tests use it to interleave
	// a competing operation.
	aoSalvar func()
}

func (s *fakeAnexoStore) Salvar(categoria, _ string) (string, error) {
	if s.aoSalvar != nil {
		s.aoSalvar()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := categoria + "/" + uuid.New().String() + ".jpg"
	s.salvos = append(s.salvos, ref)
	return ref, nil
}

func (s *fakeAnexoStore) URL(ref string) string { return "http://sigam.local/anexos/" + ref }

func (s *fakeAnexoStore) Remover(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removidos = append(s.removidos, ref)
}

var _ AnexoStore = (*fakeAnexoStore)(nil)
