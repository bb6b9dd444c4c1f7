package service

import (
	"context"
	"sync"
	"testing"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vendaFixture struct {
	produtos *fakeProdutoRepo
	vendas   *fakeVendaRepo
	caixas   *fakeCaixaRepo
	svc      VendaService
	caixaSvc CaixaService
}

func novaVendaFixture(t *testing.T) *vendaFixture {
	t.Helper()
	produtos := newFakeProdutoRepo()
	vendas := &fakeVendaRepo{}
	caixas := newFakeCaixaRepo()
	caixaSvc := NewCaixaService(caixas, vendas, nil, nil)
	return &vendaFixture{
		produtos: produtos,
		vendas:   vendas,
		caixas:   caixas,
		svc:      NewVendaService(vendas, produtos, caixaSvc, nil),
		caixaSvc: caixaSvc,
	}
}

func TestRegistrarVenda(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)

	coca := f.produtos.seed("Coca-Cola Lata", dec("5.00"), 10)
	salgado := f.produtos.seed("Coxinha", dec("7.50"), 4)

	resp, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{ProdutoID: coca.String(), Quantidade: 2},
			{ProdutoID: salgado.String(), Quantidade: 2},
		},
		MetodoPagamento: model.MetodoDinheiro,
	})
	require.NoError(t, err)

	// Total computed server-side from catalog prices: 2×5.00 + 2×7.50.
	assert.Equal(t, "25", resp.Total.String())
	require.NotNil(t, resp.CaixaID)
	require.Len(t, resp.Itens, 2)
	assert.Equal(t, "Coca-Cola Lata", resp.Itens[0].Produto)
	assert.Equal(t, "10", resp.Itens[0].Subtotal.String())

	// Stock decremented.
	p, err := f.produtos.FindByID(context.Background(), coca)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Estoque)
}

func TestRegistrarVendaConcorrenteNaoVendeAlemDoEstoque(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)

	// 5 units in stock, 8 concurrent sales of 2: at most 2 can succeed.
	produto := f.produtos.seed("Água Mineral", dec("3.00"), 5)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
				Itens:           []dto.ItemVendaRequest{{ProdutoID: produto.String(), Quantidade: 2}},
				MetodoPagamento: model.MetodoPIX,
			})
		}(i)
	}
	wg.Wait()

	sucessos := 0
	for _, err := range errs {
		if err == nil {
			sucessos++
		} else {
			assert.Equal(t, 422, apierror.Status(err))
		}
	}
	assert.Equal(t, 2, sucessos)

	p, err := f.produtos.FindByID(context.Background(), produto)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Estoque)

	vendas, _, err := f.vendas.List(context.Background(), dto.VendaFilter{})
	require.NoError(t, err)
	assert.Len(t, vendas, sucessos)
}

func TestRegistrarVendaSemCaixaAberto(t *testing.T) {
	f := novaVendaFixture(t)
	prod := f.produtos.seed("Água", dec("3.00"), 5)

	_, err := f.svc.Registrar(context.Background(), Ator{ID: uuid.New()}, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: prod.String(), Quantidade: 1}},
		MetodoPagamento: model.MetodoDinheiro,
	})
	require.Error(t, err)
	assert.Equal(t, 409, apierror.Status(err))
	assert.Empty(t, f.vendas.vendas)
}

func TestRegistrarVendaItensVazios(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)

	_, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		MetodoPagamento: model.MetodoPIX,
	})
	require.Error(t, err)
	assert.Equal(t, 422, apierror.Status(err))
}

func TestRegistrarVendaCartaoSemTipo(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)
	prod := f.produtos.seed("Suco", dec("6.00"), 5)

	_, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: prod.String(), Quantidade: 1}},
		MetodoPagamento: model.MetodoCartao,
	})
	require.Error(t, err)
	assert.Equal(t, 422, apierror.Status(err))

	debito := model.CartaoDebito
	resp, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: prod.String(), Quantidade: 1}},
		MetodoPagamento: model.MetodoCartao,
		TipoCartao:      &debito,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CartaoDebito, *resp.TipoCartao)
}

func TestRegistrarVendaEstoqueInsuficiente(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)
	prod := f.produtos.seed("Bolo", dec("12.00"), 3)

	_, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: prod.String(), Quantidade: 5}},
		MetodoPagamento: model.MetodoDinheiro,
	})
	require.Error(t, err)
	assert.Equal(t, 422, apierror.Status(err))
	assert.ErrorContains(t, err, "Estoque insuficiente")

	// Nothing committed: no sale, stock untouched.
	assert.Empty(t, f.vendas.vendas)
	p, err := f.produtos.FindByID(context.Background(), prod)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Estoque)
}

func TestRegistrarVendaProdutoInexistente(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)

	_, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: uuid.New().String(), Quantidade: 1}},
		MetodoPagamento: model.MetodoDinheiro,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apierror.Status(err))
}

// Snapshots: later catalog changes never rewrite recorded items.
func TestItemVendaSnapshotDePreco(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)
	prod := f.produtos.seed("Café", dec("4.00"), 10)

	resp, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: prod.String(), Quantidade: 1}},
		MetodoPagamento: model.MetodoPIX,
	})
	require.NoError(t, err)

	// Reprice the product after the sale.
	p, _ := f.produtos.FindByID(context.Background(), prod)
	p.Preco = dec("9.00")
	require.NoError(t, f.produtos.Update(context.Background(), p))

	gravada, err := f.svc.BuscarPorID(context.Background(), ator, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "4", gravada.Itens[0].PrecoUnitario.String())
	assert.Equal(t, "4", gravada.Total.String())
}

func TestBuscarVendaDeOutroVendedor(t *testing.T) {
	f := novaVendaFixture(t)
	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, f.caixaSvc, ator)
	prod := f.produtos.seed("Pão", dec("1.00"), 10)

	resp, err := f.svc.Registrar(context.Background(), ator, dto.RegistrarVendaRequest{
		Itens:           []dto.ItemVendaRequest{{ProdutoID: prod.String(), Quantidade: 1}},
		MetodoPagamento: model.MetodoDinheiro,
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = f.svc.BuscarPorID(context.Background(), Ator{ID: uuid.New()}, id)
	require.Error(t, err)
	assert.Equal(t, 403, apierror.Status(err))

	_, err = f.svc.BuscarPorID(context.Background(), Ator{ID: uuid.New(), Admin: true}, id)
	require.NoError(t, err)
}
