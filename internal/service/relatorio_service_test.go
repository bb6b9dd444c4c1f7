package service

import (
	"context"
	"testing"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAdmin(t *testing.T) {
	relRepo := &fakeRelatorioRepo{
		totalPeriodo: dec("320.00"),
		itensPeriodo: 41,
		rankingProds: []dto.RankingProduto{
			{Produto: "Coxinha", TotalVendido: 60},
			{Produto: "Coca-Cola Lata", TotalVendido: 45},
		},
		rankingVends: []dto.RankingVendedor{
			{Vendedor: "maria", ValorVendido: dec("900.00")},
		},
	}
	usuarios := newFakeUsuarioRepo()
	require.NoError(t, usuarios.Create(context.Background(), &model.Usuario{
		Username: "maria", Nome: "Maria", Rol: model.RolFuncionario, Ativo: true,
	}))
	require.NoError(t, usuarios.Create(context.Background(), &model.Usuario{
		Username: "inativo", Nome: "Ex-funcionário", Rol: model.RolFuncionario, Ativo: false,
	}))

	caixaSvc := NewCaixaService(newFakeCaixaRepo(), &fakeVendaRepo{}, nil, nil)
	svc := NewRelatorioService(relRepo, usuarios, caixaSvc, nil)

	resp, err := svc.DashboardAdmin(context.Background(), "2026-08-15", nil)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-15", resp.Data)
	assert.Equal(t, "320", resp.TotalVendido.String())
	assert.Equal(t, 41, resp.TotalItensVendidos)
	assert.Len(t, resp.RankingProdutos, 2)
	assert.Len(t, resp.RankingVendedores, 1)
	// Inactive users stay out of the operator picker.
	require.Len(t, resp.VendedoresDisponiveis, 1)
	assert.Equal(t, "maria", resp.VendedoresDisponiveis[0].Username)
}

func TestDashboardAdminDataInvalida(t *testing.T) {
	caixaSvc := NewCaixaService(newFakeCaixaRepo(), &fakeVendaRepo{}, nil, nil)
	svc := NewRelatorioService(&fakeRelatorioRepo{}, newFakeUsuarioRepo(), caixaSvc, nil)

	_, err := svc.DashboardAdmin(context.Background(), "15/08/2026", nil)
	require.Error(t, err)
	assert.Equal(t, 422, apierror.Status(err))
}

func TestDashboardAdminFiltroPorVendedor(t *testing.T) {
	relRepo := &fakeRelatorioRepo{totalPeriodo: dec("120.00"), itensPeriodo: 14}
	caixaSvc := NewCaixaService(newFakeCaixaRepo(), &fakeVendaRepo{}, nil, nil)
	svc := NewRelatorioService(relRepo, newFakeUsuarioRepo(), caixaSvc, nil)

	vendedorID := uuid.New()
	resp, err := svc.DashboardAdmin(context.Background(), "2026-08-15", &vendedorID)
	require.NoError(t, err)

	assert.Equal(t, "120", resp.TotalVendido.String())
	require.NotNil(t, relRepo.ultimoVendedor)
	assert.Equal(t, vendedorID, *relRepo.ultimoVendedor)
}

func TestDashboardFuncionarioComCaixaAberto(t *testing.T) {
	relRepo := &fakeRelatorioRepo{totalPorCaixa: dec("75.00"), itensPorCaixa: 9}
	caixas := newFakeCaixaRepo()
	caixaSvc := NewCaixaService(caixas, &fakeVendaRepo{}, nil, nil)
	svc := NewRelatorioService(relRepo, newFakeUsuarioRepo(), caixaSvc, nil)

	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, caixaSvc, ator)

	resp, err := svc.DashboardFuncionario(context.Background(), ator, "")
	require.NoError(t, err)
	assert.Equal(t, "caixa_atual", resp.Periodo)
	assert.Equal(t, "75", resp.TotalVendido.String())
	assert.Equal(t, 9, resp.ItensVendidos)
}

func TestDashboardFuncionarioComDataPrevaleceSobreCaixa(t *testing.T) {
	relRepo := &fakeRelatorioRepo{
		totalPorCaixa: dec("75.00"), itensPorCaixa: 9,
		totalPeriodo: dec("42.00"), itensPeriodo: 5,
	}
	caixas := newFakeCaixaRepo()
	caixaSvc := NewCaixaService(caixas, &fakeVendaRepo{}, nil, nil)
	svc := NewRelatorioService(relRepo, newFakeUsuarioRepo(), caixaSvc, nil)

	ator := Ator{ID: uuid.New()}
	abrirCaixaDe(t, caixaSvc, ator)

	// An explicit date scopes to that day even with a caixa open.
	resp, err := svc.DashboardFuncionario(context.Background(), ator, "2026-08-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-10", resp.Periodo)
	assert.Equal(t, "42", resp.TotalVendido.String())
	assert.Equal(t, 5, resp.ItensVendidos)
	require.NotNil(t, relRepo.ultimoVendedor)
	assert.Equal(t, ator.ID, *relRepo.ultimoVendedor)
}

func TestDashboardFuncionarioSemCaixa(t *testing.T) {
	relRepo := &fakeRelatorioRepo{totalPeriodo: dec("42.00"), itensPeriodo: 5}
	caixaSvc := NewCaixaService(newFakeCaixaRepo(), &fakeVendaRepo{}, nil, nil)
	svc := NewRelatorioService(relRepo, newFakeUsuarioRepo(), caixaSvc, nil)

	ator := Ator{ID: uuid.New()}
	resp, err := svc.DashboardFuncionario(context.Background(), ator, "2026-08-10")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-10", resp.Periodo)
	assert.Equal(t, "42", resp.TotalVendido.String())
	// The day scope is restricted to the operator's own sales.
	require.NotNil(t, relRepo.ultimoVendedor)
	assert.Equal(t, ator.ID, *relRepo.ultimoVendedor)
}
