package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// dashboardCacheTTL keeps admin dashboard reads cheap under polling without
// letting the figures go stale for long.
const dashboardCacheTTL = 30 * time.Second

type RelatorioService interface {
	DashboardAdmin(ctx context.Context, data string, vendedorID *uuid.UUID) (*dto.DashboardAdminResponse, error)
	DashboardFuncionario(ctx context.Context, ator Ator, data string) (*dto.DashboardFuncionarioResponse, error)
}

type relatorioService struct {
	repo        repository.RelatorioRepository
	usuarioRepo repository.UsuarioRepository
	caixa       CaixaService
	rdb         *redis.Client
}

func NewRelatorioService(repo repository.RelatorioRepository, usuarioRepo repository.UsuarioRepository, caixa CaixaService, rdb *redis.Client) RelatorioService {
	return &relatorioService{repo: repo, usuarioRepo: usuarioRepo, caixa: caixa, rdb: rdb}
}

// DashboardAdmin aggregates the day's sales plus month-to-date rankings. An
// optional vendedor filter narrows the day figures; the rankings stay global.
// Results are cached per input in Redis; cache failures fall through to the
// database silently.
func (s *relatorioService) DashboardAdmin(ctx context.Context, data string, vendedorID *uuid.UUID) (*dto.DashboardAdminResponse, error) {
	dia, err := parseDia(data)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:admin:%s", dia.Format("2006-01-02"))
	if vendedorID != nil {
		cacheKey += ":" + vendedorID.String()
	}
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached dto.DashboardAdminResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	iniDia := dia
	fimDia := dia.AddDate(0, 0, 1)
	iniMes := time.Date(dia.Year(), dia.Month(), 1, 0, 0, 0, 0, dia.Location())

	total, err := s.repo.TotalVendidoPeriodo(ctx, iniDia, fimDia, vendedorID)
	if err != nil {
		return nil, err
	}
	itens, err := s.repo.ItensVendidosPeriodo(ctx, iniDia, fimDia, vendedorID)
	if err != nil {
		return nil, err
	}
	rankingProdutos, err := s.repo.RankingProdutos(ctx, iniMes, fimDia, 5)
	if err != nil {
		return nil, err
	}
	rankingVendedores, err := s.repo.RankingVendedores(ctx, iniMes, fimDia, 3)
	if err != nil {
		return nil, err
	}
	usuarios, err := s.usuarioRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	vendedores := make([]dto.VendedorResumo, 0, len(usuarios))
	for _, u := range usuarios {
		vendedores = append(vendedores, dto.VendedorResumo{
			ID:       u.ID.String(),
			Username: u.Username,
			Nome:     u.Nome,
		})
	}

	resp := &dto.DashboardAdminResponse{
		Data:                  dia.Format("2006-01-02"),
		TotalVendido:          total,
		TotalItensVendidos:    itens,
		RankingProdutos:       rankingProdutos,
		RankingVendedores:     rankingVendedores,
		VendedoresDisponiveis: vendedores,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("falha ao gravar cache do dashboard")
			}
		}
	}
	return resp, nil
}

// DashboardFuncionario scopes to the operator's own sales. Without a date the
// figures cover the current open caixa (when there is one); an explicit date
// always wins and scopes to that day, open caixa or not.
func (s *relatorioService) DashboardFuncionario(ctx context.Context, ator Ator, data string) (*dto.DashboardFuncionarioResponse, error) {
	if data == "" {
		caixa, err := s.caixa.FindCaixaAberto(ctx, ator.ID)
		if err != nil {
			return nil, err
		}
		if caixa != nil {
			total, itens, err := s.repo.TotalVendidoPorCaixa(ctx, caixa.ID, ator.ID)
			if err != nil {
				return nil, err
			}
			return &dto.DashboardFuncionarioResponse{
				Periodo:       "caixa_atual",
				TotalVendido:  total,
				ItensVendidos: itens,
			}, nil
		}
	}

	dia, err := parseDia(data)
	if err != nil {
		return nil, err
	}
	ini := dia
	fim := dia.AddDate(0, 0, 1)
	total, err := s.repo.TotalVendidoPeriodo(ctx, ini, fim, &ator.ID)
	if err != nil {
		return nil, err
	}
	itens, err := s.repo.ItensVendidosPeriodo(ctx, ini, fim, &ator.ID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardFuncionarioResponse{
		Periodo:       dia.Format("2006-01-02"),
		TotalVendido:  total,
		ItensVendidos: itens,
	}, nil
}

// parseDia resolves the optional ?data= query; empty means today.
func parseDia(data string) (time.Time, error) {
	if data == "" {
		agora := time.Now()
		return time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location()), nil
	}
	dia, err := time.ParseInLocation("2006-01-02", data, time.Local)
	if err != nil {
		return time.Time{}, apierror.Validation("Data inválida; use o formato YYYY-MM-DD.")
	}
	return dia, nil
}
