package router

import (
	"time"

	"github.com/DonboyBR/sigam-backend/internal/config"
	"github.com/DonboyBR/sigam-backend/internal/handler"
	"github.com/DonboyBR/sigam-backend/internal/infra"
	"github.com/DonboyBR/sigam-backend/internal/middleware"
	"github.com/DonboyBR/sigam-backend/internal/model"
	"github.com/DonboyBR/sigam-backend/internal/repository"
	"github.com/DonboyBR/sigam-backend/internal/service"
	"github.com/DonboyBR/sigam-backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, anexos *infra.FileAnexoStore) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	relatorioRepo := repository.NewRelatorioRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, anexos)
	caixaSvc := service.NewCaixaService(caixaRepo, vendaRepo, anexos, dispatcher)
	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, caixaSvc, anexos)
	relatorioSvc := service.NewRelatorioService(relatorioRepo, usuarioRepo, caixaSvc, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	produtosH := handler.NewProdutoHandler(produtoSvc)
	vendasH := handler.NewVendaHandler(vendaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc, cfg.StoragePath)
	relatoriosH := handler.NewRelatorioHandler(relatorioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Uploaded attachments (receipt photos, closing slips, product photos)
	r.Static("/anexos", anexos.Root())

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	qualquer := middleware.RequireRole(model.RolAdmin, model.RolFuncionario)
	somenteAdmin := middleware.RequireRole(model.RolAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/users/me", qualquer, authH.Me)

		v1.POST("/vendas", qualquer, vendasH.Registrar)
		v1.GET("/vendas", qualquer, vendasH.Listar)
		v1.GET("/vendas/:id", qualquer, vendasH.BuscarPorID)

		v1.GET("/produtos", qualquer, produtosH.Listar)
		v1.GET("/produtos/estoque-baixo", qualquer, produtosH.EstoqueBaixo)
		v1.GET("/produtos/:id", qualquer, produtosH.BuscarPorID)
		prods := v1.Group("/produtos", somenteAdmin)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Excluir)
		}

		caixas := v1.Group("/caixas")
		{
			caixas.POST("/abrir", qualquer, caixaH.Abrir)
			caixas.GET("/aberto", qualquer, caixaH.BuscarAberto)
			caixas.GET("/aberto/totais", qualquer, caixaH.TotaisParciais)
			caixas.POST("/:id/fechar", qualquer, caixaH.Fechar)
			caixas.GET("/historico", qualquer, caixaH.Historico)
			caixas.GET("/:id/detalhes", qualquer, caixaH.Detalhes)
			caixas.GET("/:id/relatorio.pdf", qualquer, caixaH.RelatorioPDF)
			caixas.PATCH("/:id", somenteAdmin, caixaH.EditarAjustes)
		}

		v1.GET("/dashboard/admin", somenteAdmin, relatoriosH.DashboardAdmin)
		v1.GET("/dashboard/funcionario", qualquer, relatoriosH.DashboardFuncionario)

		usuarios := v1.Group("/usuarios", somenteAdmin)
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
			usuarios.DELETE("/:id", authH.DesativarUsuario)
			usuarios.PATCH("/:id/reativar", authH.ReativarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
