package handler

import (
	"net/http"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/infra"
	"github.com/DonboyBR/sigam-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct {
	svc         service.CaixaService
	storagePath string
}

func NewCaixaHandler(svc service.CaixaService, storagePath string) *CaixaHandler {
	return &CaixaHandler{svc: svc, storagePath: storagePath}
}

// Abrir godoc
// @Summary Abre um novo caixa para o operador autenticado
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Dados de abertura"
// @Success 201 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixas/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), atorDe(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// BuscarAberto godoc
// @Summary Busca o caixa aberto do operador autenticado
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CaixaResponse
// @Success 204 "nenhum caixa aberto"
// @Router /v1/caixas/aberto [get]
func (h *CaixaHandler) BuscarAberto(c *gin.Context) {
	resp, err := h.svc.BuscarAberto(c.Request.Context(), atorDe(c))
	if err != nil {
		respondError(c, err)
		return
	}
	// Nenhum caixa aberto não é erro; o front distingue pelo 204.
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TotaisParciais godoc
// @Summary Totais parciais por método do caixa aberto
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TotaisPorMetodo
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixas/aberto/totais [get]
func (h *CaixaHandler) TotaisParciais(c *gin.Context) {
	resp, err := h.svc.TotaisParciais(c.Request.Context(), atorDe(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fechar godoc
// @Summary Fecha um caixa com os valores apurados na contagem física
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Param body body dto.FecharCaixaRequest true "Totais apurados"
// @Success 200 {object} dto.CaixaResponse
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixas/{id}/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), atorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historico godoc
// @Summary Histórico de caixas fechados
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param vendedor_id query string false "UUID do responsável ou 'todos' (apenas admin)"
// @Param data query string false "Data de fechamento YYYY-MM-DD"
// @Success 200 {array} dto.CaixaResponse
// @Router /v1/caixas/historico [get]
func (h *CaixaHandler) Historico(c *gin.Context) {
	var filtro dto.HistoricoFilter
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos"))
		return
	}
	resp, err := h.svc.Historico(c.Request.Context(), atorDe(c), filtro)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Detalhes godoc
// @Summary Detalhes e conciliação de um caixa
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {object} dto.DetalheCaixaResponse
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixas/{id}/detalhes [get]
func (h *CaixaHandler) Detalhes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Detalhes(c.Request.Context(), atorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EditarAjustes godoc
// @Summary Edita valores apurados/ajustados de um caixa (admin)
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Param body body dto.EditarCaixaRequest true "Campos a sobrescrever"
// @Success 200 {object} dto.CaixaResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/caixas/{id} [patch]
func (h *CaixaHandler) EditarAjustes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.EditarCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditarAjustes(c.Request.Context(), atorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioPDF godoc
// @Summary Gera o relatório de fechamento em PDF
// @Tags caixa
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID do caixa"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/caixas/{id}/relatorio.pdf [get]
func (h *CaixaHandler) RelatorioPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	caixa, err := h.svc.BuscarModelo(c.Request.Context(), atorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := infra.GenerateFechamentoPDF(caixa, h.storagePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "fechamento_"+id.String()+".pdf")
}
