package handler

import (
	"net/http"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RelatorioHandler struct{ svc service.RelatorioService }

func NewRelatorioHandler(svc service.RelatorioService) *RelatorioHandler {
	return &RelatorioHandler{svc: svc}
}

// DashboardAdmin godoc
// @Summary Painel administrativo: totais do dia e rankings do mês
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param data query string false "YYYY-MM-DD (padrão hoje)"
// @Param vendedor_id query string false "filtra os totais do dia por vendedor"
// @Success 200 {object} dto.DashboardAdminResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/dashboard/admin [get]
func (h *RelatorioHandler) DashboardAdmin(c *gin.Context) {
	var vendedorID *uuid.UUID
	if raw := c.Query("vendedor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.New("vendedor_id inválido"))
			return
		}
		vendedorID = &id
	}
	resp, err := h.svc.DashboardAdmin(c.Request.Context(), c.Query("data"), vendedorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardFuncionario godoc
// @Summary Painel do funcionário: vendas do caixa atual ou do dia
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param data query string false "YYYY-MM-DD; sem data, cobre o caixa aberto atual"
// @Success 200 {object} dto.DashboardFuncionarioResponse
// @Router /v1/dashboard/funcionario [get]
func (h *RelatorioHandler) DashboardFuncionario(c *gin.Context) {
	resp, err := h.svc.DashboardFuncionario(c.Request.Context(), atorDe(c), c.Query("data"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
