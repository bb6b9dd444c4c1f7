package handler

import (
	"net/http"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VendaHandler struct{ svc service.VendaService }

func NewVendaHandler(svc service.VendaService) *VendaHandler { return &VendaHandler{svc: svc} }

// Registrar godoc
// @Summary Registra uma venda no caixa aberto do operador
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVendaRequest true "Itens e pagamento"
// @Success 201 {object} dto.VendaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/vendas [post]
func (h *VendaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), atorDe(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista vendas do dia (ou da data informada)
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param data query string false "YYYY-MM-DD"
// @Param page query int false "Página"
// @Param limit query int false "Tamanho da página"
// @Success 200 {object} dto.VendaListResponse
// @Router /v1/vendas [get]
func (h *VendaHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorID godoc
// @Summary Busca uma venda pelo ID
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.VendaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/vendas/{id} [get]
func (h *VendaHandler) BuscarPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.BuscarPorID(c.Request.Context(), atorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
