package handler

import (
	"net/http"
	"strconv"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProdutoHandler struct{ svc service.ProdutoService }

func NewProdutoHandler(svc service.ProdutoService) *ProdutoHandler {
	return &ProdutoHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastra um produto no catálogo
// @Tags produtos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarProdutoRequest true "Dados do produto"
// @Success 201 {object} dto.ProdutoResponse
// @Router /v1/produtos [post]
func (h *ProdutoHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista produtos com filtros por nome e categoria
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param nome query string false "Busca por nome (ilike)"
// @Param categoria query string false "Categoria exata"
// @Success 200 {object} dto.ProdutoListResponse
// @Router /v1/produtos [get]
func (h *ProdutoHandler) Listar(c *gin.Context) {
	var filter dto.ProdutoFilter
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
// @Summary Busca um produto pelo ID
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 200 {object} dto.ProdutoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/produtos/{id} [get]
func (h *ProdutoHandler) BuscarPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.BuscarPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Atualiza dados de um produto
// @Tags produtos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Param body body dto.AtualizarProdutoRequest true "Campos a atualizar"
// @Success 200 {object} dto.ProdutoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/produtos/{id} [put]
func (h *ProdutoHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir godoc
// @Summary Remove um produto sem vendas registradas
// @Tags produtos
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/produtos/{id} [delete]
func (h *ProdutoHandler) Excluir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EstoqueBaixo godoc
// @Summary Lista produtos com estoque abaixo do limite
// @Tags produtos
// @Produce json
// @Security BearerAuth
// @Param limite query int false "Limite de estoque (padrão 10)"
// @Success 200 {array} dto.EstoqueBaixoItem
// @Router /v1/produtos/estoque-baixo [get]
func (h *ProdutoHandler) EstoqueBaixo(c *gin.Context) {
	limite, _ := strconv.Atoi(c.DefaultQuery("limite", "0"))
	resp, err := h.svc.EstoqueBaixo(c.Request.Context(), limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
