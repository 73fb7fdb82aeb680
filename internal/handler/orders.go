package handler

import (
	"net/http"

	"lojalink/internal/apierror"
	"lojalink/internal/dto"
	"lojalink/internal/middleware"
	"lojalink/internal/model"
	"lojalink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// actorFromClaims builds the acting identity from the request's JWT.
func actorFromClaims(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{ID: id, Role: model.Role(claims.Role)}
}

// Create godoc
// @Summary      Criar pedido
// @Description  Cria um pedido ACID: desconta estoque com movimentos pareados, grava itens, pagamentos e o log de criacao.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Detalhe do pedido"
// @Success      201  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorFromClaims(c)
	resp, err := h.svc.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "Status do enum ou all"
// @Param        date      query string false "Data YYYY-MM-DD"
// @Param        seller_id query string false "UUID do vendedor"
// @Param        page      query int    false "Pagina (default 1)"
// @Param        limit     query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Detalhar pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do pedido"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeStatus godoc
// @Summary      Mudar status do pedido
// @Description  Aplica uma transicao da tabela fechada de status. 400 status desconhecido, 404 pedido inexistente, 403 perfil sem permissao, 409 transicao ilegal.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID do pedido"
// @Param        body body dto.ChangeStatusRequest true "Status de destino"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/orders/{id}/status [post]
func (h *OrdersHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ChangeStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ChangeStatus(c.Request.Context(), id, req.ToStatus, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logs godoc
// @Summary      Historico do pedido
// @Description  Trilha de auditoria append-only, mais recente primeiro.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do pedido"
// @Success      200 {array} dto.OrderLogResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/orders/{id}/logs [get]
func (h *OrdersHandler) Logs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Logs(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
