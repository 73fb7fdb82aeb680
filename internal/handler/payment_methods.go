package handler

import (
	"net/http"

	"lojalink/internal/apierror"
	"lojalink/internal/dto"
	"lojalink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentMethodsHandler struct{ svc service.PaymentMethodService }

func NewPaymentMethodsHandler(svc service.PaymentMethodService) *PaymentMethodsHandler {
	return &PaymentMethodsHandler{svc: svc}
}

// Create godoc
// @Summary      Criar forma de pagamento
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PaymentMethodRequest true "Nome"
// @Success      201  {object} dto.PaymentMethodResponse
// @Router       /api/payment-methods [post]
func (h *PaymentMethodsHandler) Create(c *gin.Context) {
	var req dto.PaymentMethodRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Listar formas de pagamento ativas
// @Tags         payment-methods
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PaymentMethodResponse
// @Router       /api/payment-methods [get]
func (h *PaymentMethodsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Desativar forma de pagamento
// @Tags         payment-methods
// @Security     BearerAuth
// @Param        id path string true "UUID da forma de pagamento"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/payment-methods/{id} [delete]
func (h *PaymentMethodsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
