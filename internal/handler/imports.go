package handler

import (
	"net/http"

	"lojalink/internal/dto"
	"lojalink/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportsHandler struct{ svc service.ImportService }

func NewImportsHandler(svc service.ImportService) *ImportsHandler {
	return &ImportsHandler{svc: svc}
}

// ImportSales godoc
// @Summary      Importar vendas historicas
// @Description  Processa o lote em uma unica transacao: ou todas as linhas entram ou nenhuma. Modo replace remove os pedidos importados anteriores antes de inserir.
// @Tags         imports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ImportRequest true "Lote de vendas (append | replace)"
// @Success      200  {object} dto.ImportResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/imports [post]
func (h *ImportsHandler) ImportSales(c *gin.Context) {
	var req dto.ImportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Import(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
