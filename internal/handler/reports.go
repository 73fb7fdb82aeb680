package handler

import (
	"net/http"
	"strconv"

	"lojalink/internal/apierror"
	"lojalink/internal/dto"
	"lojalink/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func bindRange(c *gin.Context) (dto.DateRange, bool) {
	var rng dto.DateRange
	if err := c.ShouldBindQuery(&rng); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return rng, false
	}
	return rng, true
}

// KPIs godoc
// @Summary      KPIs de vendas
// @Description  Faturamento, pedidos, ticket medio e ranking de vendedores. Pedidos cancelados nunca contam.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Data inicial YYYY-MM-DD"
// @Param        to   query string false "Data final YYYY-MM-DD"
// @Success      200 {object} dto.KPIResponse
// @Router       /api/reports/kpis [get]
func (h *ReportsHandler) KPIs(c *gin.Context) {
	rng, ok := bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.KPIs(c.Request.Context(), rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopSellers godoc
// @Summary      Ranking de vendedores
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "Data inicial YYYY-MM-DD"
// @Param        to    query string false "Data final YYYY-MM-DD"
// @Param        limit query int    false "Tamanho do ranking (default 5)"
// @Success      200 {array} dto.SellerTotal
// @Router       /api/reports/sellers [get]
func (h *ReportsHandler) TopSellers(c *gin.Context) {
	rng, ok := bindRange(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := h.svc.TopSellers(c.Request.Context(), rng, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByPaymentMethod godoc
// @Summary      Vendas por forma de pagamento
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Data inicial YYYY-MM-DD"
// @Param        to   query string false "Data final YYYY-MM-DD"
// @Success      200 {array} dto.PaymentMethodTotal
// @Router       /api/reports/payment-methods [get]
func (h *ReportsHandler) ByPaymentMethod(c *gin.Context) {
	rng, ok := bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.ByPaymentMethod(c.Request.Context(), rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByProduct godoc
// @Summary      Vendas por produto
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Data inicial YYYY-MM-DD"
// @Param        to   query string false "Data final YYYY-MM-DD"
// @Success      200 {array} dto.ProductTotal
// @Router       /api/reports/products [get]
func (h *ReportsHandler) ByProduct(c *gin.Context) {
	rng, ok := bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.ByProduct(c.Request.Context(), rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByDay godoc
// @Summary      Vendas por dia
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Data inicial YYYY-MM-DD"
// @Param        to   query string false "Data final YYYY-MM-DD"
// @Success      200 {array} dto.DailyTotal
// @Router       /api/reports/daily [get]
func (h *ReportsHandler) ByDay(c *gin.Context) {
	rng, ok := bindRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.ByDay(c.Request.Context(), rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
