package handler

// storefront.go
// Public endpoints consumed by the anonymous storefront. No JWT. The catalog
// is served from a short-lived Redis cache because it is by far the hottest
// read of the system.

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lojalink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogCacheKey = "cache:catalog"
	catalogCacheTTL = 60 * time.Second
)

type StorefrontHandler struct {
	products service.ProductService
	reports  service.ReportService
	rdb      *redis.Client
}

func NewStorefrontHandler(products service.ProductService, reports service.ReportService, rdb *redis.Client) *StorefrontHandler {
	return &StorefrontHandler{products: products, reports: reports, rdb: rdb}
}

// Catalog godoc
// @Summary      Catalogo publico
// @Description  Produtos ativos sem custo nem contagem de estoque. Cache Redis de 60s.
// @Tags         public
// @Produce      json
// @Success      200 {array} dto.CatalogItem
// @Router       /api/public/catalog [get]
func (h *StorefrontHandler) Catalog(c *gin.Context) {
	ctx := c.Request.Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, catalogCacheKey).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	items, err := h.products.Catalog(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := h.rdb.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("storefront: failed to cache catalog")
			}
		}
	}
	c.JSON(http.StatusOK, items)
}

// KPIs godoc
// @Summary      KPIs publicos
// @Description  Mesmo agregado do painel, exposto para a vitrine.
// @Tags         public
// @Produce      json
// @Param        from query string false "Data inicial YYYY-MM-DD"
// @Param        to   query string false "Data final YYYY-MM-DD"
// @Success      200 {object} dto.KPIResponse
// @Router       /api/public/kpis [get]
func (h *StorefrontHandler) KPIs(c *gin.Context) {
	rng, ok := bindRange(c)
	if !ok {
		return
	}
	resp, err := h.reports.KPIs(c.Request.Context(), rng)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentOrders godoc
// @Summary      Pedidos recentes
// @Description  Feed publico dos ultimos pedidos. Pedidos importados expandem as descricoes originais dos itens.
// @Tags         public
// @Produce      json
// @Param        limit query int false "Quantidade (default 20, max 500)"
// @Success      200 {object} dto.RecentOrdersResponse
// @Router       /api/public/recent-orders [get]
func (h *StorefrontHandler) RecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := h.reports.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InvalidateCatalogCache drops the cached catalog. Wired as gin middleware on
// product mutations so the storefront converges within one request.
func (h *StorefrontHandler) InvalidateCatalogCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if h.rdb == nil || c.Writer.Status() >= 400 {
			return
		}
		if err := h.rdb.Del(c.Request.Context(), catalogCacheKey).Err(); err != nil {
			log.Warn().Err(err).Msg("storefront: failed to invalidate catalog cache")
		}
	}
}
