package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

const defaultTopN = 5

type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvc
	stockService     portssvc.StockLedgerReaderSvc
}

func newAnalyticsHandler(as portssvc.AnalyticsSvc, ss portssvc.StockLedgerReaderSvc) *analyticsHandler {
	return &analyticsHandler{analyticsService: as, stockService: ss}
}

// RegisterAnalyticsRoutes registers dashboard and reconciliation routes.
func RegisterAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvc, stockService portssvc.StockLedgerReaderSvc) {
	h := newAnalyticsHandler(analyticsService, stockService)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("", h.getAnalytics)
		analytics.GET("/low-stock", h.lowStock)
		analytics.GET("/out-of-stock", h.outOfStock)
		analytics.GET("/top-selling", h.topSelling)
		analytics.GET("/top-rented", h.topRented)
		analytics.GET("/distribution", h.distribution)
	}
	rg.GET("/stock/reconciliation", h.reconcile)
}

// getAnalytics godoc
// @Summary Dashboard metrics
// @Description Counts, inventory value, product type distribution and top 5 rankings. May be served from cache.
// @Tags analytics
// @Produce  json
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 500 {object} handlers.ErrorResponse
// @Router /analytics [get]
func (h *analyticsHandler) getAnalytics(c *gin.Context) {
	a, err := h.analyticsService.GetAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err, "load analytics")
		return
	}
	c.JSON(http.StatusOK, dto.ToAnalyticsResponse(a))
}

// lowStock godoc
// @Summary Products below their minimum stock level
// @Tags analytics
// @Produce  json
// @Success 200 {array} dto.ProductResponse
// @Router /analytics/low-stock [get]
func (h *analyticsHandler) lowStock(c *gin.Context) {
	products, err := h.analyticsService.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "list low stock products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// outOfStock godoc
// @Summary Products with no stock
// @Tags analytics
// @Produce  json
// @Success 200 {array} dto.ProductResponse
// @Router /analytics/out-of-stock [get]
func (h *analyticsHandler) outOfStock(c *gin.Context) {
	products, err := h.analyticsService.OutOfStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "list out of stock products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

func bindTopN(c *gin.Context) (int, error) {
	var params dto.TopProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return 0, bindError(err)
	}
	if params.N == 0 {
		return defaultTopN, nil
	}
	return params.N, nil
}

// topSelling godoc
// @Summary Best selling products
// @Tags analytics
// @Produce  json
// @Param   n query int false "Number of products (default 5, max 100)"
// @Success 200 {array} dto.ProductResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Router /analytics/top-selling [get]
func (h *analyticsHandler) topSelling(c *gin.Context) {
	n, err := bindTopN(c)
	if err != nil {
		respondError(c, err, "rank products")
		return
	}
	products, err := h.analyticsService.TopSelling(c.Request.Context(), n)
	if err != nil {
		respondError(c, err, "rank products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// topRented godoc
// @Summary Most rented products
// @Tags analytics
// @Produce  json
// @Param   n query int false "Number of products (default 5, max 100)"
// @Success 200 {array} dto.ProductResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Router /analytics/top-rented [get]
func (h *analyticsHandler) topRented(c *gin.Context) {
	n, err := bindTopN(c)
	if err != nil {
		respondError(c, err, "rank products")
		return
	}
	products, err := h.analyticsService.TopRented(c.Request.Context(), n)
	if err != nil {
		respondError(c, err, "rank products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// distribution godoc
// @Summary Product count per product type
// @Tags analytics
// @Produce  json
// @Success 200 {object} map[string]int
// @Router /analytics/distribution [get]
func (h *analyticsHandler) distribution(c *gin.Context) {
	dist, err := h.analyticsService.Distribution(c.Request.Context())
	if err != nil {
		respondError(c, err, "load distribution")
		return
	}
	c.JSON(http.StatusOK, dist)
}

// reconcile godoc
// @Summary Compare stock with the ledger
// @Description Lists products whose stock quantity differs from the sum of their history entries.
// @Tags stock
// @Produce  json
// @Success 200 {object} domain.ReconciliationReport
// @Failure 500 {object} handlers.ErrorResponse
// @Router /stock/reconciliation [get]
func (h *analyticsHandler) reconcile(c *gin.Context) {
	report, err := h.stockService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err, "reconcile stock")
		return
	}
	c.JSON(http.StatusOK, report)
}
