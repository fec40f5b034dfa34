package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/SscSPs/shop_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// productHandler handles HTTP requests for the catalog and its stock ledger.
type productHandler struct {
	catalogService portssvc.CatalogSvcFacade
	stockService   portssvc.StockLedgerSvcFacade
}

func newProductHandler(cs portssvc.CatalogSvcFacade, ss portssvc.StockLedgerSvcFacade) *productHandler {
	return &productHandler{
		catalogService: cs,
		stockService:   ss,
	}
}

// RegisterProductRoutes registers catalog and stock routes.
func RegisterProductRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade, stockService portssvc.StockLedgerSvcFacade) {
	h := newProductHandler(catalogService, stockService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:productID", h.getProduct)
		products.PUT("/:productID", h.updateProduct)
		products.DELETE("/:productID", h.deleteProduct)
		products.POST("/:productID/stock", h.adjustStock)
		products.PUT("/:productID/stock-level", h.setStockLevel)
		products.GET("/:productID/history", h.listStockHistory)
	}
}

// createProduct godoc
// @Summary Create a product
// @Description Adds a catalog product. A positive openingStock is booked as an inventory entry.
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid input"
// @Failure 409 {object} handlers.ErrorResponse "Product name already exists"
// @Failure 500 {object} handlers.ErrorResponse "Failed to create product"
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "create product")
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce  json
// @Param   productType query string false "sales or rental"
// @Param   category query string false "Category filter"
// @Success 200 {array} dto.ProductResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 500 {object} handlers.ErrorResponse
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	var params dto.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "list products")
		return
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponses(products))
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce  json
// @Param   productID path int true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} handlers.ErrorResponse "Product not found"
// @Router /products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		respondError(c, err, "get product")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Update a product
// @Description Edits catalog fields. Stock is only changed through the stock endpoints.
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   product body dto.UpdateProductRequest true "Fields to change"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Failure 409 {object} handlers.ErrorResponse
// @Router /products/{productID} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		respondError(c, err, "update product")
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "update product")
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		respondError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// deleteProduct godoc
// @Summary Delete a product
// @Description Removes the product. Its stock history is kept.
// @Tags products
// @Param   productID path int true "Product ID"
// @Success 204 "No Content"
// @Failure 404 {object} handlers.ErrorResponse
// @Router /products/{productID} [delete]
func (h *productHandler) deleteProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		respondError(c, err, "delete product")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// adjustStock godoc
// @Summary Move stock
// @Description Applies a signed stock change (restock, adjustment, damage, return, ...) and records it in the ledger.
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   change body dto.StockAdjustmentRequest true "Stock change"
// @Success 200 {object} dto.StockMutationResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Failure 422 {object} handlers.ErrorResponse "Insufficient stock"
// @Router /products/{productID}/stock [post]
func (h *productHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		respondError(c, err, "adjust stock")
		return
	}
	var req dto.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "adjust stock")
		return
	}

	logger.Info("Received stock change", slog.Int64("product_id", productID), slog.Int("delta", req.Delta), slog.String("change_type", string(req.ChangeType)))
	mutation, err := h.stockService.ApplyDelta(c.Request.Context(), productID, req.Delta, req.ChangeType, req.Notes)
	if err != nil {
		respondError(c, err, "adjust stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockMutationResponse(mutation))
}

// setStockLevel godoc
// @Summary Record a stock count
// @Description Books the difference between the counted and recorded quantity as an inventory entry.
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   count body dto.StockLevelRequest true "Counted quantity"
// @Success 200 {object} dto.StockMutationResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /products/{productID}/stock-level [put]
func (h *productHandler) setStockLevel(c *gin.Context) {
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		respondError(c, err, "set stock level")
		return
	}
	var req dto.StockLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "set stock level")
		return
	}

	mutation, err := h.stockService.SetStockLevel(c.Request.Context(), productID, *req.CountedQuantity, req.Notes)
	if err != nil {
		respondError(c, err, "set stock level")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockMutationResponse(mutation))
}

// listStockHistory godoc
// @Summary List a product's stock history
// @Tags stock
// @Produce  json
// @Param   productID path int true "Product ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListStockHistoryResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Router /products/{productID}/history [get]
func (h *productHandler) listStockHistory(c *gin.Context) {
	productID, err := parseIDParam(c, "productID")
	if err != nil {
		respondError(c, err, "list stock history")
		return
	}
	var params dto.ListStockHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "list stock history")
		return
	}

	resp, err := h.stockService.ListStockHistory(c.Request.Context(), productID, params)
	if err != nil {
		respondError(c, err, "list stock history")
		return
	}
	if resp.Entries == nil {
		resp.Entries = []domain.StockHistoryEntry{}
	}
	c.JSON(http.StatusOK, resp)
}
