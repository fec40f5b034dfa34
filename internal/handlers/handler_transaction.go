package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/SscSPs/shop_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for sales and rental bills.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// RegisterTransactionRoutes registers bill routes. :variant is either sales or rental.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions/:variant")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.PUT("/:transactionID", h.updateTransaction)
		txns.DELETE("/:transactionID", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Create a bill
// @Description Prices the bill, allocates its serial number and consumes stock for linked items in one unit of work.
// @Description Stock outcomes that differ from the request are listed in warnings.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   variant path string true "sales or rental"
// @Param   Idempotency-Key header string false "Replays the first result for a repeated key"
// @Param   transaction body dto.CreateTransactionRequest true "Bill details"
// @Success 201 {object} dto.TransactionResultResponse
// @Failure 400 {object} handlers.ErrorResponse "MISSING_REQUIRED_FIELD, INVALID_ITEMS_FORMAT or VALIDATION"
// @Failure 409 {object} handlers.ErrorResponse "Serial conflict after retries"
// @Failure 500 {object} handlers.ErrorResponse
// @Router /transactions/{variant} [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	variant, err := parseVariantParam(c)
	if err != nil {
		respondError(c, err, "create transaction")
		return
	}
	key, present, valid := middleware.GetIdempotencyKey(c)
	if present && !valid {
		respondError(c, apperrors.Invalid("Idempotency-Key is too long"), "create transaction")
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "create transaction")
		return
	}

	logger.Info("Received request to create transaction",
		slog.String("variant", string(variant)),
		slog.Int("items", len(req.Items)),
		slog.Bool("idempotent", present))

	result, err := h.transactionService.CreateTransaction(c.Request.Context(), variant, req, key)
	if err != nil {
		respondError(c, err, "create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResultResponse(result))
}

// listTransactions godoc
// @Summary List bills
// @Description Newest serial first.
// @Tags transactions
// @Produce  json
// @Param   variant path string true "sales or rental"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Router /transactions/{variant} [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	variant, err := parseVariantParam(c)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, bindError(err), "list transactions")
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), variant, params)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	if resp.Transactions == nil {
		resp.Transactions = []dto.TransactionResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a bill
// @Tags transactions
// @Produce  json
// @Param   variant path string true "sales or rental"
// @Param   transactionID path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /transactions/{variant}/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	variant, err := parseVariantParam(c)
	if err != nil {
		respondError(c, err, "get transaction")
		return
	}
	id, err := parseIDParam(c, "transactionID")
	if err != nil {
		respondError(c, err, "get transaction")
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), variant, id)
	if err != nil {
		respondError(c, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a bill
// @Description Partial edit. The serial number is kept; when items change only the stock difference is moved.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   variant path string true "sales or rental"
// @Param   transactionID path int true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResultResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /transactions/{variant}/{transactionID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	variant, err := parseVariantParam(c)
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}
	id, err := parseIDParam(c, "transactionID")
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err), "update transaction")
		return
	}

	result, err := h.transactionService.UpdateTransaction(c.Request.Context(), variant, id, req)
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResultResponse(result))
}

// deleteTransaction godoc
// @Summary Delete a bill
// @Description Returns the stock the bill consumed, then removes it. Its serial number is not reused.
// @Tags transactions
// @Produce  json
// @Param   variant path string true "sales or rental"
// @Param   transactionID path int true "Transaction ID"
// @Success 200 {object} dto.DeleteTransactionResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /transactions/{variant}/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	variant, err := parseVariantParam(c)
	if err != nil {
		respondError(c, err, "delete transaction")
		return
	}
	id, err := parseIDParam(c, "transactionID")
	if err != nil {
		respondError(c, err, "delete transaction")
		return
	}

	warnings, err := h.transactionService.DeleteTransaction(c.Request.Context(), variant, id)
	if err != nil {
		respondError(c, err, "delete transaction")
		return
	}
	if warnings == nil {
		warnings = []domain.StockWarning{}
	}
	c.JSON(http.StatusOK, dto.DeleteTransactionResponse{Deleted: true, Warnings: warnings})
}
