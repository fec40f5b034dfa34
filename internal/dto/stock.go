package dto

import (
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

// StockAdjustmentRequest is a manual stock movement (restock, damage, correction).
type StockAdjustmentRequest struct {
	Delta      int               `json:"delta" binding:"required"`
	ChangeType domain.ChangeType `json:"changeType" binding:"required,changetype"`
	Notes      *string           `json:"notes"`
}

// StockLevelRequest records the result of a physical stock count.
type StockLevelRequest struct {
	CountedQuantity *int    `json:"countedQuantity" binding:"required,min=0"`
	Notes           *string `json:"notes"`
}

// StockMutationResponse is the product after a stock change and the ledger row written for it.
type StockMutationResponse struct {
	Product        ProductResponse          `json:"product"`
	Entry          domain.StockHistoryEntry `json:"entry"`
	RequestedDelta int                      `json:"requestedDelta"`
	Clamped        bool                     `json:"clamped"`
}

// ToStockMutationResponse converts a domain.StockMutation to its DTO.
func ToStockMutationResponse(m *domain.StockMutation) StockMutationResponse {
	return StockMutationResponse{
		Product:        ToProductResponse(&m.Product),
		Entry:          m.Entry,
		RequestedDelta: m.RequestedDelta,
		Clamped:        m.Clamped,
	}
}

// ListStockHistoryParams defines pagination for a product's ledger.
type ListStockHistoryParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListStockHistoryResponse is one page of ledger rows, newest first.
type ListStockHistoryResponse struct {
	Entries   []domain.StockHistoryEntry `json:"entries"`
	NextToken *string                    `json:"nextToken,omitempty"`
}
