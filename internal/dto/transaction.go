package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one billed line as sent by the client.
// ProductID links the line to a catalog product; without it the line is matched by exact name.
type LineItemRequest struct {
	ItemName  string          `json:"itemName"`
	ProductID *int64          `json:"productId"`
	Qty       int             `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
}

// CreateTransactionRequest defines the data needed to create a sales or rental bill.
// Required fields are checked by the service so each failure carries its own error code.
type CreateTransactionRequest struct {
	CustomerName     string            `json:"customerName"`
	CustomerPhone    string            `json:"customerPhone"`
	CustomerAddress  string            `json:"customerAddress"`
	Items            []LineItemRequest `json:"items"`
	TaxMode          *domain.TaxMode   `json:"taxMode" binding:"omitempty,oneof=percentage manual"`
	TaxPercentage    *decimal.Decimal  `json:"taxPercentage"`
	TaxAmount        *decimal.Decimal  `json:"taxAmount"`
	TaxType          string            `json:"taxType"`
	AdvanceAmount    decimal.Decimal   `json:"advanceAmount"`
	TransportFees    decimal.Decimal   `json:"transportFees"`
	IsPaid           bool              `json:"isPaid"`
	CustomerFeedback *string           `json:"customerFeedback" binding:"omitempty,feedback"`
	FromDate         *time.Time        `json:"fromDate"`
	ToDate           *time.Time        `json:"toDate"`
}

// UpdateTransactionRequest carries a partial edit; nil fields keep their stored value.
// ClearRentalDates drops both rental dates, turning the bill into an open-ended rental.
type UpdateTransactionRequest struct {
	CustomerName     *string            `json:"customerName"`
	CustomerPhone    *string            `json:"customerPhone"`
	CustomerAddress  *string            `json:"customerAddress"`
	Items            *[]LineItemRequest `json:"items"`
	TaxMode          *domain.TaxMode    `json:"taxMode" binding:"omitempty,oneof=percentage manual"`
	TaxPercentage    *decimal.Decimal   `json:"taxPercentage"`
	TaxAmount        *decimal.Decimal   `json:"taxAmount"`
	TaxType          *string            `json:"taxType"`
	AdvanceAmount    *decimal.Decimal   `json:"advanceAmount"`
	TransportFees    *decimal.Decimal   `json:"transportFees"`
	IsPaid           *bool              `json:"isPaid"`
	CustomerFeedback *string            `json:"customerFeedback" binding:"omitempty,feedback"`
	FromDate         *time.Time         `json:"fromDate"`
	ToDate           *time.Time         `json:"toDate"`
	ClearRentalDates bool               `json:"clearRentalDates"`
}

// TransactionResponse defines the data returned for a bill.
type TransactionResponse struct {
	TransactionID    int64             `json:"transactionID"`
	Variant          domain.Variant    `json:"variant"`
	SerialNo         int64             `json:"serialNo"`
	CustomerName     string            `json:"customerName"`
	CustomerPhone    string            `json:"customerPhone"`
	CustomerAddress  string            `json:"customerAddress"`
	Items            []domain.LineItem `json:"items"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	TaxMode          domain.TaxMode    `json:"taxMode"`
	TaxPercentage    decimal.Decimal   `json:"taxPercentage"`
	TaxAmount        decimal.Decimal   `json:"taxAmount"`
	TaxType          string            `json:"taxType"`
	AdvanceAmount    decimal.Decimal   `json:"advanceAmount"`
	TransportFees    decimal.Decimal   `json:"transportFees"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	IsPaid           bool              `json:"isPaid"`
	CustomerFeedback *domain.Feedback  `json:"customerFeedback,omitempty"`
	FromDate         *time.Time        `json:"fromDate,omitempty"`
	ToDate           *time.Time        `json:"toDate,omitempty"`
	RentalDays       int               `json:"rentalDays"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastUpdatedAt    time.Time         `json:"lastUpdatedAt"`
}

// TransactionResultResponse is a saved bill plus the stock warnings raised while saving it.
type TransactionResultResponse struct {
	Transaction TransactionResponse   `json:"transaction"`
	Warnings    []domain.StockWarning `json:"warnings"`
}

// DeleteTransactionResponse confirms a deletion and lists any stock that could not be returned.
type DeleteTransactionResponse struct {
	Deleted  bool                  `json:"deleted"`
	Warnings []domain.StockWarning `json:"warnings"`
}

// ListTransactionsParams defines pagination for bill listings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of bills, newest serial first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	items := t.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		Variant:          t.Variant,
		SerialNo:         t.SerialNo,
		CustomerName:     t.CustomerName,
		CustomerPhone:    t.CustomerPhone,
		CustomerAddress:  t.CustomerAddress,
		Items:            items,
		Subtotal:         t.Subtotal,
		TaxMode:          t.TaxMode,
		TaxPercentage:    t.TaxPercentage,
		TaxAmount:        t.TaxAmount,
		TaxType:          t.TaxType,
		AdvanceAmount:    t.AdvanceAmount,
		TransportFees:    t.TransportFees,
		TotalAmount:      t.TotalAmount,
		IsPaid:           t.IsPaid,
		CustomerFeedback: t.CustomerFeedback,
		FromDate:         t.FromDate,
		ToDate:           t.ToDate,
		RentalDays:       t.RentalDays,
		CreatedAt:        t.CreatedAt,
		LastUpdatedAt:    t.LastUpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToTransactionResultResponse converts a domain.TransactionResult to its DTO.
func ToTransactionResultResponse(r *domain.TransactionResult) TransactionResultResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []domain.StockWarning{}
	}
	return TransactionResultResponse{
		Transaction: ToTransactionResponse(&r.Transaction),
		Warnings:    warnings,
	}
}
