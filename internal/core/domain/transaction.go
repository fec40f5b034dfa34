package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxMode selects how the tax amount of a bill is derived.
type TaxMode string

const (
	TaxModePercentage TaxMode = "percentage"
	TaxModeManual     TaxMode = "manual"
)

// Valid reports whether m is a known tax mode.
func (m TaxMode) Valid() bool {
	return m == TaxModePercentage || m == TaxModeManual
}

// Feedback is the optional customer rating attached to a bill.
type Feedback string

const (
	FeedbackVeryGood Feedback = "very_good"
	FeedbackGood     Feedback = "good"
	FeedbackBad      Feedback = "bad"
)

// Valid reports whether f is a known feedback value.
func (f Feedback) Valid() bool {
	return f == FeedbackVeryGood || f == FeedbackGood || f == FeedbackBad
}

// LineItem is one billed line. ProductID is resolved once when the line is first saved;
// lines without it are ad hoc and never touch stock. StockApplied is the number of units
// actually taken from stock for this line.
type LineItem struct {
	ItemName     string          `json:"itemName"`
	ProductID    *int64          `json:"productId,omitempty"`
	Qty          int             `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	StockApplied int             `json:"stockApplied"`
}

// Transaction is a sales or rental bill.
type Transaction struct {
	TransactionID    int64           `json:"transactionID"`
	Variant          Variant         `json:"variant"`
	SerialNo         int64           `json:"serialNo"`
	CustomerName     string          `json:"customerName"`
	CustomerPhone    string          `json:"customerPhone"`
	CustomerAddress  string          `json:"customerAddress"`
	Items            []LineItem      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxMode          TaxMode         `json:"taxMode"`
	TaxPercentage    decimal.Decimal `json:"taxPercentage"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	TaxType          string          `json:"taxType"`
	AdvanceAmount    decimal.Decimal `json:"advanceAmount"`
	TransportFees    decimal.Decimal `json:"transportFees"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	IsPaid           bool            `json:"isPaid"`
	CustomerFeedback *Feedback       `json:"customerFeedback,omitempty"`
	FromDate         *time.Time      `json:"fromDate,omitempty"`
	ToDate           *time.Time      `json:"toDate,omitempty"`
	RentalDays       int             `json:"rentalDays"`
	AuditFields
}

// TaxValue is the input the pricing calculator expects for the bill's tax mode.
func (t Transaction) TaxValue() decimal.Decimal {
	if t.TaxMode == TaxModePercentage {
		return t.TaxPercentage
	}
	return t.TaxAmount
}

// AppliedStockByProduct sums StockApplied per linked product.
func (t Transaction) AppliedStockByProduct() map[int64]int {
	applied := make(map[int64]int)
	for _, item := range t.Items {
		if item.ProductID == nil {
			continue
		}
		applied[*item.ProductID] += item.StockApplied
	}
	return applied
}

// Stock warning codes reported next to a successful transaction operation.
const (
	WarningUnmatchedItem  = "UNMATCHED_ITEM"
	WarningStockClamped   = "STOCK_CLAMPED"
	WarningProductMissing = "PRODUCT_MISSING"
)

// StockWarning describes a line whose stock effect differed from what was asked for.
type StockWarning struct {
	Code      string `json:"code"`
	ItemName  string `json:"itemName,omitempty"`
	ProductID *int64 `json:"productId,omitempty"`
	Message   string `json:"message"`
}

// TransactionResult is a persisted transaction plus any stock warnings produced while saving it.
type TransactionResult struct {
	Transaction Transaction    `json:"transaction"`
	Warnings    []StockWarning `json:"warnings"`
}
