package domain

import "time"

// ChangeType labels why a product's stock moved.
type ChangeType string

const (
	ChangeRestock    ChangeType = "restock"
	ChangeAdjustment ChangeType = "adjustment"
	ChangeSale       ChangeType = "sale"
	ChangeRental     ChangeType = "rental"
	ChangeReturn     ChangeType = "return"
	ChangeDamage     ChangeType = "damage"
	ChangeInventory  ChangeType = "inventory"
)

// Valid reports whether c is a known change type.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeRestock, ChangeAdjustment, ChangeSale, ChangeRental, ChangeReturn, ChangeDamage, ChangeInventory:
		return true
	}
	return false
}

// IsConsumption is true for the automatic sale/rental paths, which clamp at zero instead of failing.
func (c ChangeType) IsConsumption() bool {
	return c == ChangeSale || c == ChangeRental
}

// StockHistoryEntry is one immutable row of the stock ledger.
// NewQuantity always equals PreviousQuantity + QuantityChange.
type StockHistoryEntry struct {
	EntryID          int64      `json:"entryID"`
	ProductID        int64      `json:"productID"`
	ProductName      string     `json:"productName"`
	ChangeType       ChangeType `json:"changeType"`
	QuantityChange   int        `json:"quantityChange"`
	PreviousQuantity int        `json:"previousQuantity"`
	NewQuantity      int        `json:"newQuantity"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// StockMutation is the outcome of one accepted stock change.
type StockMutation struct {
	Product        Product           `json:"product"`
	Entry          StockHistoryEntry `json:"entry"`
	RequestedDelta int               `json:"requestedDelta"`
	Clamped        bool              `json:"clamped"`
}

// ReconciliationMismatch is a product whose stock disagrees with the sum of its ledger entries.
type ReconciliationMismatch struct {
	ProductID      int64  `json:"productID"`
	ProductName    string `json:"productName"`
	StockQuantity  int    `json:"stockQuantity"`
	LedgerQuantity int    `json:"ledgerQuantity"`
}

// ReconciliationReport summarises a ledger consistency check.
type ReconciliationReport struct {
	CheckedProducts int                      `json:"checkedProducts"`
	Mismatches      []ReconciliationMismatch `json:"mismatches"`
	CheckedAt       time.Time                `json:"checkedAt"`
}
