package domain

import (
	"fmt"
	"time"
)

// AuditFields holds standard audit timestamps for persisted entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Variant is the transaction class; serial numbers are allocated per variant.
type Variant string

const (
	VariantSales  Variant = "sales"
	VariantRental Variant = "rental"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantSales || v == VariantRental
}

// ConsumptionChangeType is the stock change type recorded when a transaction of this variant consumes stock.
func (v Variant) ConsumptionChangeType() ChangeType {
	if v == VariantRental {
		return ChangeRental
	}
	return ChangeSale
}

// ParseVariant converts a path or query value into a Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown transaction variant %q", s)
	}
	return v, nil
}
