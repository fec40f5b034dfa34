package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ProductType classifies a catalog entry as sold or rented out.
type ProductType string

const (
	ProductTypeSales  ProductType = "sales"
	ProductTypeRental ProductType = "rental"
)

// MaxQuantity bounds every stock level, counter and single quantity change.
// It matches the INTEGER columns of the Postgres store.
const MaxQuantity = math.MaxInt32

// DefaultMinStockLevel is the alert threshold used when a product is created without one.
const DefaultMinStockLevel = 5

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	return t == ProductTypeSales || t == ProductTypeRental
}

// Product is a catalog entry together with its current stock position.
type Product struct {
	ProductID     int64           `json:"productID"`
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"`
	Category      *string         `json:"category,omitempty"`
	ProductType   ProductType     `json:"productType"`
	StockQuantity int             `json:"stockQuantity"`
	MinStockLevel int             `json:"minStockLevel"`
	TotalSales    int             `json:"totalSales"`
	TotalRentals  int             `json:"totalRentals"`
	LastRestocked *time.Time      `json:"lastRestocked,omitempty"`
	AuditFields
}

// IsLowStock reports whether the stock is below the alert threshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity < p.MinStockLevel
}

// IsOutOfStock reports whether no units are left.
func (p Product) IsOutOfStock() bool {
	return p.StockQuantity == 0
}

// StockValue is the catalog value of the units on hand.
func (p Product) StockValue() decimal.Decimal {
	return p.Rate.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}
