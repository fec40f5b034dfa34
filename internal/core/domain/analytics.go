package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Analytics is a point-in-time snapshot of catalog and stock metrics.
type Analytics struct {
	TotalProducts   int                 `json:"totalProducts"`
	LowStockCount   int                 `json:"lowStockCount"`
	OutOfStockCount int                 `json:"outOfStockCount"`
	InventoryValue  decimal.Decimal     `json:"inventoryValue"`
	Distribution    map[ProductType]int `json:"distribution"`
	TopSelling      []Product           `json:"topSelling"`
	TopRented       []Product           `json:"topRented"`
	GeneratedAt     time.Time           `json:"generatedAt"`
}
