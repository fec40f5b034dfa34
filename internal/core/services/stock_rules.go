package services

import (
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

// checkDirection enforces the sign each change type may carry.
func checkDirection(delta int, changeType domain.ChangeType) error {
	switch changeType {
	case domain.ChangeRestock, domain.ChangeReturn:
		if delta < 0 {
			return apperrors.Invalid("%s must increase stock, got %d", changeType, delta)
		}
	case domain.ChangeSale, domain.ChangeRental, domain.ChangeDamage:
		if delta > 0 {
			return apperrors.Invalid("%s must decrease stock, got %+d", changeType, delta)
		}
	}
	return nil
}

// applyStockChange moves p's stock by delta and returns the ledger entry describing what was applied.
// Consumption changes clamp at zero and record the clamped amount; other decreases below zero fail
// without touching p.
func applyStockChange(p *domain.Product, delta int, changeType domain.ChangeType, notes *string, now time.Time) (domain.StockMutation, error) {
	if !changeType.Valid() {
		return domain.StockMutation{}, apperrors.Invalid("unknown change type %q", changeType)
	}
	if delta == 0 {
		return domain.StockMutation{}, apperrors.Invalid("quantity change cannot be zero")
	}
	if delta > domain.MaxQuantity || delta < -domain.MaxQuantity {
		return domain.StockMutation{}, apperrors.Invalid("quantity change %d is outside ±%d", delta, domain.MaxQuantity)
	}
	if err := checkDirection(delta, changeType); err != nil {
		return domain.StockMutation{}, err
	}

	previous := p.StockQuantity
	next := previous + delta
	if next > domain.MaxQuantity {
		return domain.StockMutation{}, apperrors.Invalid("stock for product %d would exceed %d", p.ProductID, domain.MaxQuantity)
	}
	clamped := false
	if next < 0 {
		if !changeType.IsConsumption() {
			return domain.StockMutation{}, apperrors.InsufficientStock(p.ProductID, previous, -delta)
		}
		next = 0
		clamped = true
	}

	switch changeType {
	case domain.ChangeSale:
		p.TotalSales = addCapped(p.TotalSales, -delta)
	case domain.ChangeRental:
		p.TotalRentals = addCapped(p.TotalRentals, -delta)
	}
	if delta > 0 {
		restocked := now
		p.LastRestocked = &restocked
	}
	p.StockQuantity = next

	return domain.StockMutation{
		Product: *p,
		Entry: domain.StockHistoryEntry{
			ProductID:        p.ProductID,
			ProductName:      p.Name,
			ChangeType:       changeType,
			QuantityChange:   next - previous,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Notes:            notes,
			CreatedAt:        now,
		},
		RequestedDelta: delta,
		Clamped:        clamped,
	}, nil
}

// addCapped grows a lifetime counter, saturating at MaxQuantity.
func addCapped(counter, units int) int {
	if units >= domain.MaxQuantity-counter {
		return domain.MaxQuantity
	}
	return counter + units
}
