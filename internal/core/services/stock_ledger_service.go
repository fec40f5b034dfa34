package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/SscSPs/shop_ledger_app/internal/utils/pagination"
)

// stockLedgerService owns every stock mutation. Other services reach it through mutate so that
// product rows, counters and history entries are always written together.
type stockLedgerService struct {
	BaseService
	store portsrepo.LedgerStore
	now   func() time.Time
}

func newStockLedgerService(store portsrepo.LedgerStore) *stockLedgerService {
	return &stockLedgerService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewStockLedgerService creates a new StockLedgerService.
func NewStockLedgerService(store portsrepo.LedgerStore) portssvc.StockLedgerSvcFacade {
	return newStockLedgerService(store)
}

var _ portssvc.StockLedgerSvcFacade = (*stockLedgerService)(nil)

// mutate applies a change to a product already locked by tx and persists the product and its history entry.
func (s *stockLedgerService) mutate(ctx context.Context, tx portsrepo.LedgerTx, p *domain.Product, delta int, changeType domain.ChangeType, notes *string) (domain.StockMutation, error) {
	m, err := applyStockChange(p, delta, changeType, notes, s.now())
	if err != nil {
		return domain.StockMutation{}, err
	}
	if err := tx.SaveProductStock(ctx, p); err != nil {
		return domain.StockMutation{}, err
	}
	if err := tx.AppendStockHistory(ctx, &m.Entry); err != nil {
		return domain.StockMutation{}, err
	}
	m.Product = *p
	return m, nil
}

func (s *stockLedgerService) lockOne(ctx context.Context, tx portsrepo.LedgerTx, productID int64) (*domain.Product, error) {
	locked, err := tx.LockProducts(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	p, ok := locked[productID]
	if !ok {
		return nil, apperrors.NotFound("product %d not found", productID)
	}
	return p, nil
}

// ApplyDelta moves one product's stock and records the change.
func (s *stockLedgerService) ApplyDelta(ctx context.Context, productID int64, delta int, changeType domain.ChangeType, notes *string) (*domain.StockMutation, error) {
	var result domain.StockMutation
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		p, err := s.lockOne(ctx, tx, productID)
		if err != nil {
			return err
		}
		result, err = s.mutate(ctx, tx, p, delta, changeType, notes)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to apply stock change",
			slog.Int64("product_id", productID), slog.Int("delta", delta), slog.String("change_type", string(changeType)))
		return nil, err
	}

	s.LogInfo(ctx, "Stock changed",
		slog.Int64("product_id", productID),
		slog.String("change_type", string(changeType)),
		slog.Int("previous", result.Entry.PreviousQuantity),
		slog.Int("new", result.Entry.NewQuantity),
	)
	if result.Clamped {
		s.LogWarn(ctx, "Stock decrease clamped at zero",
			slog.Int64("product_id", productID), slog.Int("requested", delta), slog.Int("applied", result.Entry.QuantityChange))
	}
	return &result, nil
}

// SetStockLevel records a stock count. A count equal to the recorded stock writes nothing.
func (s *stockLedgerService) SetStockLevel(ctx context.Context, productID int64, countedQuantity int, notes *string) (*domain.StockMutation, error) {
	if countedQuantity < 0 || countedQuantity > domain.MaxQuantity {
		return nil, apperrors.Invalid("countedQuantity must be between 0 and %d", domain.MaxQuantity)
	}

	var result domain.StockMutation
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		p, err := s.lockOne(ctx, tx, productID)
		if err != nil {
			return err
		}
		delta := countedQuantity - p.StockQuantity
		if delta == 0 {
			result = domain.StockMutation{Product: *p}
			return nil
		}
		if notes == nil {
			n := fmt.Sprintf("stock count: %d recorded, %d counted", p.StockQuantity, countedQuantity)
			notes = &n
		}
		result, err = s.mutate(ctx, tx, p, delta, domain.ChangeInventory, notes)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to set stock level", slog.Int64("product_id", productID))
		return nil, err
	}
	return &result, nil
}

// ListStockHistory pages through a product's ledger newest first. History of deleted products stays readable.
func (s *stockLedgerService) ListStockHistory(ctx context.Context, productID int64, params dto.ListStockHistoryParams) (*dto.ListStockHistoryResponse, error) {
	limit := pagination.ClampLimit(params.Limit)

	var cursor *portsrepo.HistoryCursor
	if params.NextToken != nil && *params.NextToken != "" {
		createdAt, entryID, err := pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, apperrors.Invalid("invalid nextToken: %v", err)
		}
		cursor = &portsrepo.HistoryCursor{CreatedAt: createdAt, EntryID: entryID}
	}

	entries, err := s.store.ListStockHistory(ctx, productID, limit+1, cursor)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stock history", slog.Int64("product_id", productID))
		return nil, err
	}

	resp := &dto.ListStockHistoryResponse{Entries: entries}
	if len(entries) > limit {
		resp.Entries = entries[:limit]
		last := resp.Entries[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
		resp.NextToken = &token
	}
	return resp, nil
}

// Reconcile reports products whose stock differs from the sum of their ledger entries.
func (s *stockLedgerService) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	products, err := s.store.ListProducts(ctx, portsrepo.ProductFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list products for reconciliation")
		return nil, err
	}
	sums, err := s.store.SumStockChanges(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum stock history for reconciliation")
		return nil, err
	}

	report := &domain.ReconciliationReport{
		CheckedProducts: len(products),
		Mismatches:      []domain.ReconciliationMismatch{},
		CheckedAt:       s.now(),
	}
	for _, p := range products {
		if ledger := sums[p.ProductID]; ledger != p.StockQuantity {
			report.Mismatches = append(report.Mismatches, domain.ReconciliationMismatch{
				ProductID:      p.ProductID,
				ProductName:    p.Name,
				StockQuantity:  p.StockQuantity,
				LedgerQuantity: ledger,
			})
			s.LogWarn(ctx, "Stock does not match ledger",
				slog.Int64("product_id", p.ProductID), slog.Int("stock", p.StockQuantity), slog.Int("ledger", ledger))
		}
	}
	return report, nil
}
