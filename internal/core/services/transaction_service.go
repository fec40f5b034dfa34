package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/SscSPs/shop_ledger_app/internal/utils"
	"github.com/SscSPs/shop_ledger_app/internal/utils/billing"
	"github.com/SscSPs/shop_ledger_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultSerialMaxRetries = 3

type transactionService struct {
	BaseService
	store       portsrepo.LedgerStore
	stock       *stockLedgerService
	serials     *serialAllocator
	phoneRegion string
	maxRetries  int
	idempotency portsrepo.IdempotencyStore
	idemTTL     time.Duration
}

// TransactionServiceOption configures optional transaction behaviour.
type TransactionServiceOption func(*transactionService)

// WithPhoneRegion validates and normalises customer phones for region (ISO 3166 code).
func WithPhoneRegion(region string) TransactionServiceOption {
	return func(s *transactionService) {
		s.phoneRegion = strings.ToUpper(strings.TrimSpace(region))
	}
}

// WithMaxRetries bounds how often a create is retried after losing a serial race.
func WithMaxRetries(n int) TransactionServiceOption {
	return func(s *transactionService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithIdempotency enables Idempotency-Key handling on create.
func WithIdempotency(store portsrepo.IdempotencyStore, ttl time.Duration) TransactionServiceOption {
	return func(s *transactionService) {
		s.idempotency = store
		s.idemTTL = ttl
	}
}

func newTransactionService(store portsrepo.LedgerStore, stock *stockLedgerService, serials *serialAllocator, opts ...TransactionServiceOption) *transactionService {
	s := &transactionService{
		store:      store,
		stock:      stock,
		serials:    serials,
		maxRetries: defaultSerialMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store portsrepo.LedgerStore, opts ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	return newTransactionService(store, newStockLedgerService(store), &serialAllocator{store: store}, opts...)
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func checkVariant(variant domain.Variant) error {
	if !variant.Valid() {
		return apperrors.Invalid("unknown transaction variant %q", variant)
	}
	return nil
}

// buildItems converts request lines, rejecting anything that cannot be priced.
func buildItems(reqItems []dto.LineItemRequest) ([]domain.LineItem, error) {
	if reqItems == nil {
		return nil, apperrors.MissingField("items")
	}
	if len(reqItems) == 0 {
		return nil, apperrors.InvalidItems("items must contain at least one line")
	}
	items := make([]domain.LineItem, len(reqItems))
	for i, ri := range reqItems {
		name := strings.TrimSpace(ri.ItemName)
		if name == "" {
			return nil, apperrors.MissingField(fmt.Sprintf("items[%d].itemName", i))
		}
		if ri.Qty <= 0 {
			return nil, apperrors.InvalidItems("items[%d].qty must be greater than zero", i)
		}
		if ri.Qty > domain.MaxQuantity {
			return nil, apperrors.InvalidItems("items[%d].qty cannot exceed %d", i, domain.MaxQuantity)
		}
		if ri.Rate.IsNegative() {
			return nil, apperrors.InvalidItems("items[%d].rate cannot be negative", i)
		}
		if ri.ProductID != nil && *ri.ProductID <= 0 {
			return nil, apperrors.InvalidItems("items[%d].productId must be positive", i)
		}
		var pid *int64
		if ri.ProductID != nil {
			id := *ri.ProductID
			pid = &id
		}
		items[i] = domain.LineItem{
			ItemName:  name,
			ProductID: pid,
			Qty:       ri.Qty,
			Rate:      ri.Rate.Round(2),
		}
	}
	return items, nil
}

// resolveTaxMode picks the tax mode when the caller did not name one.
func resolveTaxMode(mode *domain.TaxMode, pct, amount *decimal.Decimal, current domain.TaxMode) domain.TaxMode {
	switch {
	case mode != nil:
		return *mode
	case amount != nil && pct == nil:
		return domain.TaxModeManual
	case pct != nil && amount == nil:
		return domain.TaxModePercentage
	case current != "":
		return current
	default:
		return domain.TaxModePercentage
	}
}

func parseFeedback(raw *string) (*domain.Feedback, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	fb := domain.Feedback(*raw)
	if !fb.Valid() {
		return nil, apperrors.Invalid("customerFeedback must be one of very_good, good, bad")
	}
	return &fb, nil
}

// finalize validates a fully merged bill and prices it.
func (s *transactionService) finalize(t *domain.Transaction) error {
	t.CustomerName = strings.TrimSpace(t.CustomerName)
	if t.CustomerName == "" {
		return apperrors.MissingField("customerName")
	}
	phone := strings.TrimSpace(t.CustomerPhone)
	if phone == "" {
		return apperrors.MissingField("customerPhone")
	}
	normalized, err := utils.NormalizePhone(phone, s.phoneRegion)
	if err != nil {
		return apperrors.Invalid("customerPhone: %v", err)
	}
	t.CustomerPhone = normalized
	t.CustomerAddress = strings.TrimSpace(t.CustomerAddress)

	if len(t.Items) == 0 {
		return apperrors.InvalidItems("items must contain at least one line")
	}

	if !t.TaxMode.Valid() {
		return apperrors.Invalid("taxMode must be one of percentage, manual")
	}
	if t.TaxMode == domain.TaxModePercentage {
		if t.TaxPercentage.IsNegative() || t.TaxPercentage.GreaterThan(billing.MaxTaxPercentage) {
			return apperrors.Invalid("taxPercentage must be between 0 and %s", billing.MaxTaxPercentage)
		}
		if !t.TaxPercentage.Equal(t.TaxPercentage.Round(billing.TaxPercentagePlaces)) {
			return apperrors.Invalid("taxPercentage allows at most %d decimal places", billing.TaxPercentagePlaces)
		}
	} else {
		if t.TaxAmount.IsNegative() {
			return apperrors.Invalid("taxAmount cannot be negative")
		}
		t.TaxPercentage = decimal.Zero
	}
	if t.AdvanceAmount.IsNegative() {
		return apperrors.Invalid("advanceAmount cannot be negative")
	}
	if t.TransportFees.IsNegative() {
		return apperrors.Invalid("transportFees cannot be negative")
	}
	t.AdvanceAmount = billing.Round2(t.AdvanceAmount)

	if t.Variant == domain.VariantSales {
		t.FromDate, t.ToDate = nil, nil
		t.RentalDays = 1
	} else {
		if t.FromDate != nil && t.ToDate != nil && t.ToDate.Before(*t.FromDate) {
			return apperrors.Invalid("toDate cannot be before fromDate")
		}
		t.TransportFees = billing.Round2(t.TransportFees)
		t.RentalDays = billing.RentalDays(t.FromDate, t.ToDate)
	}

	billing.ApplyTotals(t)
	if due := billing.DueBeforeAdvance(*t); t.AdvanceAmount.GreaterThan(due) {
		return apperrors.Invalid("advanceAmount %s exceeds amount due %s", t.AdvanceAmount.StringFixed(2), due.StringFixed(2))
	}
	return nil
}

func (s *transactionService) newTransaction(variant domain.Variant, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}
	feedback, err := parseFeedback(req.CustomerFeedback)
	if err != nil {
		return nil, err
	}
	t := &domain.Transaction{
		Variant:          variant,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		CustomerAddress:  req.CustomerAddress,
		Items:            items,
		TaxMode:          resolveTaxMode(req.TaxMode, req.TaxPercentage, req.TaxAmount, ""),
		TaxType:          strings.TrimSpace(req.TaxType),
		AdvanceAmount:    req.AdvanceAmount,
		TransportFees:    req.TransportFees,
		IsPaid:           req.IsPaid,
		CustomerFeedback: feedback,
		FromDate:         req.FromDate,
		ToDate:           req.ToDate,
	}
	if req.TaxPercentage != nil {
		t.TaxPercentage = *req.TaxPercentage
	}
	if req.TaxAmount != nil {
		t.TaxAmount = *req.TaxAmount
	}
	if err := s.finalize(t); err != nil {
		return nil, err
	}
	return t, nil
}

// linkItems resolves name-only lines against the catalog. Lines that match nothing stay ad hoc.
func (s *transactionService) linkItems(ctx context.Context, tx portsrepo.LedgerTx, items []domain.LineItem) ([]domain.StockWarning, error) {
	var warnings []domain.StockWarning
	for i := range items {
		if items[i].ProductID != nil {
			continue
		}
		id, ok, err := tx.FindProductIDByName(ctx, items[i].ItemName)
		if err != nil {
			return nil, err
		}
		if !ok {
			warnings = append(warnings, domain.StockWarning{
				Code:     domain.WarningUnmatchedItem,
				ItemName: items[i].ItemName,
				Message:  fmt.Sprintf("no catalog product named %q; stock not changed", items[i].ItemName),
			})
			continue
		}
		items[i].ProductID = &id
	}
	return warnings, nil
}

func clampedWarning(item domain.LineItem, productID int64, requested, applied int) domain.StockWarning {
	pid := productID
	return domain.StockWarning{
		Code:      domain.WarningStockClamped,
		ItemName:  item.ItemName,
		ProductID: &pid,
		Message:   fmt.Sprintf("requested %d units but only %d were in stock", requested, applied),
	}
}

func missingWarning(productID int64) domain.StockWarning {
	pid := productID
	return domain.StockWarning{
		Code:      domain.WarningProductMissing,
		ProductID: &pid,
		Message:   fmt.Sprintf("product %d no longer exists; stock not changed", productID),
	}
}

func sortedIDs(m map[int64]int) []int64 {
	return slices.Sorted(maps.Keys(m))
}

func billNote(t *domain.Transaction, action string) *string {
	note := fmt.Sprintf("%s bill #%d", t.Variant, t.SerialNo)
	if action != "" {
		note += " " + action
	}
	return &note
}

// createOnce runs one attempt of a create: serial, stock consumption and insert in a single unit of work.
func (s *transactionService) createOnce(ctx context.Context, base *domain.Transaction) (*domain.TransactionResult, error) {
	t := *base
	t.Items = slices.Clone(base.Items)
	var warnings []domain.StockWarning

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		warnings = nil
		serial, err := s.serials.allocate(ctx, tx, t.Variant)
		if err != nil {
			return err
		}
		t.SerialNo = serial

		unmatched, err := s.linkItems(ctx, tx, t.Items)
		if err != nil {
			return err
		}
		warnings = append(warnings, unmatched...)

		wanted := make(map[int64]int)
		for _, item := range t.Items {
			if item.ProductID != nil {
				wanted[*item.ProductID] += item.Qty
			}
		}
		locked, err := tx.LockProducts(ctx, sortedIDs(wanted))
		if err != nil {
			return err
		}

		note := billNote(&t, "")
		changeType := t.Variant.ConsumptionChangeType()
		for i := range t.Items {
			item := &t.Items[i]
			item.StockApplied = 0
			if item.ProductID == nil {
				continue
			}
			p, ok := locked[*item.ProductID]
			if !ok {
				return apperrors.InvalidItems("items[%d].productId %d does not match a product", i, *item.ProductID)
			}
			m, err := s.stock.mutate(ctx, tx, p, -item.Qty, changeType, note)
			if err != nil {
				return err
			}
			item.StockApplied = -m.Entry.QuantityChange
			if m.Clamped {
				warnings = append(warnings, clampedWarning(*item, p.ProductID, item.Qty, item.StockApplied))
			}
		}

		return tx.InsertTransaction(ctx, &t)
	})
	if err != nil {
		return nil, err
	}
	return &domain.TransactionResult{Transaction: t, Warnings: warnings}, nil
}

func (s *transactionService) createWithRetry(ctx context.Context, t *domain.Transaction) (*domain.TransactionResult, error) {
	for attempt := 1; ; attempt++ {
		result, err := s.createOnce(ctx, t)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt >= s.maxRetries {
			return nil, err
		}
		s.LogWarn(ctx, "Transaction create conflicted, retrying",
			slog.String("variant", string(t.Variant)),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, variant domain.Variant, req dto.CreateTransactionRequest, idempotencyKey string) (*domain.TransactionResult, error) {
	if err := checkVariant(variant); err != nil {
		return nil, err
	}
	t, err := s.newTransaction(variant, req)
	if err != nil {
		s.LogDebug(ctx, "Rejected transaction payload", slog.String("variant", string(variant)), slog.String("error", err.Error()))
		return nil, err
	}

	var scopedKey string
	if idempotencyKey != "" && s.idempotency != nil {
		scopedKey = string(variant) + ":" + idempotencyKey
		unlock, err := s.idempotency.Lock(ctx, scopedKey)
		if err != nil {
			s.LogFailure(ctx, err, "Failed to lock idempotency key", slog.String("variant", string(variant)))
			return nil, err
		}
		defer unlock()

		id, found, err := s.idempotency.Lookup(ctx, scopedKey)
		if err != nil {
			s.LogError(ctx, err, "Failed to look up idempotency key", slog.String("variant", string(variant)))
			return nil, err
		}
		if found {
			existing, err := s.store.FindTransactionByID(ctx, variant, id)
			if err != nil {
				s.LogFailure(ctx, err, "Failed to load replayed transaction", slog.Int64("transaction_id", id))
				return nil, err
			}
			s.LogInfo(ctx, "Replayed idempotent create", slog.Int64("transaction_id", id))
			return &domain.TransactionResult{Transaction: *existing, Warnings: []domain.StockWarning{}}, nil
		}
	}

	result, err := s.createWithRetry(ctx, t)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create transaction", slog.String("variant", string(variant)))
		return nil, err
	}

	if scopedKey != "" {
		if err := s.idempotency.Remember(ctx, scopedKey, result.Transaction.TransactionID, s.idemTTL); err != nil {
			s.LogError(ctx, err, "Failed to remember idempotency key", slog.Int64("transaction_id", result.Transaction.TransactionID))
		}
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("variant", string(variant)),
		slog.Int64("transaction_id", result.Transaction.TransactionID),
		slog.Int64("serial_no", result.Transaction.SerialNo),
		slog.String("total", result.Transaction.TotalAmount.StringFixed(2)),
		slog.Int("warnings", len(result.Warnings)))
	return result, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error) {
	if err := checkVariant(variant); err != nil {
		return nil, err
	}
	t, err := s.store.FindTransactionByID(ctx, variant, transactionID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get transaction", slog.String("variant", string(variant)), slog.Int64("transaction_id", transactionID))
		return nil, err
	}
	return t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, variant domain.Variant, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := checkVariant(variant); err != nil {
		return nil, err
	}
	limit := pagination.ClampLimit(params.Limit)

	var before *int64
	if params.NextToken != nil && *params.NextToken != "" {
		serial, err := pagination.DecodeIDToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.Invalid("invalid nextToken: %v", err)
		}
		before = &serial
	}

	txns, err := s.store.ListTransactions(ctx, variant, limit+1, before)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("variant", string(variant)))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{}
	if len(txns) > limit {
		txns = txns[:limit]
		token := pagination.EncodeIDToken(txns[limit-1].SerialNo)
		resp.NextToken = &token
	}
	resp.Transactions = dto.ToTransactionResponses(txns)
	return resp, nil
}

// mergeUpdate applies the supplied fields of req onto t.
func mergeUpdate(t *domain.Transaction, req dto.UpdateTransactionRequest) error {
	if req.CustomerName != nil {
		t.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		t.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerAddress != nil {
		t.CustomerAddress = *req.CustomerAddress
	}
	if req.Items != nil {
		items, err := buildItems(*req.Items)
		if err != nil {
			return err
		}
		t.Items = items
	}
	t.TaxMode = resolveTaxMode(req.TaxMode, req.TaxPercentage, req.TaxAmount, t.TaxMode)
	if req.TaxPercentage != nil {
		t.TaxPercentage = *req.TaxPercentage
	}
	if req.TaxAmount != nil {
		t.TaxAmount = *req.TaxAmount
	}
	if req.TaxType != nil {
		t.TaxType = strings.TrimSpace(*req.TaxType)
	}
	if req.AdvanceAmount != nil {
		t.AdvanceAmount = *req.AdvanceAmount
	}
	if req.TransportFees != nil {
		t.TransportFees = *req.TransportFees
	}
	if req.IsPaid != nil {
		t.IsPaid = *req.IsPaid
	}
	if req.CustomerFeedback != nil {
		fb, err := parseFeedback(req.CustomerFeedback)
		if err != nil {
			return err
		}
		t.CustomerFeedback = fb
	}
	if req.ClearRentalDates {
		if req.FromDate != nil || req.ToDate != nil {
			return apperrors.Invalid("clearRentalDates cannot be combined with fromDate or toDate")
		}
		t.FromDate, t.ToDate = nil, nil
	}
	if req.FromDate != nil {
		t.FromDate = req.FromDate
	}
	if req.ToDate != nil {
		t.ToDate = req.ToDate
	}
	return nil
}

// rebalance moves only the difference between the stock a bill already took and what its new lines need.
func (s *transactionService) rebalance(ctx context.Context, tx portsrepo.LedgerTx, t *domain.Transaction, previous map[int64]int) ([]domain.StockWarning, error) {
	warnings, err := s.linkItems(ctx, tx, t.Items)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int64]int)
	for _, item := range t.Items {
		if item.ProductID != nil {
			wanted[*item.ProductID] += item.Qty
		}
	}
	involved := maps.Clone(wanted)
	for id := range previous {
		if _, ok := involved[id]; !ok {
			involved[id] = 0
		}
	}
	ids := sortedIDs(involved)
	locked, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	note := billNote(t, "edited")
	applied := make(map[int64]int, len(ids))
	for _, id := range ids {
		want, had := wanted[id], previous[id]
		_, wasOnBill := previous[id]
		p, ok := locked[id]
		if !ok {
			if !wasOnBill {
				return nil, apperrors.InvalidItems("productId %d does not match a product", id)
			}
			if want != had {
				warnings = append(warnings, missingWarning(id))
			}
			applied[id] = min(had, want)
			continue
		}

		switch diff := want - had; {
		case diff > 0:
			m, err := s.stock.mutate(ctx, tx, p, -diff, t.Variant.ConsumptionChangeType(), note)
			if err != nil {
				return nil, err
			}
			got := -m.Entry.QuantityChange
			applied[id] = had + got
			if m.Clamped {
				warnings = append(warnings, domain.StockWarning{
					Code:      domain.WarningStockClamped,
					ItemName:  p.Name,
					ProductID: &p.ProductID,
					Message:   fmt.Sprintf("requested %d more units but only %d were in stock", diff, got),
				})
			}
		case diff < 0:
			if _, err := s.stock.mutate(ctx, tx, p, -diff, domain.ChangeReturn, note); err != nil {
				return nil, err
			}
			applied[id] = want
		default:
			applied[id] = had
		}
	}

	for i := range t.Items {
		item := &t.Items[i]
		item.StockApplied = 0
		if item.ProductID == nil {
			continue
		}
		take := min(applied[*item.ProductID], item.Qty)
		item.StockApplied = take
		applied[*item.ProductID] -= take
	}
	return warnings, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, variant domain.Variant, transactionID int64, req dto.UpdateTransactionRequest) (*domain.TransactionResult, error) {
	if err := checkVariant(variant); err != nil {
		return nil, err
	}

	var result domain.TransactionResult
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.LockTransaction(ctx, variant, transactionID)
		if err != nil {
			return err
		}
		previous := existing.AppliedStockByProduct()

		updated := *existing
		updated.Items = slices.Clone(existing.Items)
		if err := mergeUpdate(&updated, req); err != nil {
			return err
		}
		if err := s.finalize(&updated); err != nil {
			return err
		}

		var warnings []domain.StockWarning
		if req.Items != nil {
			warnings, err = s.rebalance(ctx, tx, &updated, previous)
			if err != nil {
				return err
			}
		}
		if err := tx.UpdateTransaction(ctx, &updated); err != nil {
			return err
		}
		result = domain.TransactionResult{Transaction: updated, Warnings: warnings}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update transaction", slog.String("variant", string(variant)), slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated",
		slog.String("variant", string(variant)),
		slog.Int64("transaction_id", transactionID),
		slog.Int("warnings", len(result.Warnings)))
	return &result, nil
}

// DeleteTransaction returns every unit the bill took before removing it. Products that no longer exist are reported, not fatal.
func (s *transactionService) DeleteTransaction(ctx context.Context, variant domain.Variant, transactionID int64) ([]domain.StockWarning, error) {
	if err := checkVariant(variant); err != nil {
		return nil, err
	}

	warnings := []domain.StockWarning{}
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		warnings = warnings[:0]
		existing, err := tx.LockTransaction(ctx, variant, transactionID)
		if err != nil {
			return err
		}

		applied := existing.AppliedStockByProduct()
		for id, units := range applied {
			if units <= 0 {
				delete(applied, id)
			}
		}
		ids := sortedIDs(applied)
		locked, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		note := billNote(existing, "deleted")
		for _, id := range ids {
			p, ok := locked[id]
			if !ok {
				warnings = append(warnings, missingWarning(id))
				continue
			}
			if _, err := s.stock.mutate(ctx, tx, p, applied[id], domain.ChangeReturn, note); err != nil {
				return err
			}
		}
		return tx.DeleteTransaction(ctx, variant, transactionID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete transaction", slog.String("variant", string(variant)), slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("variant", string(variant)), slog.Int64("transaction_id", transactionID))
	return warnings, nil
}
