package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
)

// Store is a process-local LedgerStore. A unit of work holds the write lock for its whole
// duration, which serialises stock and serial updates the way row locks do in Postgres.
type Store struct {
	mu sync.RWMutex

	products     map[int64]domain.Product
	history      []domain.StockHistoryEntry
	transactions map[domain.Variant]map[int64]domain.Transaction
	serials      map[domain.Variant]int64

	nextProductID int64
	nextEntryID   int64
	nextTxnID     int64

	now func() time.Time
}

// NewStore creates an empty in-memory ledger.
func NewStore() *Store {
	return &Store{
		products: make(map[int64]domain.Product),
		transactions: map[domain.Variant]map[int64]domain.Transaction{
			domain.VariantSales:  {},
			domain.VariantRental: {},
		},
		serials: make(map[domain.Variant]int64),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ portsrepo.LedgerStore = (*Store)(nil)

type snapshot struct {
	products      map[int64]domain.Product
	historyLen    int
	transactions  map[domain.Variant]map[int64]domain.Transaction
	serials       map[domain.Variant]int64
	nextProductID int64
	nextEntryID   int64
	nextTxnID     int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:      make(map[int64]domain.Product, len(s.products)),
		historyLen:    len(s.history),
		transactions:  make(map[domain.Variant]map[int64]domain.Transaction, len(s.transactions)),
		serials:       make(map[domain.Variant]int64, len(s.serials)),
		nextProductID: s.nextProductID,
		nextEntryID:   s.nextEntryID,
		nextTxnID:     s.nextTxnID,
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	for v, byID := range s.transactions {
		cp := make(map[int64]domain.Transaction, len(byID))
		for id, t := range byID {
			cp[id] = t
		}
		snap.transactions[v] = cp
	}
	for v, n := range s.serials {
		snap.serials[v] = n
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.history = s.history[:snap.historyLen]
	s.transactions = snap.transactions
	s.serials = snap.serials
	s.nextProductID = snap.nextProductID
	s.nextEntryID = snap.nextEntryID
	s.nextTxnID = snap.nextTxnID
}

// RunInTx runs fn under the store's write lock and undoes its writes if it fails.
func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func cloneTransaction(t domain.Transaction) domain.Transaction {
	t.Items = append([]domain.LineItem(nil), t.Items...)
	return t
}

// FindProductByID returns a copy of the product.
func (s *Store) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
	}
	return &p, nil
}

// ListProducts returns products ordered by name.
func (s *Store) ListProducts(ctx context.Context, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.ProductType != nil && p.ProductType != *filter.ProductType {
			continue
		}
		if filter.Category != nil && (p.Category == nil || *p.Category != *filter.Category) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name == products[j].Name {
			return products[i].ProductID < products[j].ProductID
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (s *Store) nameTaken(name string, exceptID int64) bool {
	for id, p := range s.products {
		if id != exceptID && p.Name == name {
			return true
		}
	}
	return false
}

// UpdateProductDetails rewrites catalog fields; stock fields are left untouched.
func (s *Store) UpdateProductDetails(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ProductID]
	if !ok {
		return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, product.ProductID)
	}
	if s.nameTaken(product.Name, product.ProductID) {
		return fmt.Errorf("%w: product name %q", apperrors.ErrDuplicate, product.Name)
	}

	current.Name = product.Name
	current.Rate = product.Rate
	current.Category = product.Category
	current.MinStockLevel = product.MinStockLevel
	current.LastUpdatedAt = s.now()
	s.products[product.ProductID] = current
	return nil
}

// DeleteProduct removes the product. Its history rows stay behind.
func (s *Store) DeleteProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
	}
	delete(s.products, productID)
	return nil
}

// FindTransactionByID returns a copy of the bill.
func (s *Store) FindTransactionByID(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[variant][transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s transaction %d", apperrors.ErrNotFound, variant, transactionID)
	}
	cp := cloneTransaction(t)
	return &cp, nil
}

// ListTransactions returns bills newest serial first.
func (s *Store) ListTransactions(ctx context.Context, variant domain.Variant, limit int, beforeSerial *int64) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txns := make([]domain.Transaction, 0, len(s.transactions[variant]))
	for _, t := range s.transactions[variant] {
		if beforeSerial != nil && t.SerialNo >= *beforeSerial {
			continue
		}
		txns = append(txns, cloneTransaction(t))
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].SerialNo > txns[j].SerialNo })
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// ListStockHistory returns a product's ledger entries newest first.
func (s *Store) ListStockHistory(ctx context.Context, productID int64, limit int, after *portsrepo.HistoryCursor) ([]domain.StockHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []domain.StockHistoryEntry
	for i := len(s.history) - 1; i >= 0; i-- {
		e := s.history[i]
		if e.ProductID != productID {
			continue
		}
		if after != nil && !olderThan(e, *after) {
			continue
		}
		entries = append(entries, e)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func olderThan(e domain.StockHistoryEntry, c portsrepo.HistoryCursor) bool {
	if e.CreatedAt.Equal(c.CreatedAt) {
		return e.EntryID < c.EntryID
	}
	return e.CreatedAt.Before(c.CreatedAt)
}

// SumStockChanges totals quantity changes per product across the whole ledger.
func (s *Store) SumStockChanges(ctx context.Context) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[int64]int)
	for _, e := range s.history {
		sums[e.ProductID] += e.QuantityChange
	}
	return sums, nil
}

// memTx implements LedgerTx. Its methods run with Store.mu already held.
type memTx struct {
	s *Store
}

func (t *memTx) InsertProduct(ctx context.Context, product *domain.Product) error {
	s := t.s
	if s.nameTaken(product.Name, 0) {
		return fmt.Errorf("%w: product name %q", apperrors.ErrDuplicate, product.Name)
	}
	s.nextProductID++
	now := s.now()
	product.ProductID = s.nextProductID
	product.CreatedAt = now
	product.LastUpdatedAt = now
	s.products[product.ProductID] = *product
	return nil
}

func (t *memTx) FindProductIDByName(ctx context.Context, name string) (int64, bool, error) {
	var match int64
	for id, p := range t.s.products {
		if p.Name == name && (match == 0 || id < match) {
			match = id
		}
	}
	return match, match != 0, nil
}

func (t *memTx) LockProducts(ctx context.Context, productIDs []int64) (map[int64]*domain.Product, error) {
	locked := make(map[int64]*domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := t.s.products[id]; ok {
			cp := p
			locked[id] = &cp
		}
	}
	return locked, nil
}

func (t *memTx) SaveProductStock(ctx context.Context, product *domain.Product) error {
	current, ok := t.s.products[product.ProductID]
	if !ok {
		return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, product.ProductID)
	}
	current.StockQuantity = product.StockQuantity
	current.TotalSales = product.TotalSales
	current.TotalRentals = product.TotalRentals
	current.LastRestocked = product.LastRestocked
	current.LastUpdatedAt = t.s.now()
	t.s.products[product.ProductID] = current
	product.LastUpdatedAt = current.LastUpdatedAt
	return nil
}

func (t *memTx) AppendStockHistory(ctx context.Context, entry *domain.StockHistoryEntry) error {
	if entry.NewQuantity != entry.PreviousQuantity+entry.QuantityChange || entry.NewQuantity < 0 {
		return fmt.Errorf("inconsistent stock history entry for product %d: %d%+d=%d",
			entry.ProductID, entry.PreviousQuantity, entry.QuantityChange, entry.NewQuantity)
	}
	t.s.nextEntryID++
	entry.EntryID = t.s.nextEntryID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = t.s.now()
	}
	t.s.history = append(t.s.history, *entry)
	return nil
}

func (t *memTx) NextSerial(ctx context.Context, variant domain.Variant) (int64, error) {
	byID, ok := t.s.transactions[variant]
	if !ok {
		return 0, fmt.Errorf("%w: unknown variant %q", apperrors.ErrValidation, variant)
	}
	next := t.s.serials[variant]
	for _, txn := range byID {
		if txn.SerialNo > next {
			next = txn.SerialNo
		}
	}
	next++
	t.s.serials[variant] = next
	return next, nil
}

func (t *memTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	byID, ok := t.s.transactions[txn.Variant]
	if !ok {
		return fmt.Errorf("%w: unknown variant %q", apperrors.ErrValidation, txn.Variant)
	}
	for _, existing := range byID {
		if existing.SerialNo == txn.SerialNo {
			return fmt.Errorf("%w: %s serial %d already used", apperrors.ErrConflict, txn.Variant, txn.SerialNo)
		}
	}
	t.s.nextTxnID++
	now := t.s.now()
	txn.TransactionID = t.s.nextTxnID
	txn.CreatedAt = now
	txn.LastUpdatedAt = now
	byID[txn.TransactionID] = cloneTransaction(*txn)
	return nil
}

func (t *memTx) LockTransaction(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error) {
	existing, ok := t.s.transactions[variant][transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s transaction %d", apperrors.ErrNotFound, variant, transactionID)
	}
	cp := cloneTransaction(existing)
	return &cp, nil
}

func (t *memTx) UpdateTransaction(ctx context.Context, txn *domain.Transaction) error {
	byID := t.s.transactions[txn.Variant]
	existing, ok := byID[txn.TransactionID]
	if !ok {
		return fmt.Errorf("%w: %s transaction %d", apperrors.ErrNotFound, txn.Variant, txn.TransactionID)
	}
	txn.SerialNo = existing.SerialNo
	txn.CreatedAt = existing.CreatedAt
	txn.LastUpdatedAt = t.s.now()
	byID[txn.TransactionID] = cloneTransaction(*txn)
	return nil
}

func (t *memTx) DeleteTransaction(ctx context.Context, variant domain.Variant, transactionID int64) error {
	byID := t.s.transactions[variant]
	if _, ok := byID[transactionID]; !ok {
		return fmt.Errorf("%w: %s transaction %d", apperrors.ErrNotFound, variant, transactionID)
	}
	delete(byID, transactionID)
	return nil
}
