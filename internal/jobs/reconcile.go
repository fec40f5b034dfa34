package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/robfig/cron/v3"
)

// Reconciler is the slice of the stock ledger the job needs.
type Reconciler interface {
	Reconcile(ctx context.Context) (*domain.ReconciliationReport, error)
}

// ReconcileJob periodically checks product stock against the stock history ledger.
type ReconcileJob struct {
	scheduler  *cron.Cron
	reconciler Reconciler
	logger     *slog.Logger
	timeout    time.Duration
	schedule   string
	jobID      cron.EntryID

	mu      sync.Mutex
	lastRun *domain.ReconciliationReport
}

// NewReconcileJob creates a job for the given cron schedule ("@hourly", "0 3 * * *", ...).
func NewReconcileJob(reconciler Reconciler, schedule string, logger *slog.Logger) *ReconcileJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileJob{
		scheduler:  cron.New(),
		reconciler: reconciler,
		logger:     logger.With(slog.String("job", "stock_reconcile")),
		timeout:    time.Minute,
		schedule:   schedule,
	}
}

// Start registers the job and starts the scheduler.
func (j *ReconcileJob) Start() error {
	var err error
	j.jobID, err = j.scheduler.AddFunc(j.schedule, j.RunOnce)
	if err != nil {
		return fmt.Errorf("error scheduling reconcile job %q: %w", j.schedule, err)
	}
	j.scheduler.Start()
	j.logger.Info("Stock reconcile scheduler started", slog.String("schedule", j.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running reconcile to finish.
func (j *ReconcileJob) Stop() {
	if j.scheduler == nil {
		return
	}
	<-j.scheduler.Stop().Done()
	j.logger.Info("Stock reconcile scheduler stopped")
}

// RunOnce performs a single reconcile pass and logs any drift found.
func (j *ReconcileJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		j.logger.Error("Stock reconcile failed", slog.String("error", err.Error()))
		return
	}

	j.mu.Lock()
	j.lastRun = report
	j.mu.Unlock()

	if len(report.Mismatches) == 0 {
		j.logger.Info("Stock reconcile clean", slog.Int("checked_products", report.CheckedProducts))
		return
	}
	for _, m := range report.Mismatches {
		j.logger.Warn("Stock drift detected",
			slog.Int64("product_id", m.ProductID),
			slog.String("product_name", m.ProductName),
			slog.Int("stock_quantity", m.StockQuantity),
			slog.Int("ledger_quantity", m.LedgerQuantity))
	}
}

// LastReport returns the report from the most recent successful run, or nil.
func (j *ReconcileJob) LastReport() *domain.ReconciliationReport {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastRun
}
