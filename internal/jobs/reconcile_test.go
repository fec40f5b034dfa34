package jobs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestReconcileJob_RunOnceLogsDrift(t *testing.T) {
	var buf bytes.Buffer
	rec := new(mockReconciler)
	report := &domain.ReconciliationReport{
		CheckedProducts: 2,
		Mismatches: []domain.ReconciliationMismatch{
			{ProductID: 9, ProductName: "Tent", StockQuantity: 4, LedgerQuantity: 6},
		},
	}
	rec.On("Reconcile", mock.Anything).Return(report, nil).Once()

	job := NewReconcileJob(rec, "@hourly", newTestLogger(&buf))
	job.RunOnce()

	assert.Same(t, report, job.LastReport())
	assert.Contains(t, buf.String(), "Stock drift detected")
	assert.Contains(t, buf.String(), `"product_id":9`)
	rec.AssertExpectations(t)
}

func TestReconcileJob_RunOnceKeepsLastReportOnError(t *testing.T) {
	var buf bytes.Buffer
	rec := new(mockReconciler)
	clean := &domain.ReconciliationReport{CheckedProducts: 1, Mismatches: []domain.ReconciliationMismatch{}}
	rec.On("Reconcile", mock.Anything).Return(clean, nil).Once()
	rec.On("Reconcile", mock.Anything).Return(nil, assert.AnError).Once()

	job := NewReconcileJob(rec, "@hourly", newTestLogger(&buf))
	job.RunOnce()
	job.RunOnce()

	assert.Same(t, clean, job.LastReport())
	assert.Contains(t, buf.String(), "Stock reconcile clean")
	assert.Contains(t, buf.String(), "Stock reconcile failed")
}

func TestReconcileJob_StartRejectsBadSchedule(t *testing.T) {
	job := NewReconcileJob(new(mockReconciler), "every tuesday", nil)
	require.Error(t, job.Start())
}

func TestReconcileJob_StartStop(t *testing.T) {
	job := NewReconcileJob(new(mockReconciler), "@daily", nil)
	require.NoError(t, job.Start())
	job.Stop()
}
