package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Cache fields may be nil when Redis is not configured.
type RepositoryProvider struct {
	Ledger         LedgerStore
	AnalyticsCache AnalyticsCache
	Idempotency    IdempotencyStore
}
