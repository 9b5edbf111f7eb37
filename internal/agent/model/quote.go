package model

import "context"

// QuoteRepository caches rendered quote reports. Implementations key on
// the full normalized input tuple including the resolved rate, so a rate
// change between calls never serves a stale report.
type QuoteRepository interface {
	// GetReport returns the cached report for the key, reporting whether
	// one was found.
	GetReport(ctx context.Context, key string) (string, bool, error)

	// SaveReport stores a rendered report under the key.
	SaveReport(ctx context.Context, key string, report string) error
}
