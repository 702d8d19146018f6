// Package retention purges month partitions older than the retention
// window. Age is measured from the timestamp of the partition's first
// record in insertion order, not the chronologically earliest one.
package retention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okarim/dayledger/internal/ledger"
	"github.com/okarim/dayledger/internal/store"
)

// DefaultWindow is the canonical retention threshold.
const DefaultWindow = 365 * 24 * time.Hour

// Window converts a configured day count to a sweep window. Non-positive
// counts fall back to DefaultWindow.
func Window(days int) time.Duration {
	if days <= 0 {
		return DefaultWindow
	}
	return time.Duration(days) * 24 * time.Hour
}

// Policy sweeps stored month partitions. A zero Window means DefaultWindow;
// Now defaults to time.Now and exists for tests.
type Policy struct {
	Store  store.Store
	Window time.Duration
	Now    func() time.Time
}

// Sweep examines each month key and deletes partitions whose first record
// is at least the window old (boundary inclusive). A failure on one key is
// collected and does not stop the others; removed holds the deleted keys.
func (p *Policy) Sweep(ctx context.Context, months []string) (removed []string, err error) {
	window := p.Window
	if window <= 0 {
		window = DefaultWindow
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	var errs []error
	for _, month := range months {
		expired, keyErr := p.expired(ctx, month, now(), window)
		if keyErr != nil {
			errs = append(errs, fmt.Errorf("sweep %s: %w", month, keyErr))
			continue
		}
		if !expired {
			continue
		}
		if keyErr := p.Store.Delete(ctx, month); keyErr != nil {
			errs = append(errs, fmt.Errorf("sweep %s: %w", month, keyErr))
			continue
		}
		removed = append(removed, month)
	}
	return removed, errors.Join(errs...)
}

func (p *Policy) expired(ctx context.Context, month string, now time.Time, window time.Duration) (bool, error) {
	data, err := p.Store.Get(ctx, month)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var records []ledger.DailyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, nil
	}
	first, err := time.Parse(time.RFC3339, records[0].Timestamp)
	if err != nil {
		return false, err
	}
	return now.Sub(first) >= window, nil
}
