// Package store provides the key-value persistence layer. Values are opaque
// byte slices; callers own serialization. All failures are reported as
// *StorageError so upper layers can surface them without crashing.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Store is the persistence contract shared by the registry and the ledger.
// They write disjoint keys (the reserved preferences key versus month keys),
// so no cross-component write conflicts occur.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// StorageError wraps a failed store operation. It is always recoverable:
// the operation aborts without partial writes and the caller reports it.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// monthKeyRe matches the month partition key form "Jan 2025".
var monthKeyRe = regexp.MustCompile(`^[A-Za-z]{3} \d{4}$`)

// IsMonthKey reports whether key has the month partition form.
func IsMonthKey(key string) bool { return monthKeyRe.MatchString(key) }

// ListMonths returns all month partition keys, excluding the reserved key and
// anything that does not match the month pattern, sorted chronologically.
func ListMonths(ctx context.Context, s Store, reserved string) ([]string, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	var months []string
	for _, k := range keys {
		if k == reserved || !IsMonthKey(k) {
			continue
		}
		months = append(months, k)
	}
	sort.Slice(months, func(i, j int) bool {
		ti, ei := time.Parse("Jan 2006", months[i])
		tj, ej := time.Parse("Jan 2006", months[j])
		if ei != nil || ej != nil {
			return months[i] < months[j]
		}
		return ti.Before(tj)
	})
	return months, nil
}
