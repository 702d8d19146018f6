// Package ledger holds the daily record model and the reconciliation engine
// that decides whether saving today's numbers is an insert or an overwrite
// needing confirmation.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Date and month keys use fixed layouts so stored keys are stable across
// locales and devices.
const (
	DateLayout  = "Jan 02 2006"
	MonthLayout = "Jan 2006"
)

// DateKey formats t as the canonical per-day key, e.g. "Feb 02 2025".
func DateKey(t time.Time) string { return t.Format(DateLayout) }

// MonthKey formats t as the storage partition key, e.g. "Feb 2025".
func MonthKey(t time.Time) string { return t.Format(MonthLayout) }

// CategoryValue is one category's numeric entry for a day. The name is a
// snapshot: historic records may reference since-deleted categories.
type CategoryValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// DailyRecord is the persisted unit: one day's full category breakdown plus
// computed totals. JSON field names mirror the original export format so an
// existing store round-trips.
type DailyRecord struct {
	Date        string          `json:"todaysDate"`
	GrossIncome string          `json:"totalGrossIncome"`
	NetIncome   string          `json:"calculatedNetIncome"`
	Month       string          `json:"month"`
	Timestamp   string          `json:"time"`
	Entries     []CategoryValue `json:"all"`
}

// Compute builds the daily record from the entry lists. Gross income is the
// sum of income values, net income is gross minus total expense, and the
// entries keep the full breakdown (expenses first) for later aggregation.
// Pure; no I/O.
func Compute(expense, income []CategoryValue, now time.Time) DailyRecord {
	gross := decimal.Zero
	for _, v := range income {
		gross = gross.Add(decimal.NewFromInt(v.Value))
	}
	totalExpense := decimal.Zero
	for _, v := range expense {
		totalExpense = totalExpense.Add(decimal.NewFromInt(v.Value))
	}
	net := gross.Sub(totalExpense)

	entries := make([]CategoryValue, 0, len(expense)+len(income))
	entries = append(entries, expense...)
	entries = append(entries, income...)

	return DailyRecord{
		Date:        DateKey(now),
		GrossIncome: gross.String(),
		NetIncome:   net.String(),
		Month:       MonthKey(now),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Entries:     entries,
	}
}
