// Package report aggregates a month's daily records into a unified table.
// Records within a month may carry different category sets (categories added
// or removed mid-month), so the column set is the union of everything seen.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/okarim/dayledger/internal/ledger"
)

// Fixed leading columns preceding the dynamic category columns.
var fixedColumns = []string{"Date", "Gross Income", "Net Income"}

// Document is the language-agnostic table handed to the exporter. The core
// supplies contents only; rendering lives with the collaborator.
type Document struct {
	Title  string
	Header []string
	Body   [][]string
	Footer []string
}

// BuildColumns returns the fixed columns followed by the sorted set of all
// distinct category names appearing across records. Sorting makes the
// column order deterministic regardless of entry order.
func BuildColumns(records []ledger.DailyRecord) []string {
	seen := map[string]struct{}{}
	for _, rec := range records {
		for _, e := range rec.Entries {
			seen[e.Name] = struct{}{}
		}
	}
	dynamic := make([]string, 0, len(seen))
	for name := range seen {
		dynamic = append(dynamic, name)
	}
	sort.Strings(dynamic)
	return append(append([]string{}, fixedColumns...), dynamic...)
}

// BuildRows returns one row per record, in record order. A record with no
// entry for a dynamic column gets "0.00"; every numeric cell has exactly
// two decimal places.
func BuildRows(records []ledger.DailyRecord, columns []string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		byName := make(map[string]int64, len(rec.Entries))
		for _, e := range rec.Entries {
			byName[e.Name] = e.Value
		}
		row := make([]string, 0, len(columns))
		row = append(row, rec.Date, fixed2(rec.GrossIncome), fixed2(rec.NetIncome))
		for _, col := range columns[len(fixedColumns):] {
			row = append(row, decimal.NewFromInt(byName[col]).StringFixed(2))
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildFooter returns the "Total" row: column-wise sums of gross, net, and
// each dynamic category across all records, two decimal places each.
func BuildFooter(records []ledger.DailyRecord, columns []string) []string {
	gross, net := decimal.Zero, decimal.Zero
	byName := map[string]decimal.Decimal{}
	for _, rec := range records {
		gross = gross.Add(parseAmount(rec.GrossIncome))
		net = net.Add(parseAmount(rec.NetIncome))
		for _, e := range rec.Entries {
			byName[e.Name] = byName[e.Name].Add(decimal.NewFromInt(e.Value))
		}
	}
	footer := make([]string, 0, len(columns))
	footer = append(footer, "Total", gross.StringFixed(2), net.StringFixed(2))
	for _, col := range columns[len(fixedColumns):] {
		footer = append(footer, byName[col].StringFixed(2))
	}
	return footer
}

// BuildDocument assembles the full table document for a month.
func BuildDocument(records []ledger.DailyRecord, month string) Document {
	columns := BuildColumns(records)
	return Document{
		Title:  "Report of: " + month,
		Header: columns,
		Body:   BuildRows(records, columns),
		Footer: BuildFooter(records, columns),
	}
}

// parseAmount reads a stored decimal string, treating garbage as zero the
// way the report always has.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func fixed2(s string) string {
	return parseAmount(s).StringFixed(2)
}
