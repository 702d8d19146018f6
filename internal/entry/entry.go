// Package entry projects the category registry into today's editable value
// lists. It holds no persisted state: the lists are rebuilt whenever the
// registry changes, and unsaved values are discarded on rebuild.
package entry

import (
	"errors"
	"strconv"
	"strings"

	"github.com/okarim/dayledger/internal/ledger"
	"github.com/okarim/dayledger/internal/registry"
)

// ErrNotANumber signals that a raw text update is non-numeric. The caller
// ignores the keystroke and keeps the prior value.
var ErrNotANumber = errors.New("entry: value is not a number")

// Lists holds today's zero-or-edited values, partitioned by kind.
type Lists struct {
	Expense []ledger.CategoryValue
	Income  []ledger.CategoryValue
}

// DeriveLists builds zero-valued entry lists from the registry categories,
// preserving registry order within each kind.
func DeriveLists(cats []registry.Category) Lists {
	var l Lists
	for _, c := range cats {
		v := ledger.CategoryValue{Name: c.Name}
		switch c.Kind {
		case registry.KindExpense:
			l.Expense = append(l.Expense, v)
		case registry.KindIncome:
			l.Income = append(l.Income, v)
		}
	}
	return l
}

// UpdateValue parses raw as an integer and returns a copy of entries with
// the named entry updated. Empty input means zero. Non-numeric input
// returns the entries unchanged along with ErrNotANumber.
func UpdateValue(entries []ledger.CategoryValue, name, raw string) ([]ledger.CategoryValue, error) {
	var value int64
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return entries, ErrNotANumber
		}
		value = parsed
	}
	out := make([]ledger.CategoryValue, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
		}
	}
	return out, nil
}
