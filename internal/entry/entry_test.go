package entry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okarim/dayledger/internal/ledger"
	"github.com/okarim/dayledger/internal/registry"
)

func TestDeriveListsPartitionsInRegistryOrder(t *testing.T) {
	t.Parallel()

	cats := []registry.Category{
		{Name: "Rent", Kind: registry.KindExpense},
		{Name: "Salary", Kind: registry.KindIncome},
		{Name: "Groceries", Kind: registry.KindExpense},
		{Name: "Bonus", Kind: registry.KindIncome},
	}
	l := DeriveLists(cats)
	require.Equal(t, []ledger.CategoryValue{{Name: "Rent"}, {Name: "Groceries"}}, l.Expense)
	require.Equal(t, []ledger.CategoryValue{{Name: "Salary"}, {Name: "Bonus"}}, l.Income)
}

func TestDeriveListsEmptyRegistry(t *testing.T) {
	t.Parallel()

	l := DeriveLists(nil)
	require.Empty(t, l.Expense)
	require.Empty(t, l.Income)
}

func TestUpdateValue(t *testing.T) {
	t.Parallel()

	entries := []ledger.CategoryValue{{Name: "Rent"}, {Name: "Groceries"}}

	updated, err := UpdateValue(entries, "Rent", "500")
	require.NoError(t, err)
	require.Equal(t, int64(500), updated[0].Value)
	require.Equal(t, int64(0), updated[1].Value)
	// original is untouched
	require.Equal(t, int64(0), entries[0].Value)

	updated, err = UpdateValue(updated, "Rent", "")
	require.NoError(t, err)
	require.Equal(t, int64(0), updated[0].Value)

	updated, err = UpdateValue(updated, "Groceries", "-25")
	require.NoError(t, err)
	require.Equal(t, int64(-25), updated[1].Value)
}

func TestUpdateValueRejectsNonNumeric(t *testing.T) {
	t.Parallel()

	entries := []ledger.CategoryValue{{Name: "Rent", Value: 500}}

	got, err := UpdateValue(entries, "Rent", "12a")
	require.ErrorIs(t, err, ErrNotANumber)
	require.Equal(t, entries, got)

	got, err = UpdateValue(entries, "Rent", "1.5")
	require.ErrorIs(t, err, ErrNotANumber)
	require.Equal(t, entries, got)
}
