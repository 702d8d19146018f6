package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/okarim/dayledger/internal/config"
	"github.com/okarim/dayledger/internal/ledger"
	"github.com/okarim/dayledger/internal/registry"
	"github.com/okarim/dayledger/internal/retention"
	"github.com/okarim/dayledger/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../store/migrations")
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations(dbPath, migrations))

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	reg := registry.New(s)
	eng := ledger.NewEngine(s, reg)
	policy := &retention.Policy{Store: s}
	return New(context.Background(), config.Config{}, s, reg, eng, policy)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCategoriesMsgResetsLists(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	cats := []registry.Category{
		{Name: "Rent", Kind: registry.KindExpense},
		{Name: "Salary", Kind: registry.KindIncome},
	}
	a.Update(categoriesMsg{cats: cats})
	require.Len(t, a.lists.Expense, 1)
	require.Len(t, a.lists.Income, 1)

	// type a value, then reload: unsaved values are discarded
	a.Update(keyRunes("5"))
	require.Equal(t, int64(5), a.lists.Expense[0].Value)
	a.Update(categoriesMsg{cats: cats})
	require.Equal(t, int64(0), a.lists.Expense[0].Value)
	require.Empty(t, a.rawValues)
}

func TestTypingRejectsNonNumericKeystroke(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.Update(categoriesMsg{cats: []registry.Category{{Name: "Rent", Kind: registry.KindExpense}}})

	a.Update(keyRunes("1"))
	a.Update(keyRunes("2"))
	a.Update(keyRunes("b")) // ignored
	require.Equal(t, "12", a.rawValues["Rent"])
	require.Equal(t, int64(12), a.lists.Expense[0].Value)

	a.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "1", a.rawValues["Rent"])
	require.Equal(t, int64(1), a.lists.Expense[0].Value)
}

func TestSubmitConflictOpensConfirmModal(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	rec := ledger.Compute(nil, []ledger.CategoryValue{{Name: "Salary", Value: 100}}, time.Now())

	prompt := &ledger.Prompt{Token: "tok", Title: "Data exists", Detail: "overwrite?"}
	a.Update(submitMsg{outcome: ledger.OutcomeConflict, prompt: prompt, record: rec})
	require.Equal(t, modalConfirm, a.modal)
	require.Equal(t, promptSave, a.promptKind)
	require.Contains(t, a.View(), "Data exists")

	// declining closes the modal; resolution itself runs as a command
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.Equal(t, modalNone, a.modal)
	require.NotNil(t, cmd)
}

func TestReportMsgRendersTableAndMonths(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.state = viewReport
	records := []ledger.DailyRecord{{
		Date:        "Feb 01 2025",
		GrossIncome: "2000",
		NetIncome:   "1500",
		Month:       "Feb 2025",
		Entries:     []ledger.CategoryValue{{Name: "Rent", Value: 500}},
	}}
	a.Update(reportMsg{months: []string{"Jan 2025", "Feb 2025"}, selected: "Feb 2025", records: records})

	require.Equal(t, 1, a.monthCursor)
	view := a.View()
	require.Contains(t, view, "Report of: Feb 2025")
	require.Contains(t, view, "2000.00")
	require.Contains(t, view, "Total")
}

func TestReportMsgEmptyShowsNoData(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.state = viewReport
	a.Update(reportMsg{})
	require.Contains(t, a.View(), "No data")
}

func TestNewCategoryModalFlow(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.Update(keyRunes("a"))
	require.Equal(t, modalNewCategory, a.modal)

	for _, r := range "Rent" {
		a.Update(keyRunes(string(r)))
	}
	require.Equal(t, "Rent", a.newCatName)

	// enter without a type keeps the modal open
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, modalNewCategory, a.modal)

	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, registry.KindIncome, a.newCatKind)
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, registry.KindExpense, a.newCatKind)

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modalNone, a.modal)
	require.NotNil(t, cmd)

	msg := cmd()
	added, ok := msg.(addedMsg)
	require.True(t, ok, "expected addedMsg, got %T", msg)
	require.Equal(t, "Rent", added.name)
}

func TestBuildReportTableWidths(t *testing.T) {
	t.Parallel()

	records := []ledger.DailyRecord{{
		Date:        "Feb 01 2025",
		GrossIncome: "2000",
		NetIncome:   "1500",
		Month:       "Feb 2025",
		Entries:     []ledger.CategoryValue{{Name: "Rent", Value: 500}},
	}}
	tbl := buildReportTable(records)
	view := tbl.View()
	require.Contains(t, view, "Gross Income")
	require.Contains(t, view, "Rent")
	rows := tbl.Rows()
	require.Len(t, rows, 2) // one record + totals
	require.Equal(t, "Total", rows[1][0])
	require.True(t, strings.HasPrefix(rows[0][0], "Feb 01 2025"))
}
