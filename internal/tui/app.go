package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okarim/dayledger/internal/config"
	"github.com/okarim/dayledger/internal/entry"
	"github.com/okarim/dayledger/internal/export"
	"github.com/okarim/dayledger/internal/ledger"
	"github.com/okarim/dayledger/internal/registry"
	"github.com/okarim/dayledger/internal/report"
	"github.com/okarim/dayledger/internal/retention"
	"github.com/okarim/dayledger/internal/store"
)

// App ties together views.
type App struct {
	ctx    context.Context
	cfg    config.Config
	store  store.Store
	reg    *registry.Registry
	engine *ledger.Engine
	policy *retention.Policy

	state appState
	modal modalState

	categories []registry.Category
	lists      entry.Lists
	rawValues  map[string]string // name -> text as typed
	cursor     int

	gross string
	net   string

	months      []string
	monthCursor int
	records     []ledger.DailyRecord
	reportTable table.Model

	prompt     *ledger.Prompt
	promptKind promptKind

	newCatName string
	newCatKind registry.Kind

	status string
}

type appState string

const (
	viewEntry  appState = "entry"
	viewReport appState = "report"
)

type modalState string

const (
	modalNone        modalState = ""
	modalConfirm     modalState = "confirm"
	modalNewCategory modalState = "newCategory"
)

type promptKind string

const (
	promptSave   promptKind = "save"
	promptDelete promptKind = "delete"
)

func New(ctx context.Context, cfg config.Config, s store.Store, reg *registry.Registry, eng *ledger.Engine, policy *retention.Policy) *App {
	return &App{
		ctx:       ctx,
		cfg:       cfg,
		store:     s,
		reg:       reg,
		engine:    eng,
		policy:    policy,
		state:     viewEntry,
		rawValues: map[string]string{},
		gross:     "0",
		net:       "0",
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadCategories()
}

// commands

func (a *App) loadCategories() tea.Cmd {
	return func() tea.Msg {
		cats, err := a.reg.List(a.ctx)
		if err != nil {
			// degrade to an empty list; the error shows in the status line
			return categoriesMsg{err: err}
		}
		return categoriesMsg{cats: cats}
	}
}

func (a *App) submitCmd() tea.Cmd {
	rec := ledger.Compute(a.lists.Expense, a.lists.Income, time.Now())
	return func() tea.Msg {
		outcome, prompt, err := a.engine.Submit(a.ctx, rec)
		if err != nil {
			return errMsg{err}
		}
		return submitMsg{outcome: outcome, prompt: prompt, record: rec}
	}
}

func (a *App) resolveCmd(agree bool) tea.Cmd {
	kind := a.promptKind
	return func() tea.Msg {
		outcome, err := a.engine.Resolve(a.ctx, agree)
		if err != nil {
			return errMsg{err}
		}
		return resolvedMsg{outcome: outcome, kind: kind}
	}
}

func (a *App) addCategoryCmd(name string, kind registry.Kind) tea.Cmd {
	return func() tea.Msg {
		if err := a.reg.Add(a.ctx, name, kind); err != nil {
			if errors.Is(err, registry.ErrDuplicateName) {
				if suggestions := a.reg.Suggest(a.ctx, name); len(suggestions) > 0 {
					return errMsg{fmt.Errorf("%w (close to: %s)", err, strings.Join(suggestions, ", "))}
				}
			}
			return errMsg{err}
		}
		return addedMsg{name: name}
	}
}

// openReportCmd sweeps expired months, then loads the month key list and
// the selected partition. Runs on every report-view activation.
func (a *App) openReportCmd(selected string) tea.Cmd {
	return func() tea.Msg {
		months, err := store.ListMonths(a.ctx, a.store, registry.PreferencesKey)
		if err != nil {
			return errMsg{err}
		}
		removed, sweepErr := a.policy.Sweep(a.ctx, months)
		if len(removed) > 0 {
			months, err = store.ListMonths(a.ctx, a.store, registry.PreferencesKey)
			if err != nil {
				return errMsg{err}
			}
		}
		if selected == "" {
			selected = ledger.MonthKey(time.Now())
		}
		found := false
		for _, m := range months {
			if m == selected {
				found = true
				break
			}
		}
		if !found && len(months) > 0 {
			selected = months[len(months)-1]
		}
		var records []ledger.DailyRecord
		if found || len(months) > 0 {
			records, err = a.engine.LoadMonth(a.ctx, selected)
			if err != nil {
				return errMsg{err}
			}
		}
		return reportMsg{months: months, selected: selected, records: records, swept: len(removed), sweepErr: sweepErr}
	}
}

func (a *App) exportCmd() tea.Cmd {
	if len(a.records) == 0 {
		return func() tea.Msg { return errMsg{fmt.Errorf("nothing to export")} }
	}
	doc := report.BuildDocument(a.records, a.currentMonth())
	dir := a.cfg.UI.ExportDir
	return func() tea.Msg {
		now := time.Now()
		csvPath, err := export.WriteCSV(doc, dir, now)
		if err != nil {
			return errMsg{err}
		}
		if _, err := export.WriteText(doc, dir, now); err != nil {
			return errMsg{err}
		}
		return exportedMsg{path: csvPath}
	}
}

// update

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.state == viewReport {
			return a.handleReportKey(m)
		}
		return a.handleEntryKey(m)

	case categoriesMsg:
		a.categories = m.cats
		// rebuilding the lists discards unsaved values
		a.lists = entry.DeriveLists(m.cats)
		a.rawValues = map[string]string{}
		if a.cursor >= len(a.categories) {
			a.cursor = 0
		}
		if m.err != nil {
			a.status = "error loading categories: " + m.err.Error()
		}

	case submitMsg:
		a.gross = m.record.GrossIncome
		a.net = m.record.NetIncome
		switch m.outcome {
		case ledger.OutcomeInserted:
			a.status = "data inserted for " + m.record.Date
		case ledger.OutcomeConflict:
			a.prompt = m.prompt
			a.promptKind = promptSave
			a.modal = modalConfirm
			a.status = ""
		}

	case resolvedMsg:
		a.prompt = nil
		switch m.outcome {
		case ledger.OutcomeUpdated:
			a.status = "data updated"
		case ledger.OutcomeDeleted:
			a.status = "category deleted"
			return a, a.loadCategories()
		case ledger.OutcomeDiscarded:
			if m.kind == promptDelete {
				a.status = "delete cancelled"
			} else {
				a.status = "kept existing data"
			}
		}

	case addedMsg:
		a.status = fmt.Sprintf("%q added", m.name)
		a.newCatName = ""
		a.newCatKind = ""
		return a, a.loadCategories()

	case reportMsg:
		a.months = m.months
		a.records = m.records
		a.monthCursor = 0
		for i, month := range a.months {
			if month == m.selected {
				a.monthCursor = i
			}
		}
		a.reportTable = buildReportTable(a.records)
		a.status = ""
		if m.swept > 0 {
			a.status = fmt.Sprintf("removed %d expired month(s)", m.swept)
		}
		if m.sweepErr != nil {
			a.status = "sweep: " + m.sweepErr.Error()
		}

	case exportedMsg:
		a.status = "exported " + m.path

	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleEntryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down", "enter":
		if a.cursor < len(a.categories)-1 {
			a.cursor++
		}
		return a, nil
	case "c":
		rec := ledger.Compute(a.lists.Expense, a.lists.Income, time.Now())
		a.gross = rec.GrossIncome
		a.net = rec.NetIncome
		a.status = "calculated"
		return a, nil
	case "s":
		return a, a.submitCmd()
	case "a":
		a.modal = modalNewCategory
		a.newCatName = ""
		a.newCatKind = ""
		return a, nil
	case "x":
		if len(a.categories) == 0 {
			return a, nil
		}
		name := a.categories[a.cursor].Name
		a.prompt = a.engine.RequestDelete(name)
		a.promptKind = promptDelete
		a.modal = modalConfirm
		return a, nil
	case "r":
		a.state = viewReport
		a.status = "loading report..."
		return a, a.openReportCmd("")
	}

	if len(a.categories) == 0 {
		return a, nil
	}
	cat := a.categories[a.cursor]
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		raw := a.rawValues[cat.Name]
		if len(raw) > 0 {
			a.setValue(cat, raw[:len(raw)-1])
		}
	case tea.KeyRunes:
		a.setValue(cat, a.rawValues[cat.Name]+string(m.Runes))
	}
	return a, nil
}

// setValue applies a raw text edit to the selected category. Non-numeric
// text is rejected and the keystroke dropped.
func (a *App) setValue(cat registry.Category, raw string) {
	target := &a.lists.Expense
	if cat.Kind == registry.KindIncome {
		target = &a.lists.Income
	}
	updated, err := entry.UpdateValue(*target, cat.Name, raw)
	if err != nil {
		return
	}
	*target = updated
	a.rawValues[cat.Name] = raw
}

func (a *App) handleReportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "e":
		a.state = viewEntry
		a.status = ""
		return a, nil
	case "left", "h":
		if a.monthCursor > 0 {
			a.monthCursor--
			return a, a.openReportCmd(a.months[a.monthCursor])
		}
		return a, nil
	case "right", "l":
		if a.monthCursor < len(a.months)-1 {
			a.monthCursor++
			return a, a.openReportCmd(a.months[a.monthCursor])
		}
		return a, nil
	case "x":
		return a, a.exportCmd()
	}
	var cmd tea.Cmd
	a.reportTable, cmd = a.reportTable.Update(m)
	return a, cmd
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirm:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resolveCmd(true)
		case "n", "N", "esc":
			a.modal = modalNone
			return a, a.resolveCmd(false)
		}
	case modalNewCategory:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.newCatName = ""
			a.newCatKind = ""
		case tea.KeyEnter:
			name := strings.TrimSpace(a.newCatName)
			if name == "" {
				a.status = "enter an item name"
				return a, nil
			}
			if a.newCatKind == "" {
				a.status = "select a type with tab"
				return a, nil
			}
			a.modal = modalNone
			return a, a.addCategoryCmd(name, a.newCatKind)
		case tea.KeyTab:
			if a.newCatKind == registry.KindExpense {
				a.newCatKind = registry.KindIncome
			} else {
				a.newCatKind = registry.KindExpense
			}
		case tea.KeyBackspace, tea.KeyCtrlH:
			if len(a.newCatName) > 0 {
				a.newCatName = a.newCatName[:len(a.newCatName)-1]
			}
		case tea.KeySpace:
			a.newCatName += " "
		case tea.KeyRunes:
			a.newCatName += string(m.Runes)
		}
	}
	return a, nil
}

func (a *App) currentMonth() string {
	if len(a.months) == 0 {
		return ledger.MonthKey(time.Now())
	}
	return a.months[a.monthCursor]
}

// messages

type categoriesMsg struct {
	cats []registry.Category
	err  error
}

type submitMsg struct {
	outcome ledger.Outcome
	prompt  *ledger.Prompt
	record  ledger.DailyRecord
}

type resolvedMsg struct {
	outcome ledger.Outcome
	kind    promptKind
}

type addedMsg struct{ name string }

type reportMsg struct {
	months   []string
	selected string
	records  []ledger.DailyRecord
	swept    int
	sweepErr error
}

type exportedMsg struct{ path string }

type errMsg struct{ error }

// view

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	totalStyle    = lipgloss.NewStyle().Bold(true)
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewReport:
		body = a.renderReport()
	default:
		body = a.renderEntry()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + mutedStyle.Render(a.status)
	}
	return body
}

func (a *App) renderEntry() string {
	title := titleStyle.Render("Daily Entry - " + ledger.DateKey(time.Now()))
	out := title + "\n"
	out += fmt.Sprintf("Gross Income: %s   Net Income: %s\n\n",
		totalStyle.Render(a.cfg.UI.CurrencySymbol+a.gross),
		totalStyle.Render(a.cfg.UI.CurrencySymbol+a.net))

	if len(a.categories) == 0 {
		out += mutedStyle.Render("No categories yet. Press [a] to add an expense or income.") + "\n"
	}
	for i, cat := range a.categories {
		marker := " "
		if i == a.cursor {
			marker = "▶"
		}
		kindStyle := expenseStyle
		if cat.Kind == registry.KindIncome {
			kindStyle = incomeStyle
		}
		value := a.rawValues[cat.Name]
		if value == "" {
			value = "0"
		}
		line := fmt.Sprintf("%s %-20s %10s  %s", marker, cat.Name, value, kindStyle.Render(string(cat.Kind)))
		if i == a.cursor {
			line = selectedStyle.Render(line)
		}
		out += line + "\n"
	}

	out += "\n[type] Edit value  [c] Calculate  [s] Save today  [a] Add  [x] Delete  [r] Report  [q] Quit"
	return out
}

func (a *App) renderReport() string {
	title := titleStyle.Render("Report of: " + a.currentMonth())
	out := title + "\n"

	if len(a.months) == 0 {
		out += mutedStyle.Render("No data") + "\n"
		out += "\n[e] Entry  [q] Quit"
		return out
	}

	var tabs []string
	for i, m := range a.months {
		if i == a.monthCursor {
			tabs = append(tabs, selectedStyle.Render("["+m+"]"))
		} else {
			tabs = append(tabs, mutedStyle.Render(" "+m+" "))
		}
	}
	out += strings.Join(tabs, " ") + "\n\n"

	if len(a.records) == 0 {
		out += mutedStyle.Render("No data for this month") + "\n"
	} else {
		out += a.reportTable.View() + "\n"
	}

	out += "\n[←/→] Month  [x] Export  [e] Entry  [q] Quit"
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirm:
		if a.prompt == nil {
			return ""
		}
		return modalStyle.Render(titleStyle.Render(a.prompt.Title) + "\n" + a.prompt.Detail + "\n[y] Yes  [n] No")
	case modalNewCategory:
		kind := "(press tab to choose)"
		if a.newCatKind != "" {
			kind = string(a.newCatKind)
		}
		return modalStyle.Render(titleStyle.Render("New category") +
			fmt.Sprintf("\nName: %s\nType: %s\n[tab] Toggle type  [enter] Save  [esc] Cancel", a.newCatName, kind))
	default:
		return ""
	}
}

// buildReportTable lays the month's records out as a bubbles table with the
// footer totals as the last row.
func buildReportTable(records []ledger.DailyRecord) table.Model {
	columns := report.BuildColumns(records)
	rows := report.BuildRows(records, columns)
	footer := report.BuildFooter(records, columns)

	cols := make([]table.Column, len(columns))
	for i, name := range columns {
		width := len(name)
		for _, row := range rows {
			if len(row[i]) > width {
				width = len(row[i])
			}
		}
		if len(footer[i]) > width {
			width = len(footer[i])
		}
		cols[i] = table.Column{Title: name, Width: width + 2}
	}

	tableRows := make([]table.Row, 0, len(rows)+1)
	for _, row := range rows {
		tableRows = append(tableRows, table.Row(row))
	}
	tableRows = append(tableRows, table.Row(footer))

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(len(tableRows)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)
	return t
}
