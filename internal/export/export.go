// Package export renders a report document into shareable artifacts. The
// core builder supplies table contents only; this collaborator owns file
// layout and appends the generation timestamp.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okarim/dayledger/internal/report"
)

// Filename derives a filesystem-safe name from the month label, e.g.
// "Feb 2025" -> "report-feb-2025".
func Filename(month string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(month), " ", "-"))
	if slug == "" {
		slug = "empty"
	}
	return "report-" + slug
}

func monthOf(doc report.Document) string {
	return strings.TrimPrefix(doc.Title, "Report of: ")
}

// WriteCSV writes the document as a CSV file under dir and returns the
// full path. The header, body and footer become plain rows.
func WriteCSV(doc report.Document, dir string, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(monthOf(doc))+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{{doc.Title}, doc.Header}
	rows = append(rows, doc.Body...)
	rows = append(rows, doc.Footer)
	rows = append(rows, []string{"Generated", generatedAt.Format(time.RFC3339)})
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}

// RenderText lays the document out as a fixed-width printable table.
func RenderText(doc report.Document, generatedAt time.Time) string {
	widths := make([]int, len(doc.Header))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	measure(doc.Header)
	for _, row := range doc.Body {
		measure(row)
	}
	measure(doc.Footer)

	var b strings.Builder
	b.WriteString(doc.Title + "\n\n")
	writeRow := func(row []string) {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		b.WriteString("\n")
	}
	writeRow(doc.Header)
	for _, row := range doc.Body {
		writeRow(row)
	}
	writeRow(doc.Footer)
	fmt.Fprintf(&b, "\nGenerated %s\n", generatedAt.Format("Jan 02 2006 15:04"))
	return b.String()
}

// WriteText writes the printable table next to the CSV artifact.
func WriteText(doc report.Document, dir string, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(monthOf(doc))+".txt")
	if err := os.WriteFile(path, []byte(RenderText(doc, generatedAt)), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
