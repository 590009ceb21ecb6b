// Package export renders an aggregated shopping list as a downloadable document.
package export

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
)

type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "", "txt", "text" and "pdf". The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", apperr.Validationf("unsupported format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) Filename() string {
	return "shopping_list." + string(f)
}

// Line formats one shopping list row as "<name> (<unit>) — <total>".
func Line(row models.IngredientTotal) string {
	return fmt.Sprintf("%s (%s) — %d", row.Name, row.MeasurementUnit, row.TotalAmount)
}

// Lines returns the formatted rows ordered by name, then unit. rows is not modified.
func Lines(rows []models.IngredientTotal) []string {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b models.IngredientTotal) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.MeasurementUnit, b.MeasurementUnit)
	})

	lines := make([]string, len(sorted))
	for i, row := range sorted {
		lines[i] = Line(row)
	}
	return lines
}

// Render writes rows to w in the requested format. Write faults come back as render errors.
func Render(w io.Writer, rows []models.IngredientTotal, f Format) error {
	if f == FormatPDF {
		return RenderPDF(w, rows)
	}
	return RenderText(w, rows)
}

// RenderText writes one newline-terminated line per row. No rows means no output.
func RenderText(w io.Writer, rows []models.IngredientTotal) error {
	for _, line := range Lines(rows) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return apperr.Render("failed to write shopping list", err)
		}
	}
	return nil
}

// RenderPDF lays the same lines out on A4 pages.
func RenderPDF(w io.Writer, rows []models.IngredientTotal) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Shopping list", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Core fonts are cp1252; translate so the dash and accented names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Shopping list"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range Lines(rows) {
		pdf.MultiCell(0, 7, tr(line), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return apperr.Render("failed to lay out shopping list", err)
	}
	if err := pdf.Output(w); err != nil {
		return apperr.Render("failed to write shopping list", err)
	}
	return nil
}
