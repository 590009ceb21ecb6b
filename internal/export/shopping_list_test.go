package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/internal/testutil"
)

func TestRenderText(t *testing.T) {
	t.Run("sorted by name", func(t *testing.T) {
		rows := []models.IngredientTotal{
			{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 150},
			{Name: "Salt", MeasurementUnit: "g", TotalAmount: 10},
		}

		var buf bytes.Buffer
		if err := RenderText(&buf, rows); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := "Salt (g) — 10\nSugar (g) — 150\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
		if rows[0].Name != "Sugar" {
			t.Error("expected input rows to be left untouched")
		}
	})

	t.Run("same name different units", func(t *testing.T) {
		rows := []models.IngredientTotal{
			{Name: "Milk", MeasurementUnit: "ml", TotalAmount: 200},
			{Name: "Milk", MeasurementUnit: "cup", TotalAmount: 1},
		}

		var buf bytes.Buffer
		if err := RenderText(&buf, rows); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := "Milk (cup) — 1\nMilk (ml) — 200\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("empty list", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RenderText(&buf, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected empty output, got %q", buf.String())
		}
	})

	t.Run("write failure", func(t *testing.T) {
		rows := []models.IngredientTotal{{Name: "Salt", MeasurementUnit: "g", TotalAmount: 10}}

		err := RenderText(&testutil.FWriter{}, rows)
		if !apperr.IsKind(err, apperr.KindRender) {
			t.Fatalf("expected render error, got %v", err)
		}
	})
}

func TestRenderPDF(t *testing.T) {
	rows := []models.IngredientTotal{
		{Name: "Crème fraîche", MeasurementUnit: "g", TotalAmount: 200},
		{Name: "Salt", MeasurementUnit: "g", TotalAmount: 10},
	}

	t.Run("produces a pdf document", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RenderPDF(&buf, rows); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Errorf("expected PDF header, got %q", buf.Bytes()[:min(8, buf.Len())])
		}
	})

	t.Run("empty list still renders", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RenderPDF(&buf, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Error("expected PDF header")
		}
	})

	t.Run("write failure", func(t *testing.T) {
		err := RenderPDF(&testutil.FWriter{}, rows)
		if !apperr.IsKind(err, apperr.KindRender) {
			t.Fatalf("expected render error, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		in          string
		want        Format
		contentType string
		wantErr     bool
	}{
		{in: "", want: FormatText, contentType: "text/plain; charset=utf-8"},
		{in: "txt", want: FormatText, contentType: "text/plain; charset=utf-8"},
		{in: "PDF", want: FormatPDF, contentType: "application/pdf"},
		{in: "docx", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				if !apperr.IsKind(err, apperr.KindValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
			if got.ContentType() != tc.contentType {
				t.Errorf("expected content type %q, got %q", tc.contentType, got.ContentType())
			}
			if !strings.HasPrefix(got.Filename(), "shopping_list.") {
				t.Errorf("unexpected filename %q", got.Filename())
			}
		})
	}
}
