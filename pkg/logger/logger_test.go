package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "warn")

		l.Info("hidden")
		l.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("expected info entry to be filtered, got %q", out)
		}
		if !strings.Contains(out, "shown") {
			t.Errorf("expected warn entry, got %q", out)
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, "loud")

		l.Debug("debug")
		l.Info("info")

		out := buf.String()
		if strings.Contains(out, "debug") {
			t.Errorf("expected debug entry to be filtered, got %q", out)
		}
		if !strings.Contains(out, "info") {
			t.Errorf("expected info entry, got %q", out)
		}
	})

	t.Run("child logger carries fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := With(New(&buf, "info"), "component", "export")

		l.Info("rendered")

		if !strings.Contains(buf.String(), "component=export") {
			t.Errorf("expected component field, got %q", buf.String())
		}
	})
}
