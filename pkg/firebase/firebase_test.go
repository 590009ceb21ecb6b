package firebase

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anonto42/foodhelper/backend/pkg/logger"
)

func TestInitFirebase(t *testing.T) {
	ctx := context.Background()

	tt := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "not provided"},
		{"missing file", filepath.Join(t.TempDir(), "creds.json"), "not usable"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := InitFirebase(ctx, tc.path, logger.Discard())
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
