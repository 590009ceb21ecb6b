package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError(t *testing.T) {
	t.Run("errors.Is matches kind through wrapping", func(t *testing.T) {
		err := fmt.Errorf("adding favorite: %w", Conflict("recipe already in favorites"))

		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected %v to match ErrConflict", err)
		}
		if errors.Is(err, ErrNotFound) {
			t.Errorf("expected %v not to match ErrNotFound", err)
		}
	})

	t.Run("KindOf plain error is internal", func(t *testing.T) {
		if k := KindOf(errors.New("boom")); k != KindInternal {
			t.Errorf("expected internal kind, got %v", k)
		}
	})

	t.Run("Render keeps cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Render("failed to write document", cause)

		if !errors.Is(err, cause) {
			t.Error("expected render error to unwrap to its cause")
		}
		if KindOf(err) != KindRender {
			t.Errorf("expected render kind, got %v", KindOf(err))
		}
	})

	t.Run("MessageOf", func(t *testing.T) {
		err := fmt.Errorf("ctx: %w", NotFound("user not found"))
		if got := MessageOf(err); got != "user not found" {
			t.Errorf("expected 'user not found', got %q", got)
		}
	})
}

func TestHTTPStatus(t *testing.T) {
	tt := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindRender, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range tt {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := HTTPStatus(tc.kind); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
