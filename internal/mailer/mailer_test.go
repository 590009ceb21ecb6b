package mailer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/anonto42/foodhelper/backend/internal/models"
	"github.com/anonto42/foodhelper/backend/pkg/logger"
)

func TestWelcomeMessage(t *testing.T) {
	user := &models.User{Email: "ann@example.com", Username: "ann", FirstName: "<Ann>"}

	msg := WelcomeMessage("noreply@foodhelper.local", user)

	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "ann@example.com" {
		t.Errorf("unexpected To header %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("writing message: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "&lt;Ann&gt;") {
		t.Errorf("expected escaped first name in body, got %q", body)
	}
}

func TestLogMailer(t *testing.T) {
	m := NewLogMailer(logger.Discard())
	if err := m.SendWelcome(context.Background(), &models.User{Email: "a@b.c"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
