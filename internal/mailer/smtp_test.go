package mailer

import (
	"context"
	"testing"
)

func TestSMTPMailer_message(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525, From: "orders@example.com"})

	msg, err := m.message("buyer@example.com", "Your receipt", "<p>paid</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg == nil {
		t.Fatal("expected message")
	}
}

func TestSMTPMailer_InvalidRecipient(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525, From: "orders@example.com"})

	if err := m.Send(context.Background(), "not an address", "s", "b"); err == nil {
		t.Error("expected error for invalid recipient")
	}
}

func TestSMTPMailer_InvalidSender(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525, From: ""})

	if _, err := m.message("buyer@example.com", "s", "b"); err == nil {
		t.Error("expected error for empty sender")
	}
}

func TestLogMailer_Send(t *testing.T) {
	if err := NewLogMailer().Send(context.Background(), "a@example.com", "s", "b"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
