package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWhatsAppSender_Send(t *testing.T) {
	var gotForm map[string]string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM123", "status": "queued"}`))
	}))
	defer server.Close()

	sender := NewWhatsAppSender("AC123", "secret", "33668695116", 5*time.Second)
	sender.baseURL = server.URL

	sid, err := sender.Send(context.Background(), "447700900000", "🔔 Reminder: buy wine", "Medium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sid != "SM123" {
		t.Errorf("expected message sid SM123, got %q", sid)
	}
	if gotUser != "AC123" || gotPass != "secret" {
		t.Errorf("expected basic auth AC123/secret, got %s/%s", gotUser, gotPass)
	}
	if gotForm["From"] != "whatsapp:+33668695116" {
		t.Errorf("From not normalized: %q", gotForm["From"])
	}
	if gotForm["To"] != "whatsapp:+447700900000" {
		t.Errorf("To not normalized: %q", gotForm["To"])
	}
	if gotForm["Body"] != "🔔 Reminder: buy wine" {
		t.Errorf("unexpected body: %q", gotForm["Body"])
	}
}

func TestWhatsAppSender_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": 21211, "message": "The 'To' number is not a valid phone number."}`))
	}))
	defer server.Close()

	sender := NewWhatsAppSender("AC123", "secret", "+33668695116", 5*time.Second)
	sender.baseURL = server.URL

	_, err := sender.Send(context.Background(), "not-a-number", "hello", "Low")
	if err == nil {
		t.Fatal("expected an error for a provider rejection")
	}
}

func TestWhatsAppSender_EmptyRecipient(t *testing.T) {
	sender := NewWhatsAppSender("AC123", "secret", "+33668695116", 5*time.Second)
	if _, err := sender.Send(context.Background(), "", "hello", "Low"); err == nil {
		t.Fatal("expected an error when no recipient is configured")
	}
}

func TestWhatsappNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"33668695116", "whatsapp:+33668695116"},
		{"+33668695116", "whatsapp:+33668695116"},
		{"whatsapp:+33668695116", "whatsapp:+33668695116"},
	}
	for _, tt := range tests {
		if got := whatsappNumber(tt.in); got != tt.want {
			t.Errorf("whatsappNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
