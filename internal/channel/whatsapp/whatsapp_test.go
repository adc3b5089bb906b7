package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
)

func newStubSender(t *testing.T, handler http.HandlerFunc) (*Sender, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := resty.New().SetBaseURL(server.URL)
	return NewSenderWithClient(client, "AC123", "+15550000000"), server
}

func TestSender_Type(t *testing.T) {
	s := NewSenderWithClient(nil, "AC123", "+15550000000")
	if s.Type() != "whatsapp" {
		t.Errorf("Type() = %q, want whatsapp", s.Type())
	}
}

func TestSender_Send(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	s, _ := newStubSender(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		gotForm = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	})

	if err := s.Send(context.Background(), "+15551230001", "Alert", "body"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotPath != "/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q, want /Accounts/AC123/Messages.json", gotPath)
	}
	if gotForm["From"] != "whatsapp:+15550000000" {
		t.Errorf("From = %q, want whatsapp:+15550000000", gotForm["From"])
	}
	if gotForm["To"] != "whatsapp:+15551230001" {
		t.Errorf("To = %q, want whatsapp:+15551230001", gotForm["To"])
	}
	if !strings.HasPrefix(gotForm["Body"], "Alert\n\n") {
		t.Errorf("Body = %q, want subject folded in front", gotForm["Body"])
	}
}

func TestSender_SendAPIError(t *testing.T) {
	s, _ := newStubSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authentication Error"}`))
	})

	err := s.Send(context.Background(), "+15551230001", "Alert", "body")
	if err == nil {
		t.Fatal("Send() error = nil, want error on 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want to mention the status", err)
	}
}

func TestSender_SendUnconfigured(t *testing.T) {
	s := NewSenderWithClient(nil, "", "")
	if err := s.Send(context.Background(), "+15551230001", "Alert", "body"); err == nil {
		t.Error("Send() error = nil, want error for unconfigured sender")
	}
}

func TestSender_SendEmptyRecipient(t *testing.T) {
	s, _ := newStubSender(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for empty recipient")
	})
	if err := s.Send(context.Background(), "", "Alert", "body"); err == nil {
		t.Error("Send() error = nil, want error for empty recipient")
	}
}
