package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Models:     []string{"model-a"},
		MaxRetries: 0,
	}, nil)
	if err != nil {
		t.Fatalf("client init: %v", err)
	}
	return c
}

func TestGenerateTextSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"world"}]}}]}`))
	})

	got, err := c.GenerateText(context.Background(), "model-a", "hi", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("text = %q", got)
	}
}

func TestGenerateTextRateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.GenerateText(context.Background(), "model-a", "hi", false)
	if !domain.IsRateLimited(err) {
		t.Fatalf("expected rate-limit classification, got %v", err)
	}
}

func TestGenerateTextAuthFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GenerateText(context.Background(), "model-a", "hi", false)
	if !domain.IsAuthFailure(err) {
		t.Fatalf("expected auth-failure classification, got %v", err)
	}
}

func TestGenerateTextRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "k", BaseURL: srv.URL, Models: []string{"m"}, MaxRetries: 1}, nil)
	if err != nil {
		t.Fatalf("client init: %v", err)
	}
	got, err := c.GenerateText(context.Background(), "m", "hi", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 2 {
		t.Fatalf("got %q after %d calls, want retry then success", got, calls)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestSniffImageMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nxxxx"), "image/png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"jpeg fallback", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"empty", nil, "image/jpeg"},
	}
	for _, tc := range cases {
		if got := SniffImageMIME(tc.data); got != tc.want {
			t.Fatalf("%s: mime = %q, want %q", tc.name, got, tc.want)
		}
	}
}
