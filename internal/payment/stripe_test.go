package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stripe/stripe-go/v76"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})

	return NewStripeGatewayWithBackends("sk_test_123", &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.PostForm.Get("amount"); got != "1999" {
			t.Errorf("amount = %q, want 1999", got)
		}
		if got := r.PostForm.Get("currency"); got != "usd" {
			t.Errorf("currency = %q, want usd", got)
		}
		if got := r.PostForm.Get("payment_method_types[0]"); got != "card" {
			t.Errorf("payment_method_types[0] = %q, want card", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":1999,"currency":"usd","client_secret":"pi_123_secret_abc"}`))
	})

	intent, err := gw.CreateIntent(context.Background(), 1999, CurrencyUSD)
	if err != nil {
		t.Fatalf("CreateIntent failed: %v", err)
	}

	if intent.ID != "pi_123" {
		t.Errorf("ID = %q, want pi_123", intent.ID)
	}
	if intent.ClientSecret != "pi_123_secret_abc" {
		t.Errorf("ClientSecret = %q", intent.ClientSecret)
	}
	if intent.Amount != 1999 || intent.Currency != "usd" {
		t.Errorf("unexpected amount/currency: %d %s", intent.Amount, intent.Currency)
	}
}

func TestStripeGateway_CreateIntentDeclined(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})

	_, err := gw.CreateIntent(context.Background(), 500, CurrencyUSD)
	if !errors.Is(err, ErrDeclined) {
		t.Errorf("expected ErrDeclined, got %v", err)
	}
}

func TestStripeGateway_CreateIntentServerError(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"Something went wrong."}}`))
	})

	_, err := gw.CreateIntent(context.Background(), 500, CurrencyUSD)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrDeclined) {
		t.Errorf("server errors should not be reported as declines: %v", err)
	}
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{400, true},
		{402, true},
		{429, false},
		{500, false},
		{200, false},
	}
	for _, tt := range tests {
		if got := isClientError(tt.status); got != tt.want {
			t.Errorf("isClientError(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
