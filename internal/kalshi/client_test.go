package kalshi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("status") != "open" || r.URL.Query().Get("limit") != "200" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte(`{"markets":[{"ticker":"FED-25","title":"Federal reserve rate decision","yes_ask":42,"yes_bid":40}],"cursor":""}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	resp, err := client.GetMarkets(context.Background(), GetMarketsOptions{Limit: 200, Status: "open"})
	if err != nil {
		t.Fatalf("GetMarkets returned error: %v", err)
	}
	if len(resp.Markets) != 1 || resp.Markets[0].YesAsk != 42 {
		t.Fatalf("unexpected markets %+v", resp.Markets)
	}
}

func TestGetMarketsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").GetMarkets(context.Background(), GetMarketsOptions{Limit: 1})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
}
