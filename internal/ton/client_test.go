package ton

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testWallet = "EQBvW8Z5huBkMJYdnfAEM5JqTNkuWX3diqYENkWsIL0XggGG"

func TestGetBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/getAddressInformation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("address"); got != testWallet {
			t.Errorf("expected address %s, got %s", testWallet, got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"balance":"3500000000"}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	nanotons, err := client.GetBalance(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if nanotons != 3_500_000_000 {
		t.Errorf("expected 3500000000 nanotons, got %d", nanotons)
	}
	if got := ToTON(nanotons); got != 3.5 {
		t.Errorf("expected 3.5 TON, got %f", got)
	}
}

func TestGetBalance_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"Incorrect address"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if _, err := client.GetBalance(context.Background(), "garbage"); err == nil {
		t.Fatal("expected error for rejected address")
	}
}

func TestGetBalance_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if _, err := client.GetBalance(context.Background(), testWallet); err == nil {
		t.Fatal("expected error for HTTP 503")
	}
}

func TestGetBalance_MalformedBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"balance":"not-a-number"}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if _, err := client.GetBalance(context.Background(), testWallet); err == nil {
		t.Fatal("expected error for malformed balance")
	}
}

func TestAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "tc-secret" {
			t.Errorf("expected X-API-Key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"balance":"0"}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("tc-secret"))
	if _, err := client.GetBalance(context.Background(), testWallet); err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
}
