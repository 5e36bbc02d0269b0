package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payin-bridge/config"
	"payin-bridge/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}
}

func payinParams() PayinParams {
	return PayinParams{
		AccountID:        "acc-1",
		FiatAmount:       decimal.RequireFromString("50000"),
		FiatCurrencyCode: "COP",
		TokenSymbol:      "USDC",
		TokenBlockchain:  "POLYGON",
	}
}

func TestMissingCredentialFailsBeforeNetwork(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = ""
	client := NewClient(cfg)

	_, err := client.ListAccounts(context.Background())
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)

	_, err = client.CreatePayin(context.Background(), payinParams())
	require.ErrorAs(t, err, &configErr)

	assert.Zero(t, requests, "credential must be checked before any network call")
}

func TestListAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/accounts", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"acc-1","status":"ACTIVE","isApiEnabled":true},
			{"id":"acc-2","status":"SUSPENDED","isApiEnabled":false}
		]`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	accounts, err := client.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc-1", accounts[0].ID)
	assert.True(t, accounts[0].IsAPIEnabled)
	assert.Equal(t, "SUSPENDED", accounts[1].Status)
}

func TestListAccountsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.ListAccounts(context.Background())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, http.StatusInternalServerError, unavailable.StatusCode)
	assert.Contains(t, unavailable.Body, "upstream exploded")
	assert.False(t, unavailable.Indeterminate)
}

func TestCreatePayin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payins/payin", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		token := payload["destinationToken"].(map[string]interface{})
		assert.Equal(t, "USDC", token["symbol"])
		assert.Equal(t, "POLYGON", token["blockchain"])
		assert.Equal(t, "acc-1", payload["destinationMuralAccountId"])

		details := payload["payinDetails"].(map[string]interface{})
		assert.Equal(t, "cop", details["type"])
		assert.Equal(t, "COP", details["fiatCurrencyCode"])
		assert.Equal(t, 50000.0, details["fiatAmount"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"payin-123",
			"payinStatus":{"type":"awaiting_payment","initiatedAt":"2026-08-28T10:00:00Z"},
			"payinInstructions":{"type":"deposit_link","depositUrl":"https://pay.example.com/abc","expiresAt":"2026-08-29T10:00:00Z"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	result, err := client.CreatePayin(context.Background(), payinParams())
	require.NoError(t, err)
	assert.Equal(t, "payin-123", result.ID)
	assert.Equal(t, "awaiting_payment", result.Status["type"])
	assert.Equal(t, "https://pay.example.com/abc", result.Instructions["depositUrl"])
	// Unknown provider fields pass through untouched.
	assert.Equal(t, "2026-08-29T10:00:00Z", result.Instructions["expiresAt"])
}

func TestCreatePayinRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"INVALID_ACCOUNT","message":"account acc-1 cannot receive payins"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.CreatePayin(context.Background(), payinParams())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "INVALID_ACCOUNT", rejected.Detail["error"])
	assert.Contains(t, rejected.Error(), "acc-1 cannot receive payins")
}

func TestCreatePayinTransportFailureIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(testConfig(srv.URL))

	_, err := client.CreatePayin(context.Background(), payinParams())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.Indeterminate, "an in-flight payin failure has an unknown outcome")
}

func TestListAccountsTransportFailureIsNotIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.ListAccounts(context.Background())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, unavailable.Indeterminate, "a read has no side effect to reconcile")
}

func TestCreatePayinTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := &Client{
		baseURL: srv.URL,
		apiKey:  "test-key",
		httpc:   &http.Client{Timeout: 50 * time.Millisecond},
		logger:  util.GetLogger(),
	}

	_, err := client.CreatePayin(context.Background(), payinParams())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.Indeterminate)
}

func TestCancellationAbandonsRequest(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.ListAccounts(ctx)
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
