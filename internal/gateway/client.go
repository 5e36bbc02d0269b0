package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"payin-bridge/config"
	"payin-bridge/internal/models"
	"payin-bridge/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client is the sole boundary to the payment provider's HTTP API. Each method
// performs exactly one outbound request; retry policy belongs to the caller.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient creates a new gateway client
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: util.GetLogger(),
	}
}

// PayinParams describes one create-payin request
type PayinParams struct {
	AccountID        string
	FiatAmount       decimal.Decimal
	FiatCurrencyCode string
	TokenSymbol      string
	TokenBlockchain  string
}

type payinPayload struct {
	DestinationToken struct {
		Symbol     string `json:"symbol"`
		Blockchain string `json:"blockchain"`
	} `json:"destinationToken"`
	DestinationMuralAccountID string       `json:"destinationMuralAccountId"`
	PayinDetails              payinDetails `json:"payinDetails"`
}

type payinDetails struct {
	Type             string  `json:"type"`
	FiatCurrencyCode string  `json:"fiatCurrencyCode"`
	FiatAmount       float64 `json:"fiatAmount"`
}

// ListAccounts fetches all merchant accounts for the organization, in the
// order the provider returns them.
func (c *Client) ListAccounts(ctx context.Context) ([]models.MerchantAccount, error) {
	ctx, span := util.StartSpan(ctx, "Gateway.ListAccounts")
	defer span.End()

	if err := c.checkCredential(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/accounts", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build accounts request: %w", err)
	}
	c.setHeaders(req)

	body, err := c.do(req, "list accounts", false)
	if err != nil {
		return nil, err
	}

	var accounts []models.MerchantAccount
	if err := json.Unmarshal(body, &accounts); err != nil {
		return nil, &UnavailableError{Op: "list accounts", Err: fmt.Errorf("malformed accounts response: %w", err)}
	}

	c.logger.Debug("Fetched merchant accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}

// CreatePayin asks the provider to create a payin for the given account and
// fiat amount. The call is not idempotent at the provider: an in-flight
// failure is reported as UnavailableError with Indeterminate set.
func (c *Client) CreatePayin(ctx context.Context, params PayinParams) (*models.PayinResult, error) {
	ctx, span := util.StartSpan(ctx, "Gateway.CreatePayin")
	defer span.End()

	if err := c.checkCredential(); err != nil {
		return nil, err
	}

	payload := payinPayload{
		DestinationMuralAccountID: params.AccountID,
		PayinDetails: payinDetails{
			Type:             strings.ToLower(params.FiatCurrencyCode),
			FiatCurrencyCode: params.FiatCurrencyCode,
			FiatAmount:       params.FiatAmount.InexactFloat64(),
		},
	}
	payload.DestinationToken.Symbol = params.TokenSymbol
	payload.DestinationToken.Blockchain = params.TokenBlockchain

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payin payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payins/payin", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build payin request: %w", err)
	}
	c.setHeaders(req)

	body, err := c.do(req, "create payin", true)
	if err != nil {
		return nil, err
	}

	var result models.PayinResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &UnavailableError{Op: "create payin", Err: fmt.Errorf("malformed payin response: %w", err)}
	}

	c.logger.Info("Payin created",
		zap.String("payin_id", result.ID),
		zap.String("account_id", params.AccountID),
		zap.String("fiat_amount", params.FiatAmount.String()))

	return &result, nil
}

// do executes a single request and maps failures into the typed taxonomy.
// indeterminateOnTransport marks requests whose side effect may have landed
// even though the response never arrived.
func (c *Client) do(req *http.Request, op string, indeterminateOnTransport bool) ([]byte, error) {
	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		util.GatewayRequestDuration.WithLabelValues(op, "transport_error").Observe(time.Since(start).Seconds())
		util.GatewayFailuresTotal.WithLabelValues(op, "transport_error").Inc()
		c.logger.Error("Gateway request failed",
			zap.String("op", op),
			zap.Bool("indeterminate", indeterminateOnTransport),
			zap.Error(err))
		return nil, &UnavailableError{Op: op, Indeterminate: indeterminateOnTransport, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	status := strconv.Itoa(resp.StatusCode)
	util.GatewayRequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		util.GatewayFailuresTotal.WithLabelValues(op, status).Inc()

		// A client-side status with a JSON object body is the provider
		// telling us what it rejected; keep that detail intact.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			var detail map[string]interface{}
			if json.Unmarshal(body, &detail) == nil && len(detail) > 0 {
				c.logger.Warn("Gateway rejected request",
					zap.String("op", op),
					zap.Int("status", resp.StatusCode),
					zap.Any("detail", detail))
				return nil, &RejectedError{Op: op, StatusCode: resp.StatusCode, Detail: detail}
			}
		}

		c.logger.Error("Gateway returned unexpected status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &UnavailableError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if readErr != nil {
		return nil, &UnavailableError{Op: op, Err: fmt.Errorf("failed to read response: %w", readErr)}
	}

	return body, nil
}

// checkCredential rejects before any network call when the API key is absent
func (c *Client) checkCredential() error {
	if c.apiKey == "" {
		return &ConfigurationError{Reason: "GATEWAY_API_KEY is not set"}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}
