// Package gateway implements the REST client for the third-party
// payment provider. The client is an explicit handle constructed at
// process bootstrap and injected into the payment service; nothing in
// this package holds module-level connection state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned by every outbound call when the gateway
// credentials are absent from configuration. Callers should translate
// this into a 503 rather than retrying.
var ErrNotConfigured = errors.New("payment gateway credentials are not configured")

// DefaultBaseURL points at the provider's production API.
const DefaultBaseURL = "https://api.razorpay.com"

// Config carries the credentials and endpoint for the gateway client.
// KeyID/KeySecret double as HTTP basic-auth credentials and as the HMAC
// secret for callback signature verification.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// Client speaks the provider's order and refund APIs. All amounts cross
// the wire in the minor currency unit (paise); conversion happens here
// and nowhere else.
type Client struct {
	httpClient *http.Client
	keyID      string
	keySecret  string
	baseURL    string
	log        zerolog.Logger
}

// New constructs a Client from config. A client built without
// credentials is still usable as a value; every call on it fails with
// ErrNotConfigured.
func New(cfg Config, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		baseURL:    baseURL,
		log:        log,
	}
}

// Configured reports whether gateway credentials are present.
func (c *Client) Configured() bool { return c.keyID != "" && c.keySecret != "" }

// Order is the provider's representation of a payment order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RefundResult is the provider's representation of a refund.
type RefundResult struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// CreateOrder raises a gateway order for the given amount. The raw
// response body is returned alongside the decoded order so callers can
// persist it for audit.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Order, []byte, error) {
	if !c.Configured() {
		return nil, nil, ErrNotConfigured
	}
	body := map[string]interface{}{
		"amount":   MinorUnits(amount),
		"currency": currency,
		"receipt":  receipt,
	}
	raw, err := c.post(ctx, "/v1/orders", body)
	if err != nil {
		return nil, nil, err
	}
	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, nil, fmt.Errorf("decode order response: %w", err)
	}
	c.log.Debug().Str("order_id", order.ID).Int64("amount", order.Amount).Msg("gateway order created")
	return &order, raw, nil
}

// CreateRefund asks the gateway to refund amount against the given
// gateway payment (transaction) ID. Notes are free-form metadata the
// provider stores with the refund.
func (c *Client) CreateRefund(ctx context.Context, gatewayPaymentID string, amount decimal.Decimal, notes map[string]string) (*RefundResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body := map[string]interface{}{
		"amount": MinorUnits(amount),
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}
	raw, err := c.post(ctx, "/v1/payments/"+gatewayPaymentID+"/refund", body)
	if err != nil {
		return nil, err
	}
	var refund RefundResult
	if err := json.Unmarshal(raw, &refund); err != nil {
		return nil, fmt.Errorf("decode refund response: %w", err)
	}
	c.log.Debug().Str("refund_id", refund.ID).Str("status", refund.Status).Msg("gateway refund created")
	return &refund, nil
}

// post sends an authenticated JSON request and returns the response
// body. Non-2xx responses become errors carrying a snippet of the body
// so failures are diagnosable from logs alone.
func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := raw
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, fmt.Errorf("gateway %s returned %d: %s", path, resp.StatusCode, snippet)
	}
	return raw, nil
}

// MinorUnits converts a major-unit amount to the gateway's minor
// currency unit (rupees to paise), truncating sub-paise precision.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}
