package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
	}, zerolog.Nop())
}

func TestCreateOrderSendsPaiseWithBasicAuth(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_x1","amount":49950,"currency":"INR","receipt":"fira_r1","status":"created"}`))
	})

	amount := decimal.RequireFromString("499.50")
	order, raw, err := c.CreateOrder(context.Background(), amount, "INR", "fira_r1")
	require.NoError(t, err)

	assert.Equal(t, "/v1/orders", gotPath)
	assert.EqualValues(t, 49950, gotBody["amount"], "rupees must cross the wire as paise")
	assert.Equal(t, "INR", gotBody["currency"])
	assert.Equal(t, "order_x1", order.ID)
	assert.Equal(t, int64(49950), order.Amount)
	assert.JSONEq(t, `{"id":"order_x1","amount":49950,"currency":"INR","receipt":"fira_r1","status":"created"}`, string(raw))
}

func TestCreateRefundTargetsPaymentAndCarriesNotes(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"rfnd_x1","amount":50000,"status":"processed"}`))
	})

	refund, err := c.CreateRefund(context.Background(), "pay_abc", decimal.NewFromInt(500), map[string]string{"reason": "event_cancelled"})
	require.NoError(t, err)

	assert.Equal(t, "/v1/payments/pay_abc/refund", gotPath)
	assert.EqualValues(t, 50000, gotBody["amount"])
	notes, ok := gotBody["notes"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "event_cancelled", notes["reason"])
	assert.Equal(t, "rfnd_x1", refund.ID)
	assert.Equal(t, "processed", refund.Status)
}

func TestGatewayErrorCarriesStatusAndBodySnippet(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount exceeds maximum refund"}}`))
	})

	_, err := c.CreateRefund(context.Background(), "pay_abc", decimal.NewFromInt(500), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "amount exceeds maximum refund")
}

func TestUnconfiguredClientRefusesOutboundCalls(t *testing.T) {
	c := New(Config{}, zerolog.Nop())
	assert.False(t, c.Configured())

	_, _, err := c.CreateOrder(context.Background(), decimal.NewFromInt(1), "INR", "r")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.CreateRefund(context.Background(), "pay_abc", decimal.NewFromInt(1), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// Without a secret there is nothing to verify against.
	assert.False(t, c.VerifySignature("order", "pay", "sig"))
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	c := New(Config{KeyID: "k", KeySecret: "s3cret"}, zerolog.Nop())

	good := Sign("s3cret", "order_x1|pay_abc")
	assert.True(t, c.VerifySignature("order_x1", "pay_abc", good))
	assert.False(t, c.VerifySignature("order_x1", "pay_abc", good+"0"))
	assert.False(t, c.VerifySignature("order_x2", "pay_abc", good))

	tampered := Sign("wrongkey", "order_x1|pay_abc")
	assert.False(t, c.VerifySignature("order_x1", "pay_abc", tampered))
}

func TestMinorUnitsTruncatesSubPaise(t *testing.T) {
	assert.Equal(t, int64(50000), MinorUnits(decimal.NewFromInt(500)))
	assert.Equal(t, int64(49950), MinorUnits(decimal.RequireFromString("499.50")))
	assert.Equal(t, int64(49999), MinorUnits(decimal.RequireFromString("499.999")))
}
