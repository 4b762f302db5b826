package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks the authenticity of a payment callback. The
// provider signs `orderID|gatewayPaymentID` with HMAC-SHA256 using the
// key secret and sends the hex digest alongside the callback; we
// recompute it and compare in constant time. This is the sole
// authenticity check in the payment flow.
func (c *Client) VerifySignature(orderID, gatewayPaymentID, signature string) bool {
	if c.keySecret == "" {
		return false
	}
	expected := sign(c.keySecret, orderID+"|"+gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// sign computes the hex HMAC-SHA256 digest of payload under key.
func sign(key, payload string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign is exposed for tests and for building webhook fixtures.
func Sign(key, payload string) string { return sign(key, payload) }
