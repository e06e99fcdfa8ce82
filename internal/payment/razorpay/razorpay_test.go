package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDriver(baseURL string) *RazorpayDriver {
	d := NewRazorpayDriver()
	d.SetConfig(map[string]string{
		"base_url":   baseURL,
		"key_id":     "rzp_test_key",
		"key_secret": "test_secret_key",
	})
	return d
}

func TestSetConfigRequiresCredentials(t *testing.T) {
	d := NewRazorpayDriver()
	assert.Error(t, d.SetConfig(map[string]string{"key_secret": "s"}))
	assert.Error(t, d.SetConfig(map[string]string{"key_id": "k"}))
	assert.NoError(t, d.SetConfig(map[string]string{"key_id": "k", "key_secret": "s"}))
	assert.Equal(t, "https://api.razorpay.com", d.BaseURL)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "test_secret_key", pass)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(29900), body["amount"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "receipt_1", body["receipt"])

		json.NewEncoder(w).Encode(map[string]string{"id": "order_123"})
	}))
	defer srv.Close()

	d := testDriver(srv.URL)
	orderID, err := d.CreateOrder(29900, "INR", "receipt_1", map[string]string{"email": "a@b.c"})
	assert.NoError(t, err)
	assert.Equal(t, "order_123", orderID)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"description": "amount too small"},
		})
	}))
	defer srv.Close()

	d := testDriver(srv.URL)
	_, err := d.CreateOrder(1, "INR", "receipt_2", nil)
	assert.ErrorContains(t, err, "amount too small")
}

func TestVerifySignature(t *testing.T) {
	d := testDriver("http://unused")

	h := hmac.New(sha256.New, []byte("test_secret_key"))
	h.Write([]byte("order_123|pay_456"))
	valid := hex.EncodeToString(h.Sum(nil))

	assert.True(t, d.VerifySignature("order_123", "pay_456", valid))
	assert.False(t, d.VerifySignature("order_123", "pay_456", ""))
	assert.False(t, d.VerifySignature("order_123", "pay_457", valid))
	assert.False(t, d.VerifySignature("order_124", "pay_456", valid))

	// Signature is sensitive to the secret.
	other := testDriver("http://unused")
	other.KeySecret = "different_secret"
	assert.False(t, other.VerifySignature("order_123", "pay_456", valid))
}
