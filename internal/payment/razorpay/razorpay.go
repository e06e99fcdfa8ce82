package razorpay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xn1k/AIConflux/internal/utils"
)

// RazorpayDriver creates hosted orders over the Razorpay REST API and
// verifies checkout signatures. The signature scheme is fixed by the gateway:
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
type RazorpayDriver struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

func NewRazorpayDriver() *RazorpayDriver {
	return &RazorpayDriver{BaseURL: "https://api.razorpay.com"}
}

func (d *RazorpayDriver) SetConfig(config map[string]string) error {
	if val := config["base_url"]; val != "" {
		d.BaseURL = strings.TrimRight(val, "/")
	}

	if val := config["key_id"]; val != "" {
		d.KeyID = val
	} else {
		return errors.New("missing key_id in config")
	}

	if val := config["key_secret"]; val != "" {
		d.KeySecret = val
	} else {
		return errors.New("missing key_secret in config")
	}
	return nil
}

func (d *RazorpayDriver) CreateOrder(amount int, currency string, receipt string, notes map[string]string) (string, error) {
	requestBody := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		requestBody["notes"] = notes
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", d.BaseURL+"/v1/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(d.KeyID, d.KeySecret)

	client := utils.NewHTTPClient(15 * time.Second)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("order creation failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var response struct {
		ID    string `json:"id"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode order response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("gateway error: %s", response.Error.Description)
	}

	if response.ID == "" {
		return "", errors.New("gateway returned no order id")
	}

	return response.ID, nil
}

// VerifySignature recomputes the expected signature and compares in constant
// time. Exact byte match is required.
func (d *RazorpayDriver) VerifySignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(d.KeySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
