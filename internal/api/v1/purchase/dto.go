package purchase

import "github.com/0xn1k/AIConflux/internal/models"

type TokenOrderRequest struct {
	PackageType string `json:"packageType" binding:"required"`
}

type ModelOrderRequest struct {
	Model string `json:"model" binding:"required"`
}

// OrderResponse is what the checkout widget needs. KeyID is the gateway's
// public key; the secret never leaves the server.
type OrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
	Model    string `json:"model,omitempty"`
}

type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

type VerifyResponse struct {
	Tokens         int      `json:"tokens"`
	UnlockedModels []string `json:"unlockedModels"`
	Message        string   `json:"message"`
}

type HistoryResponse struct {
	Payments []models.Payment `json:"payments"`
}
