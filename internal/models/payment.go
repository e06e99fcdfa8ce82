package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentType string

const (
	PaymentTypeTokenPurchase PaymentType = "token_purchase"
	PaymentTypeModelUnlock   PaymentType = "model_unlock"
)

// Payment is one ledger entry. Created pending at order-creation time, it
// transitions exactly once to success or failed at verification time; both
// terminal states are absorbing. GatewayOrderID joins the creation and
// verification phases.
type Payment struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserEmail string        `gorm:"index;not null"`
	Type      PaymentType   `gorm:"type:varchar(32);not null"`
	Amount    int           `gorm:"not null"` // in INR
	Currency  string        `gorm:"type:varchar(8);not null;default:'INR'"`
	Status    PaymentStatus `gorm:"type:varchar(16);index;default:'pending'"`

	GatewayOrderID   string `gorm:"uniqueIndex;type:varchar(64);not null"`
	GatewayPaymentID string `gorm:"type:varchar(64)"`
	GatewaySignature string `gorm:"type:varchar(128)"`

	// For token purchases
	PackageType string `gorm:"type:varchar(16)"`
	TokensAdded int

	// For model unlocks
	Model string `gorm:"type:varchar(50)"`

	// Receipt metadata sent to the gateway, kept for reconciliation.
	// Never trusted for authorization.
	Notes datatypes.JSON `gorm:"type:json"`
}

// Terminal reports whether the payment has reached an absorbing state.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}
