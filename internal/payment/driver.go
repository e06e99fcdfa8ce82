package payment

// Driver is the interface that all payment gateway drivers must implement.
type Driver interface {
	// SetConfig sets the configuration for the driver
	SetConfig(config map[string]string) error

	// CreateOrder registers a purchase intent with the gateway and returns the
	// gateway's order id. amount is in the smallest currency unit; notes is
	// receipt metadata kept by the gateway for reconciliation.
	CreateOrder(amount int, currency string, receipt string, notes map[string]string) (string, error)

	// VerifySignature checks the signature the checkout flow reported for a
	// captured payment against the order and payment ids.
	VerifySignature(orderID, paymentID, signature string) bool
}
