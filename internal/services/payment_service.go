package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/0xn1k/AIConflux/config"
	"github.com/0xn1k/AIConflux/internal/catalog"
	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
	"github.com/0xn1k/AIConflux/internal/payment"
	"github.com/0xn1k/AIConflux/internal/payment/razorpay"
)

var (
	ErrInvalidPackage        = errors.New("invalid package type")
	ErrInvalidModel          = errors.New("invalid model")
	ErrModelAlreadyUnlocked  = errors.New("you already have access to this model")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyProcessed = errors.New("order already processed")
	ErrInvalidSignature      = errors.New("invalid payment signature")
	ErrGatewayNotConfigured  = errors.New("payment gateway not configured, please contact administrator")
)

// OrderDetails is what the checkout widget needs to open a hosted payment.
// The secret key never appears here.
type OrderDetails struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

func newGatewayDriver() (payment.Driver, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.GatewayConfigured() {
		return nil, nil, ErrGatewayNotConfigured
	}

	driver := razorpay.NewRazorpayDriver()
	if err := driver.SetConfig(map[string]string{
		"base_url":   cfg.RazorpayBaseURL,
		"key_id":     cfg.RazorpayKeyID,
		"key_secret": cfg.RazorpayKeySecret,
	}); err != nil {
		return nil, nil, err
	}
	return driver, cfg, nil
}

// CreateTokenOrder opens a hosted order for a token package and records the
// pending ledger entry keyed by the gateway's order id.
func CreateTokenOrder(email, packageType string) (*OrderDetails, error) {
	pkg, ok := catalog.TokenPackages[packageType]
	if !ok {
		return nil, ErrInvalidPackage
	}

	if _, err := GetUserByEmail(email); err != nil {
		return nil, err
	}

	driver, cfg, err := newGatewayDriver()
	if err != nil {
		return nil, err
	}

	notes := map[string]string{
		"email":        email,
		"package_type": packageType,
		"tokens":       strconv.Itoa(pkg.Tokens),
	}

	receipt := fmt.Sprintf("token_%d", time.Now().UnixMilli())
	orderID, err := driver.CreateOrder(pkg.Price*100, "INR", receipt, notes)
	if err != nil {
		return nil, err
	}

	notesJSON, _ := json.Marshal(notes)
	record := models.Payment{
		UserEmail:      email,
		Type:           models.PaymentTypeTokenPurchase,
		Amount:         pkg.Price,
		Currency:       "INR",
		Status:         models.PaymentStatusPending,
		GatewayOrderID: orderID,
		PackageType:    packageType,
		TokensAdded:    pkg.Tokens,
		Notes:          datatypes.JSON(notesJSON),
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	return &OrderDetails{
		OrderID:  orderID,
		Amount:   pkg.Price * 100,
		Currency: "INR",
		KeyID:    cfg.RazorpayKeyID,
	}, nil
}

// CreateModelOrder opens a hosted order for a premium model unlock.
func CreateModelOrder(email, model string) (*OrderDetails, error) {
	if !catalog.IsPremium(model) {
		return nil, ErrInvalidModel
	}
	price, ok := catalog.ModelPrices[model]
	if !ok {
		return nil, ErrInvalidModel
	}

	user, err := GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user.UnlockedModels.Contains(model) {
		return nil, ErrModelAlreadyUnlocked
	}

	driver, cfg, err := newGatewayDriver()
	if err != nil {
		return nil, err
	}

	notes := map[string]string{
		"email": email,
		"model": model,
	}

	receipt := fmt.Sprintf("model_%s_%d", model, time.Now().UnixMilli())
	orderID, err := driver.CreateOrder(price*100, "INR", receipt, notes)
	if err != nil {
		return nil, err
	}

	notesJSON, _ := json.Marshal(notes)
	record := models.Payment{
		UserEmail:      email,
		Type:           models.PaymentTypeModelUnlock,
		Amount:         price,
		Currency:       "INR",
		Status:         models.PaymentStatusPending,
		GatewayOrderID: orderID,
		Model:          model,
		Notes:          datatypes.JSON(notesJSON),
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	return &OrderDetails{
		OrderID:  orderID,
		Amount:   price * 100,
		Currency: "INR",
		KeyID:    cfg.RazorpayKeyID,
	}, nil
}

// VerifyPayment settles one pending order. The item applied comes from the
// stored ledger entry, not from the caller. A bad signature is a terminal
// failure; a good one applies the entitlement effect and marks the order
// success inside a single transaction, so a replayed verify either sees the
// pending order exactly once or is rejected as already processed.
func VerifyPayment(email, orderID, paymentID, signature string) (*models.User, string, error) {
	driver, _, err := newGatewayDriver()
	if err != nil {
		return nil, "", err
	}

	var order models.Payment
	if err := database.DB.Where("gateway_order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrOrderNotFound
		}
		return nil, "", err
	}

	if order.UserEmail != email {
		return nil, "", ErrOrderNotFound
	}
	if order.Terminal() {
		return nil, "", ErrOrderAlreadyProcessed
	}

	if !driver.VerifySignature(orderID, paymentID, signature) {
		result := database.DB.Model(&models.Payment{}).
			Where("id = ? AND status = ?", order.ID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":     models.PaymentStatusFailed,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return nil, "", result.Error
		}
		if result.RowsAffected == 0 {
			return nil, "", ErrOrderAlreadyProcessed
		}
		return nil, "", ErrInvalidSignature
	}

	var message string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Claim the terminal transition before touching the account. The
		// conditional update is the serialization point: of two concurrent
		// verifies of the same pending order, only the one whose claim
		// affects a row applies the entitlement effect.
		claim := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", order.ID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":             models.PaymentStatusSuccess,
				"gateway_payment_id": paymentID,
				"gateway_signature":  signature,
				"updated_at":         time.Now(),
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrOrderAlreadyProcessed
		}

		var user models.User
		if err := tx.Where("email = ?", order.UserEmail).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		switch order.Type {
		case models.PaymentTypeTokenPurchase:
			if err := tx.Model(&user).Update("tokens", gorm.Expr("tokens + ?", order.TokensAdded)).Error; err != nil {
				return err
			}
			message = fmt.Sprintf("Successfully added %d tokens!", order.TokensAdded)

		case models.PaymentTypeModelUnlock:
			// Defends against a double-submitted success callback.
			if user.UnlockedModels.Contains(order.Model) {
				return ErrModelAlreadyUnlocked
			}
			user.UnlockedModels = append(user.UnlockedModels, order.Model)
			if err := tx.Model(&user).Update("unlocked_models", user.UnlockedModels).Error; err != nil {
				return err
			}
			message = fmt.Sprintf("Successfully unlocked %s!", order.Model)

		default:
			return fmt.Errorf("unknown payment type: %s", order.Type)
		}

		return nil
	})
	if err != nil {
		return nil, "", err
	}

	refreshed, err := GetUserByEmail(order.UserEmail)
	if err != nil {
		return nil, "", err
	}
	return refreshed, message, nil
}

// GetPaymentHistory returns the caller's ledger entries, newest first.
func GetPaymentHistory(email string, limit int) ([]models.Payment, error) {
	if limit <= 0 || limit > HistoryPageSize {
		limit = HistoryPageSize
	}

	var payments []models.Payment
	err := database.DB.
		Where("user_email = ?", email).
		Order("created_at desc").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
