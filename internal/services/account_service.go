package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/0xn1k/AIConflux/internal/catalog"
	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientTokens = errors.New("insufficient tokens, please purchase more tokens to continue")
)

// GetOrCreateUser fetches the account for email, provisioning it lazily with
// the initial token grant and the free model set. Existing accounts missing
// any currently configured free model get those models unioned in before the
// account is returned; the catalog can grow after a row was written.
func GetOrCreateUser(email, name string) (*models.User, error) {
	var user models.User
	err := database.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:          email,
			Name:           name,
			Tokens:         catalog.InitialTokens,
			UnlockedModels: append(models.StringSlice{}, catalog.FreeModels...),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, m := range catalog.FreeModels {
		if !user.UnlockedModels.Contains(m) {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		user.UnlockedModels = append(user.UnlockedModels, missing...)
		if err := database.DB.Model(&user).Update("unlocked_models", user.UnlockedModels).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// GetUserByEmail fetches an account without provisioning it.
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DebitTokens decrements the balance by amount. The decrement is a single
// conditional update guarded on sufficiency; the RowsAffected check is the
// serialization point for concurrent spends against the same account.
func DebitTokens(email string, amount int) error {
	result := database.DB.Model(&models.User{}).
		Where("email = ? AND tokens >= ?", email, amount).
		Update("tokens", gorm.Expr("tokens - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrAccountNotFound
		}
		return ErrInsufficientTokens
	}
	return nil
}

// CreditTokens increments the balance by amount.
func CreditTokens(email string, amount int) error {
	result := database.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("tokens", gorm.Expr("tokens + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GrantUnlock adds model to the account's unlocked set. Idempotent.
func GrantUnlock(email, model string) error {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if user.UnlockedModels.Contains(model) {
		return nil
	}

	user.UnlockedModels = append(user.UnlockedModels, model)
	return database.DB.Model(&user).Update("unlocked_models", user.UnlockedModels).Error
}
