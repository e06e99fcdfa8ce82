package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/0xn1k/AIConflux/internal/catalog"
	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
	"github.com/0xn1k/AIConflux/internal/utils"
)

var ErrUserAlreadyExists = errors.New("user with this email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterUser creates an account with the initial token grant and the free
// model set unlocked. Name defaults to the local part of the email.
func RegisterUser(email, password, name string) (*models.User, error) {
	var existingUser models.User
	result := database.DB.Where("email = ?", email).First(&existingUser)
	if result.Error == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		Email:          email,
		Password:       string(hashedPassword),
		Name:           name,
		Tokens:         catalog.InitialTokens,
		UnlockedModels: append(models.StringSlice{}, catalog.FreeModels...),
	}

	if err := database.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func LoginUser(email, password string) (string, *models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.Email, user.Name)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}
