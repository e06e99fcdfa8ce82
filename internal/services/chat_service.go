package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xn1k/AIConflux/config"
	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
	"github.com/0xn1k/AIConflux/internal/providers"
)

// LockedModelsError reports which of the requested models the account has not
// unlocked. The lock check rejects the whole request before any provider call.
type LockedModelsError struct {
	Models []string
}

func (e *LockedModelsError) Error() string {
	return fmt.Sprintf("you need to unlock these models first: %s", strings.Join(e.Models, ", "))
}

// ModelResponse is one provider's answer within a fan-out batch.
type ModelResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// ChatResult carries the batch responses plus the refreshed entitlement
// snapshot, so the caller can update its display without a second request.
type ChatResult struct {
	Responses      []ModelResponse
	SessionID      string
	Tokens         int
	UnlockedModels []string
}

// NewSessionID allocates an opaque session token.
func NewSessionID() string {
	return "sess_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

var (
	providerTimeoutOnce sync.Once
	providerTimeout     time.Duration
)

func resolveProviderTimeout(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.ProviderTimeout > 0 {
		return time.Duration(cfg.ProviderTimeout) * time.Second
	}
	return 30 * time.Second
}

// callTimeout reads the configured per-provider timeout once; config loading
// touches the filesystem and does not belong on the request path.
func callTimeout() time.Duration {
	providerTimeoutOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			cfg = nil
		}
		providerTimeout = resolveProviderTimeout(cfg)
	})
	return providerTimeout
}

// HandleChatRequest drives one metered fan-out: resolve the account, run the
// entitlement guards, record the user turn, dispatch to every selected model
// concurrently, record the answers, then settle the debit.
//
// Both guards are terminal rejections and run before any upstream call, so a
// rejected request never spends. Past the guards the batch always succeeds:
// a provider failure becomes that model's answer text (see providers.Call)
// rather than aborting the siblings.
func HandleChatRequest(ctx context.Context, email, name, message string, modelNames []string, sessionID string) (*ChatResult, error) {
	user, err := GetOrCreateUser(email, name)
	if err != nil {
		return nil, err
	}

	tokensRequired := len(modelNames)
	if user.Tokens < tokensRequired {
		return nil, ErrInsufficientTokens
	}

	var locked []string
	for _, m := range modelNames {
		if !user.UnlockedModels.Contains(m) {
			locked = append(locked, m)
		}
	}
	if len(locked) > 0 {
		return nil, &LockedModelsError{Models: locked}
	}

	if sessionID == "" {
		sessionID = NewSessionID()
	}

	// The user turn is written before dispatch so that user -> assistant
	// ordering within the session holds for every model.
	userTurn := models.ChatTurn{
		UserEmail: email,
		SessionID: sessionID,
		Role:      models.RoleUser,
		Model:     "user",
		Content:   message,
		Timestamp: time.Now(),
	}
	if err := database.DB.Create(&userTurn).Error; err != nil {
		return nil, err
	}

	timeout := callTimeout()

	responses := make([]ModelResponse, len(modelNames))
	var wg sync.WaitGroup
	for i, m := range modelNames {
		wg.Add(1)
		go func(i int, model string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			responses[i] = ModelResponse{
				Model:    model,
				Response: providers.Call(callCtx, model, message, nil),
			}
		}(i, m)
	}
	wg.Wait()

	for _, r := range responses {
		turn := models.ChatTurn{
			UserEmail: email,
			SessionID: sessionID,
			Role:      models.RoleAssistant,
			Model:     r.Model,
			Content:   r.Response,
			Timestamp: time.Now(),
		}
		if err := database.DB.Create(&turn).Error; err != nil {
			return nil, err
		}
	}

	if err := DebitTokens(email, tokensRequired); err != nil {
		if !errors.Is(err, ErrInsufficientTokens) {
			return nil, err
		}
		// A concurrent request drained the balance between the guard and the
		// settle. The answers are already delivered, so the batch still
		// succeeds; the conditional update kept the balance non-negative.
		zap.L().Warn("post-dispatch debit lost to a concurrent spend",
			zap.String("email", email),
			zap.Int("tokens_required", tokensRequired),
		)
	}

	refreshed, err := GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	return &ChatResult{
		Responses:      responses,
		SessionID:      sessionID,
		Tokens:         refreshed.Tokens,
		UnlockedModels: refreshed.UnlockedModels,
	}, nil
}
