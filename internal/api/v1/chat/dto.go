package chat

import (
	"github.com/0xn1k/AIConflux/internal/models"
	"github.com/0xn1k/AIConflux/internal/services"
)

type ChatRequest struct {
	Message   string   `json:"message" binding:"required"`
	Models    []string `json:"models" binding:"required,min=1"`
	SessionID string   `json:"sessionId"`
}

type ChatResponse struct {
	Responses      []services.ModelResponse `json:"responses"`
	SessionID      string                   `json:"sessionId"`
	Tokens         int                      `json:"tokens"`
	UnlockedModels []string                 `json:"unlockedModels"`
}

// ChatErrorData carries the machine-checkable rejection flags the client
// branches on.
type ChatErrorData struct {
	NeedsTokens  bool     `json:"needsTokens,omitempty"`
	NeedsUnlock  bool     `json:"needsUnlock,omitempty"`
	LockedModels []string `json:"lockedModels,omitempty"`
}

type HistoryResponse struct {
	History []models.ChatTurn `json:"history"`
}

type SessionsResponse struct {
	Sessions []models.ChatSession `json:"sessions"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}
