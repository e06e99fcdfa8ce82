package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0xn1k/AIConflux/internal/services"
	"github.com/0xn1k/AIConflux/internal/utils"
)

// Send godoc
// @Summary Send a prompt to the selected models
// @Description Fans the prompt out to every selected model concurrently and debits one token per model
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   ChatRequest  true  "Chat Input"
// @Success 200 {object} utils.Response{data=ChatResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response{data=ChatErrorData}
// @Router /chat [post]
func Send(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req ChatRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.HandleChatRequest(c.Request.Context(), email, c.GetString("name"), req.Message, req.Models, req.SessionID)
	if err != nil {
		var lockedErr *services.LockedModelsError
		switch {
		case errors.Is(err, services.ErrInsufficientTokens):
			c.JSON(http.StatusForbidden, utils.NewResponse(http.StatusForbidden,
				"Insufficient tokens. Please purchase more tokens to continue.",
				ChatErrorData{NeedsTokens: true}))
		case errors.As(err, &lockedErr):
			c.JSON(http.StatusForbidden, utils.NewResponse(http.StatusForbidden,
				lockedErr.Error(),
				ChatErrorData{NeedsUnlock: true, LockedModels: lockedErr.Models}))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Internal server error"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", ChatResponse{
		Responses:      result.Responses,
		SessionID:      result.SessionID,
		Tokens:         result.Tokens,
		UnlockedModels: result.UnlockedModels,
	}))
}

// History godoc
// @Summary Read chat history
// @Description Returns the caller's turns ascending by timestamp, optionally filtered by session
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId  query  string  false  "Session ID"
// @Success 200 {object} utils.Response{data=HistoryResponse}
// @Failure 401 {object} utils.Response
// @Router /chat/history [get]
func History(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	turns, err := services.GetChatHistory(email, c.Query("sessionId"), services.HistoryPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load history"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", HistoryResponse{History: turns}))
}

// Sessions godoc
// @Summary List chat sessions
// @Description Returns the derived session list, newest activity first
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=SessionsResponse}
// @Failure 401 {object} utils.Response
// @Router /chat/sessions [get]
func Sessions(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	sessions, err := services.GetChatSessions(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load sessions"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", SessionsResponse{Sessions: sessions}))
}

// DeleteSession godoc
// @Summary Delete one chat session
// @Tags chat
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   DeleteSessionRequest  true  "Session to delete"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /chat/sessions [delete]
func DeleteSession(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req DeleteSessionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := services.DeleteChatSession(email, req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to delete chat"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Chat deleted successfully", nil))
}

// ClearHistory godoc
// @Summary Clear all chat history
// @Tags chat
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /chat/history [delete]
func ClearHistory(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	if err := services.ClearChatHistory(email); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to clear history"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("History cleared successfully", nil))
}
