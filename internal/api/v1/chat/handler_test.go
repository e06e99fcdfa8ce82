package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
	"github.com/0xn1k/AIConflux/internal/providers"
)

type cannedProvider struct {
	reply string
}

func (p *cannedProvider) Complete(ctx context.Context, prompt string, history []providers.Message) (string, error) {
	return p.reply, nil
}

func setupTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.Migrator().DropTable(&models.User{}, &models.ChatTurn{}, &models.Payment{})
	err = db.AutoMigrate(&models.User{}, &models.ChatTurn{}, &models.Payment{})
	if err != nil {
		panic("failed to migrate database")
	}

	database.DB = db
}

func setupRouter(email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("/api/v1")
	authed.Use(func(c *gin.Context) {
		c.Set("email", email)
		c.Set("name", "Test User")
	})
	RegisterRoutes(authed)
	return router
}

func postChat(router *gin.Engine, body ChatRequest) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/v1/chat", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendSuccess(t *testing.T) {
	setupTestDB()
	providers.Register("ChatGPT", &cannedProvider{reply: "hello back"})

	router := setupRouter("chat@example.com")
	w := postChat(router, ChatRequest{Message: "hello", Models: []string{"ChatGPT"}})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int          `json:"status"`
		Data   ChatResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Status)
	assert.Len(t, resp.Data.Responses, 1)
	assert.Equal(t, "hello back", resp.Data.Responses[0].Response)
	assert.NotEmpty(t, resp.Data.SessionID)
	assert.Equal(t, 9, resp.Data.Tokens)
}

func TestSendInsufficientTokensFlag(t *testing.T) {
	setupTestDB()
	providers.Register("ChatGPT", &cannedProvider{reply: "hello back"})

	user := models.User{
		Email:          "empty@example.com",
		Name:           "Empty",
		Tokens:         0,
		UnlockedModels: models.StringSlice{"ChatGPT", "DeepSeek", "Gemini"},
	}
	assert.NoError(t, database.DB.Create(&user).Error)

	router := setupRouter("empty@example.com")
	w := postChat(router, ChatRequest{Message: "hello", Models: []string{"ChatGPT"}})

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Status int           `json:"status"`
		Data   ChatErrorData `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.NeedsTokens)
	assert.False(t, resp.Data.NeedsUnlock)
}

func TestSendLockedModelsFlag(t *testing.T) {
	setupTestDB()

	router := setupRouter("locked@example.com")
	w := postChat(router, ChatRequest{Message: "hello", Models: []string{"Claude"}})

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Status int           `json:"status"`
		Data   ChatErrorData `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.NeedsUnlock)
	assert.Equal(t, []string{"Claude"}, resp.Data.LockedModels)
}

func TestSendRejectsEmptyModelList(t *testing.T) {
	setupTestDB()

	router := setupRouter("chat@example.com")
	w := postChat(router, ChatRequest{Message: "hello", Models: []string{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	setupTestDB()
	providers.Register("ChatGPT", &cannedProvider{reply: "hello back"})

	router := setupRouter("hist@example.com")
	w := postChat(router, ChatRequest{Message: "hello", Models: []string{"ChatGPT"}})
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/api/v1/chat/history", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data HistoryResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.History, 2)
	assert.Equal(t, models.RoleUser, resp.Data.History[0].Role)
	assert.Equal(t, models.RoleAssistant, resp.Data.History[1].Role)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	setupTestDB()
	providers.Register("ChatGPT", &cannedProvider{reply: "hello back"})

	router := setupRouter("del@example.com")
	w := postChat(router, ChatRequest{Message: "hello", Models: []string{"ChatGPT"}})
	assert.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Data ChatResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	payload, _ := json.Marshal(DeleteSessionRequest{SessionID: created.Data.SessionID})
	req := httptest.NewRequest("DELETE", "/api/v1/chat/sessions", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/chat/history", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Data HistoryResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.History)
}
