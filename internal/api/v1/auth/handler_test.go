package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/0xn1k/AIConflux/internal/catalog"
	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/middleware"
	"github.com/0xn1k/AIConflux/internal/models"
	"github.com/0xn1k/AIConflux/internal/utils"
)

func setupTestEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	os.Setenv("JWT_SECRET", "test_secret")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.Migrator().DropTable(&models.User{})
	if err := db.AutoMigrate(&models.User{}); err != nil {
		panic("failed to migrate database")
	}
	database.DB = db

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	database.RedisClient = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(mr.Close)

	return mr
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	RegisterRoutes(v1)

	// A protected probe route, to observe the denylist taking effect.
	authed := v1.Group("/")
	authed.Use(middleware.AuthMiddleware())
	authed.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.NewSuccessResponse("success", gin.H{"email": c.GetString("email")}))
	})

	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterGrantsInitialEntitlements(t *testing.T) {
	setupTestEnv(t)
	router := setupRouter()

	w := doJSON(router, "POST", "/api/v1/auth/register", RegisterInput{
		Email:    "new@example.com",
		Password: "secret123",
		Name:     "New User",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data AuthResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new@example.com", resp.Data.Email)
	assert.Equal(t, catalog.InitialTokens, resp.Data.Tokens)
	assert.ElementsMatch(t, catalog.FreeModels, resp.Data.UnlockedModels)
	assert.NotEmpty(t, resp.Data.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestEnv(t)
	router := setupRouter()

	input := RegisterInput{Email: "dup@example.com", Password: "secret123"}
	w := doJSON(router, "POST", "/api/v1/auth/register", input, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/register", input, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	setupTestEnv(t)
	router := setupRouter()

	w := doJSON(router, "POST", "/api/v1/auth/register", RegisterInput{
		Email:    "short@example.com",
		Password: "abc",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndLogoutFlow(t *testing.T) {
	setupTestEnv(t)
	router := setupRouter()

	w := doJSON(router, "POST", "/api/v1/auth/register", RegisterInput{
		Email:    "flow@example.com",
		Password: "secret123",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/login", LoginInput{
		Email:    "flow@example.com",
		Password: "secret123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data AuthResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp.Data.Token
	assert.NotEmpty(t, token)

	w = doJSON(router, "GET", "/api/v1/whoami", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// The token is dead after logout.
	w = doJSON(router, "GET", "/api/v1/whoami", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestEnv(t)
	router := setupRouter()

	w := doJSON(router, "POST", "/api/v1/auth/register", RegisterInput{
		Email:    "wrong@example.com",
		Password: "secret123",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/login", LoginInput{
		Email:    "wrong@example.com",
		Password: "not-the-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
