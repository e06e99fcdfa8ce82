package services

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
)

func seedTurn(t *testing.T, email, sessionID, role, model, content string, at time.Time) {
	t.Helper()
	turn := models.ChatTurn{
		UserEmail: email,
		SessionID: sessionID,
		Role:      role,
		Model:     model,
		Content:   content,
		Timestamp: at,
	}
	assert.NoError(t, database.DB.Create(&turn).Error)
}

func TestGetChatHistoryAscendingAndFiltered(t *testing.T) {
	setupTestDB()

	base := time.Now().Add(-time.Hour)
	seedTurn(t, "hist@example.com", "sess_a", models.RoleUser, "user", "first", base)
	seedTurn(t, "hist@example.com", "sess_a", models.RoleAssistant, "ChatGPT", "answer", base.Add(time.Second))
	seedTurn(t, "hist@example.com", "sess_b", models.RoleUser, "user", "other session", base.Add(2*time.Second))
	seedTurn(t, "other@example.com", "sess_a", models.RoleUser, "user", "not mine", base)

	all, err := GetChatHistory("hist@example.com", "", 0)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.Before(all[i-1].Timestamp))
	}

	only, err := GetChatHistory("hist@example.com", "sess_a", 0)
	assert.NoError(t, err)
	assert.Len(t, only, 2)
	assert.Equal(t, "first", only[0].Content)
}

func TestGetChatHistoryLimitCap(t *testing.T) {
	setupTestDB()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < HistoryPageSize+10; i++ {
		seedTurn(t, "big@example.com", "sess_big", models.RoleUser, "user", fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*time.Second))
	}

	turns, err := GetChatHistory("big@example.com", "", HistoryPageSize+10)
	assert.NoError(t, err)
	assert.Len(t, turns, HistoryPageSize)
}

func TestGetChatSessions(t *testing.T) {
	setupTestDB()

	base := time.Now().Add(-time.Hour)
	seedTurn(t, "sess@example.com", "sess_old", models.RoleUser, "user", "old question", base)
	seedTurn(t, "sess@example.com", "sess_old", models.RoleAssistant, "ChatGPT", "old answer", base.Add(time.Second))
	seedTurn(t, "sess@example.com", "sess_new", models.RoleUser, "user", "new question", base.Add(time.Minute))

	sessions, err := GetChatSessions("sess@example.com")
	assert.NoError(t, err)
	assert.Len(t, sessions, 2)

	// Newest activity first.
	assert.Equal(t, "sess_new", sessions[0].SessionID)
	assert.Equal(t, int64(1), sessions[0].MessageCount)
	assert.Equal(t, "new question", sessions[0].Preview)

	assert.Equal(t, "sess_old", sessions[1].SessionID)
	assert.Equal(t, int64(2), sessions[1].MessageCount)
	assert.Equal(t, "old question", sessions[1].Title)
}

func TestGetChatSessionsTruncatesLongTitle(t *testing.T) {
	setupTestDB()

	long := strings.Repeat("x", 80)
	seedTurn(t, "long@example.com", "sess_long", models.RoleUser, "user", long, time.Now())

	sessions, err := GetChatSessions("long@example.com")
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, strings.Repeat("x", 50)+"...", sessions[0].Title)
	assert.Equal(t, long, sessions[0].Preview)
}

func TestGetChatSessionsTruncatesOnRuneBoundary(t *testing.T) {
	setupTestDB()

	long := strings.Repeat("界", 60)
	seedTurn(t, "cjk@example.com", "sess_cjk", models.RoleUser, "user", long, time.Now())

	sessions, err := GetChatSessions("cjk@example.com")
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, strings.Repeat("界", 50)+"...", sessions[0].Title)
	assert.True(t, utf8.ValidString(sessions[0].Title))
}

func TestDeleteChatSession(t *testing.T) {
	setupTestDB()

	now := time.Now()
	seedTurn(t, "del@example.com", "sess_keep", models.RoleUser, "user", "keep me", now)
	seedTurn(t, "del@example.com", "sess_drop", models.RoleUser, "user", "drop me", now)
	seedTurn(t, "other@example.com", "sess_drop", models.RoleUser, "user", "not yours", now)

	assert.NoError(t, DeleteChatSession("del@example.com", "sess_drop"))

	mine, err := GetChatHistory("del@example.com", "", 0)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "keep me", mine[0].Content)

	// Another account's turns in the same session survive.
	theirs, err := GetChatHistory("other@example.com", "sess_drop", 0)
	assert.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestClearChatHistory(t *testing.T) {
	setupTestDB()

	now := time.Now()
	seedTurn(t, "clear@example.com", "sess_1", models.RoleUser, "user", "a", now)
	seedTurn(t, "clear@example.com", "sess_2", models.RoleUser, "user", "b", now)
	seedTurn(t, "other@example.com", "sess_3", models.RoleUser, "user", "c", now)

	assert.NoError(t, ClearChatHistory("clear@example.com"))

	mine, err := GetChatHistory("clear@example.com", "", 0)
	assert.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := GetChatHistory("other@example.com", "", 0)
	assert.NoError(t, err)
	assert.Len(t, theirs, 1)
}
