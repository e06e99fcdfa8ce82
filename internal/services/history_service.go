package services

import (
	"time"

	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/models"
)

const (
	// HistoryPageSize caps a single history read.
	HistoryPageSize = 50
	// SessionPageSize caps the derived session listing.
	SessionPageSize = 20
	sessionTitleLen = 50
)

// GetChatHistory returns the caller's turns ascending by timestamp, optionally
// filtered to one session.
func GetChatHistory(email, sessionID string, limit int) ([]models.ChatTurn, error) {
	if limit <= 0 || limit > HistoryPageSize {
		limit = HistoryPageSize
	}

	query := database.DB.Where("user_email = ?", email)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}

	var turns []models.ChatTurn
	if err := query.Order("timestamp asc").Limit(limit).Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// GetChatSessions derives the session list from the stored turns: one row per
// session id, newest activity first, title and preview taken from the first
// user turn.
func GetChatSessions(email string) ([]models.ChatSession, error) {
	type sessionRow struct {
		SessionID    string
		MessageCount int64
		LastMessage  time.Time
	}

	var rows []sessionRow
	err := database.DB.Model(&models.ChatTurn{}).
		Select("session_id, COUNT(*) AS message_count, MAX(timestamp) AS last_message").
		Where("user_email = ?", email).
		Group("session_id").
		Order("last_message DESC").
		Limit(SessionPageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]models.ChatSession, 0, len(rows))
	for _, row := range rows {
		preview := "New conversation"

		var first models.ChatTurn
		err := database.DB.
			Where("user_email = ? AND session_id = ? AND role = ?", email, row.SessionID, models.RoleUser).
			Order("timestamp asc").
			First(&first).Error
		if err == nil && first.Content != "" {
			preview = first.Content
		}

		// Truncate on runes, not bytes, so multi-byte content stays valid.
		title := preview
		if runes := []rune(title); len(runes) > sessionTitleLen {
			title = string(runes[:sessionTitleLen]) + "..."
		}

		sessions = append(sessions, models.ChatSession{
			SessionID:    row.SessionID,
			Title:        title,
			Preview:      preview,
			MessageCount: row.MessageCount,
			LastMessage:  row.LastMessage,
		})
	}

	return sessions, nil
}

// DeleteChatSession removes every turn of one session.
func DeleteChatSession(email, sessionID string) error {
	return database.DB.
		Where("user_email = ? AND session_id = ?", email, sessionID).
		Delete(&models.ChatTurn{}).Error
}

// ClearChatHistory removes every turn the account owns.
func ClearChatHistory(email string) error {
	return database.DB.
		Where("user_email = ?", email).
		Delete(&models.ChatTurn{}).Error
}
