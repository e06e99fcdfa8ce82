package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message in a conversation. Rows are append-only; timestamp
// ascending is the canonical read order.
type ChatTurn struct {
	ID        uint      `gorm:"primarykey"`
	UserEmail string    `gorm:"index;not null"`
	SessionID string    `gorm:"index;not null"`
	Role      string    `gorm:"type:varchar(20);not null"` // user | assistant
	Model     string    `gorm:"type:varchar(50);not null"` // model name, or "user" for user turns
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"index;precision:3"` // Millisecond precision
}

// ChatSession is derived from a group of turns sharing a session id. It is
// never stored; a session with zero turns does not exist.
type ChatSession struct {
	SessionID    string    `json:"sessionId"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	MessageCount int64     `json:"messageCount"`
	LastMessage  time.Time `json:"lastMessage"`
}
