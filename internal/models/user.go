package models

import "time"

// User is an account keyed by email. Tokens is the spendable credit balance,
// UnlockedModels is always a superset of the configured free model set.
type User struct {
	ID             uint `gorm:"primarykey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Email          string      `gorm:"uniqueIndex;not null"`
	Password       string      `gorm:"not null"`
	Name           string      `gorm:"type:varchar(100)"`
	Tokens         int         `gorm:"not null;default:0"`
	UnlockedModels StringSlice `gorm:"type:text;not null"`
}
