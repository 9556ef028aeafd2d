package database

import (
	"database/sql"
	"time"
)

// Verification is one completed membership check.
type Verification struct {
	ID              uint      `db:"id"`
	UserID          int64     `db:"user_id"`
	ChatID          int64     `db:"chat_id"`
	Joined          int       `db:"joined"`
	Total           int       `db:"total"`
	AllJoined       bool      `db:"all_joined"`
	MissingChannels string    `db:"missing_channels"` // comma separated channel ids
	CheckedAt       time.Time `db:"checked_at"`
}

// Stats aggregates the verification log.
type Stats struct {
	TotalChecks  int64        `db:"total_checks"`
	PassedChecks int64        `db:"passed_checks"`
	UniqueUsers  int64        `db:"unique_users"`
	PassedUsers  int64        `db:"passed_users"`
	LastCheckAt  sql.NullTime `db:"-"`
}
