package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is the read model the ledger surfaces consume. Account management
// (registration, verification, sessions) lives in the identity service; this
// API only reads the row a session's user id points at.
type User struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Email       string         `db:"email" json:"email"`
	Username    string         `db:"username" json:"username"`
	DisplayName sql.NullString `db:"display_name" json:"-"`
	AvatarURL   sql.NullString `db:"avatar_url" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName.Valid && u.DisplayName.String != "" {
		return u.DisplayName.String
	}
	return u.Username
}
