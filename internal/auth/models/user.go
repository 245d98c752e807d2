package models

// ============================================================
// User Model
// ============================================================

// StorageKey is the per-user blob holding the last known auth state.
const StorageKey = "auth-storage"

type User struct {
	ID           string `json:"id" db:"id"`
	Login        string `json:"login" db:"login"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	CreatedAt    string `json:"created_at" db:"created_at"`
}

type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresAt string `json:"expiresAt"`
}

// State mirrors what a client needs to restore a signed-in view.
type State struct {
	User            *User    `json:"user"`
	Session         *Session `json:"session"`
	IsAuthenticated bool     `json:"isAuthenticated"`
}
