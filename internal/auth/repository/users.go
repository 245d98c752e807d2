package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"room-planner/internal/auth/models"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginTaken         = errors.New("login already taken")
)

// ============================================================
// Users Repository
// ============================================================

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Init убеждается в наличии администратора. Схема применяется заранее
// через storage.Migrate.
func (r *Repository) Init(ctx context.Context, adminLogin, adminPassword string) error {
	return r.ensureAdmin(ctx, adminLogin, adminPassword)
}

const userColumns = `id, login, password_hash, name, email, created_at`

func (r *Repository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE login = ?`)
	if err := r.db.GetContext(ctx, &u, query, login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByCredentials returns ErrInvalidCredentials for an unknown login and
// for a wrong password alike.
func (r *Repository) GetByCredentials(ctx context.Context, login, password string) (*models.User, error) {
	u, err := r.GetByLogin(ctx, login)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, login, password, name, email string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, errors.New("login and password required")
	}
	if _, err := r.GetByLogin(ctx, login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: string(hash),
		Name:         name,
		Email:        email,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	query := r.db.Rebind(`
        INSERT INTO users (` + userColumns + `)
        VALUES (?, ?, ?, ?, ?, ?)
    `)
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Login, u.PasswordHash, u.Name, u.Email, u.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// ============================================================
// Seeding
// ============================================================

func (r *Repository) ensureAdmin(ctx context.Context, login, password string) error {
	_, err := r.GetByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if _, err := r.Create(ctx, login, password, "Admin User", "admin@example.com"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
