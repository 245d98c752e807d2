package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"room-planner/internal/auth/models"
	"room-planner/internal/auth/repository"
	"room-planner/internal/auth/service"
	"room-planner/internal/common/middleware"
	"room-planner/internal/storage"
)

// ============================================================
// Auth Handler
// ============================================================

type AuthHandler struct {
	repo   *repository.Repository
	auth   *service.Authenticator
	kv     *storage.KV
	secure bool
}

func NewAuthHandler(repo *repository.Repository, auth *service.Authenticator, kv *storage.KV, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		repo:   repo,
		auth:   auth,
		kv:     kv,
		secure: secureCookies,
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token   string         `json:"token"`
	User    *models.User   `json:"user"`
	Session models.Session `json:"session"`
}

// Login проверяет пароль, выдает токен и подписанную cookie.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	log.Printf("[AUTH] Login request")

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req loginRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if req.Login == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "login and password required"})
	}

	user, err := h.repo.GetByCredentials(c.Context(), req.Login, req.Password)
	if err != nil {
		if !errors.Is(err, repository.ErrInvalidCredentials) {
			log.Printf("[AUTH] login error: %v", err)
		}
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	return h.startSession(c, user, http.StatusOK)
}

// Register создает пользователя и сразу открывает сессию.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Login == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "login and password required"})
	}

	user, err := h.repo.Create(c.Context(), req.Login, req.Password, req.Name, req.Email)
	if errors.Is(err, repository.ErrLoginTaken) {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "login already taken"})
	}
	if err != nil {
		log.Printf("[AUTH] register error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	return h.startSession(c, user, http.StatusCreated)
}

// Logout отзывает токен и очищает cookie.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token, ok := h.auth.Token(c)
	if ok {
		if userID, found := h.auth.Sessions().Resolve(token); found {
			h.writeState(c.Context(), userID, models.State{})
		}
		h.auth.Sessions().Revoke(token)
	}
	c.ClearCookie(service.CookieName)
	return c.SendStatus(http.StatusNoContent)
}

// Me возвращает текущего пользователя. Маршрут защищен RequireAuth.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, err := h.repo.GetByID(c.Context(), middleware.UserID(c))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(user)
}

// State returns the persisted auth-storage record of the caller.
func (h *AuthHandler) State(c fiber.Ctx) error {
	data, err := h.kv.Get(c.Context(), middleware.UserID(c), models.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(models.State{})
	}
	if err != nil {
		log.Printf("[AUTH] read state: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage unavailable"})
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// ============================================================
// Helpers
// ============================================================

func (h *AuthHandler) startSession(c fiber.Ctx, user *models.User, status int) error {
	sess := h.auth.Sessions().Issue(user.ID)

	value, err := h.auth.EncodeCookie(sess.Token)
	if err != nil {
		log.Printf("[AUTH] encode cookie: %v", err)
	} else {
		c.Cookie(&fiber.Cookie{
			Name:     service.CookieName,
			Value:    value,
			Path:     "/",
			HTTPOnly: true,
			Secure:   h.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	h.writeState(c.Context(), user.ID, models.State{User: user, Session: &sess, IsAuthenticated: true})
	log.Printf("[AUTH] session issued for %s", user.Login)

	return c.Status(status).JSON(loginResponse{Token: sess.Token, User: user, Session: sess})
}

// writeState stores the auth-storage blob; failures only get logged.
func (h *AuthHandler) writeState(ctx context.Context, userID string, st models.State) {
	data, err := json.Marshal(st)
	if err == nil {
		err = h.kv.Put(ctx, userID, models.StorageKey, data)
	}
	if err != nil {
		log.Printf("[AUTH] persist %s: %v", models.StorageKey, err)
	}
}
