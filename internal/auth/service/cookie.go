package service

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gorilla/securecookie"
)

// CookieName is the session cookie set on login.
const CookieName = "planner_session"

// ============================================================
// Authenticator
// ============================================================

// Authenticator resolves the caller from a bearer token or the signed
// session cookie.
type Authenticator struct {
	sessions *SessionManager
	codec    *securecookie.SecureCookie
}

// NewAuthenticator builds the cookie codec. An empty hashKey generates a
// random one, so cookies do not survive a restart.
func NewAuthenticator(sessions *SessionManager, hashKey, blockKey string) *Authenticator {
	hk := []byte(hashKey)
	if len(hk) == 0 {
		log.Printf("[AUTH] COOKIE_HASH_KEY not set, using a random key")
		hk = securecookie.GenerateRandomKey(32)
	}
	var bk []byte
	if blockKey != "" {
		bk = []byte(blockKey)
	}
	return &Authenticator{
		sessions: sessions,
		codec:    securecookie.New(hk, bk),
	}
}

func (a *Authenticator) Sessions() *SessionManager {
	return a.sessions
}

func (a *Authenticator) EncodeCookie(token string) (string, error) {
	return a.codec.Encode(CookieName, token)
}

func (a *Authenticator) DecodeCookie(value string) (string, bool) {
	var token string
	if err := a.codec.Decode(CookieName, value, &token); err != nil {
		if cerr, ok := err.(securecookie.Error); ok && cerr.IsDecode() {
			return "", false
		}
		log.Printf("[AUTH] cookie decode: %v", err)
		return "", false
	}
	return token, true
}

// Token extracts the raw session token of a request.
func (a *Authenticator) Token(c fiber.Ctx) (string, bool) {
	if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), true
	}
	if v := c.Cookies(CookieName); v != "" {
		return a.DecodeCookie(v)
	}
	return "", false
}

// FromRequest returns the user id of an authenticated request.
func (a *Authenticator) FromRequest(c fiber.Ctx) (string, bool) {
	token, ok := a.Token(c)
	if !ok {
		return "", false
	}
	return a.sessions.Resolve(token)
}
