// Package auth validates credentials and encodes the resulting session as
// a signed cookie.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"securenotes/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// CookieName is the session cookie set on successful login.
const CookieName = "session"

const sessionTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so a login response never says which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session identifies the authenticated caller for the lifetime of one
// request. It is decoded from the cookie at the request boundary and passed
// down explicitly; handlers never reach back into the cookie themselves.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type cookiePayload struct {
	Session
	ExpiresAt int64 `json:"exp"`
}

// Manager checks credentials and signs session cookies. Immutable after
// construction.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Authenticate looks the user up by exact username and verifies the
// password against the stored bcrypt hash. Any failure collapses into
// ErrInvalidCredentials.
func (m *Manager) Authenticate(ctx context.Context, s store.Store, username, password string) (Session, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return Session{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

// EncodeCookie returns the signed cookie value for a session.
// Format: base64url(payload JSON) "." base64url(HMAC-SHA256 of the payload).
func (m *Manager) EncodeCookie(s Session) string {
	payload, _ := json.Marshal(cookiePayload{
		Session:   s,
		ExpiresAt: time.Now().Add(sessionTTL).Unix(),
	})
	data := base64.RawURLEncoding.EncodeToString(payload)
	return data + "." + m.sign(data)
}

// DecodeCookie validates the signature and expiry and returns the embedded
// session.
func (m *Manager) DecodeCookie(value string) (Session, error) {
	data, sig, ok := strings.Cut(value, ".")
	if !ok {
		return Session{}, fmt.Errorf("invalid cookie format")
	}

	if !hmac.Equal([]byte(m.sign(data)), []byte(sig)) {
		return Session{}, fmt.Errorf("invalid signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return Session{}, fmt.Errorf("invalid cookie encoding")
	}

	var payload cookiePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Session{}, fmt.Errorf("invalid cookie payload")
	}
	if time.Now().Unix() > payload.ExpiresAt {
		return Session{}, fmt.Errorf("cookie expired")
	}

	return payload.Session, nil
}

func (m *Manager) sign(data string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// SessionFromRequest decodes the session cookie on the request, if any.
func (m *Manager) SessionFromRequest(r *http.Request) (Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, err
	}
	return m.DecodeCookie(c.Value)
}

// SetCookie sets the signed session cookie on the response.
func (m *Manager) SetCookie(w http.ResponseWriter, s Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.EncodeCookie(s),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL / time.Second),
	})
}

// ClearCookie unconditionally removes the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
