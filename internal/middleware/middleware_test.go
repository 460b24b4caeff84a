package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"securenotes/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sessionEcho(t *testing.T, want auth.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := SessionFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, want, got)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestWebAuthRedirectsWithoutCookie(t *testing.T) {
	m := auth.NewManager("test-secret")
	h := WebAuth(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAPIAuthRejectsWithoutCookie(t *testing.T) {
	m := auth.NewManager("test-secret")
	h := APIAuth(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/note/6", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Non authentifié"}`, w.Body.String())
}

func TestAuthMiddlewaresPassSessionDownstream(t *testing.T) {
	m := auth.NewManager("test-secret")
	session := auth.Session{UserID: 2, Username: "john"}

	for name, mw := range map[string]func(http.Handler) http.Handler{
		"web": WebAuth(m),
		"api": APIAuth(m),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: m.EncodeCookie(session)})
			w := httptest.NewRecorder()
			mw(sessionEcho(t, session)).ServeHTTP(w, req)
			assert.Equal(t, http.StatusNoContent, w.Code)
		})
	}
}

func TestAPIAuthRejectsTamperedCookie(t *testing.T) {
	m := auth.NewManager("test-secret")
	h := APIAuth(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/note/6", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "forged.cookie"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoggingPassesThrough(t *testing.T) {
	h := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
