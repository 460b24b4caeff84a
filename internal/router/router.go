// Package router assembles the HTTP surface: the HTML routes, the JSON
// API and the unauthenticated debug endpoint.
package router

import (
	"net/http"

	"securenotes/internal/api"
	"securenotes/internal/auth"
	"securenotes/internal/middleware"
	"securenotes/internal/web"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New builds the router.
//
// Routes:
//
//	GET  /                 → redirect to /notes or /login
//	GET  /login            → login form
//	POST /login            → authenticate, set session cookie
//	GET  /logout           → clear session cookie
//	GET  /notes            → own notes, sanitized (session required)
//	GET  /note/{id}        → any note, sanitized (session required)
//	GET  /api/note/{id}    → any note, RAW (session required, no ownership check)
//	GET  /api/admin/notes  → all notes (admin session required)
//	GET  /debug            → public diagnostics
func New(webHandlers *web.Handlers, apiHandlers *api.Handlers, authMgr *auth.Manager, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging(logger))

	// Public
	r.Get("/", webHandlers.Index)
	r.Get("/login", webHandlers.LoginForm)
	r.Post("/login", webHandlers.Login)
	r.Get("/logout", webHandlers.Logout)
	r.Get("/debug", apiHandlers.Debug)

	// HTML routes: invalid session redirects to the login page.
	r.Group(func(r chi.Router) {
		r.Use(middleware.WebAuth(authMgr))
		r.Get("/notes", webHandlers.Notes)
		r.Get("/note/{id}", webHandlers.Note)
	})

	// JSON routes: invalid session gets a 401 body.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIAuth(authMgr))
		r.Get("/note/{id}", apiHandlers.Note)
		r.Get("/admin/notes", apiHandlers.AdminNotes)
	})

	return r
}
