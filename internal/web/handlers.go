// Package web serves the HTML interface. Every note body that leaves this
// package has gone through the sanitizer; the masking asymmetry with the
// JSON API is the whole exercise.
package web

import (
	"database/sql"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"securenotes/internal/auth"
	"securenotes/internal/middleware"
	"securenotes/internal/sanitize"
	"securenotes/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const previewLimit = 150

type Handlers struct {
	store     store.Store
	sanitizer *sanitize.Sanitizer
	auth      *auth.Manager
	logger    *zap.Logger
	tmpl      *template.Template
}

func NewHandlers(s store.Store, sz *sanitize.Sanitizer, a *auth.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{
		store:     s,
		sanitizer: sz,
		auth:      a,
		logger:    logger,
		tmpl:      template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Index redirects to the notes list when a session exists, otherwise to
// the login page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.SessionFromRequest(r); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]string{})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	session, err := h.auth.Authenticate(r.Context(), h.store, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		// Same message for unknown username and wrong password.
		h.render(w, "login.html", map[string]string{"Error": "Identifiants incorrects"})
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.auth.SetCookie(w, session)
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type noteView struct {
	ID        int
	Title     string
	Preview   string
	Content   string
	CreatedAt time.Time
	IsPrivate bool
}

// Notes lists the session user's own notes. The query is filtered by
// owner, so this route never shows anyone else's notes.
func (h *Handlers) Notes(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())

	notes, err := h.store.ListNotesByOwner(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error("list notes failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	views := make([]noteView, 0, len(notes))
	for _, n := range notes {
		safe := h.sanitizer.Clean(n.Content, session.UserID, n.UserID)
		views = append(views, noteView{
			ID:        n.ID,
			Title:     n.Title,
			Preview:   preview(safe),
			Content:   safe,
			CreatedAt: n.CreatedAt,
			IsPrivate: n.IsPrivate,
		})
	}

	h.render(w, "notes.html", map[string]any{
		"Username": session.Username,
		"Notes":    views,
	})
}

// Note shows a single note looked up by id. There is no ownership filter
// on the lookup, but the body is sanitized, so the flag never reaches the
// page regardless of who asks.
func (h *Handlers) Note(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.render(w, "note.html", map[string]any{"Error": "Note introuvable"})
		return
	}

	note, err := h.store.GetNoteByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		h.render(w, "note.html", map[string]any{"Error": "Note introuvable"})
		return
	}
	if err != nil {
		h.logger.Error("get note failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	safe := h.sanitizer.Clean(note.Content, session.UserID, note.UserID)
	h.render(w, "note.html", map[string]any{
		"Note": noteView{
			ID:        note.ID,
			Title:     note.Title,
			Content:   safe,
			CreatedAt: note.CreatedAt,
			IsPrivate: note.IsPrivate,
		},
	})
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLimit {
		return s
	}
	return string(runes[:previewLimit]) + "..."
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render failed", zap.String("template", name), zap.Error(err))
	}
}
