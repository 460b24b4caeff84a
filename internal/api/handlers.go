// Package api serves the JSON interface. Unlike the web routes nothing
// here passes through the sanitizer: /api/note/{id} returns the stored
// body verbatim and performs no ownership check. That endpoint is the
// intended IDOR of the exercise and must stay exactly this permissive.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"securenotes/internal/middleware"
	"securenotes/internal/models"
	"securenotes/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handlers struct {
	store  store.Store
	flag   string
	logger *zap.Logger
}

func NewHandlers(s store.Store, flag string, logger *zap.Logger) *Handlers {
	return &Handlers{store: s, flag: flag, logger: logger}
}

type noteResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
	Author      string `json:"author"`
	IsPrivate   bool   `json:"is_private"`
	IsAdminNote bool   `json:"is_admin_note"`
	Warning     string `json:"warning"`
}

// Note returns a single note by id for any authenticated user. The owner
// is looked up only to report the author name; it is never compared
// against the session.
func (h *Handlers) Note(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Note non trouvée")
		return
	}

	note, err := h.store.GetNoteByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Note non trouvée")
		return
	}
	if err != nil {
		h.serverError(w, "get note", err)
		return
	}

	author, err := h.store.GetUserByID(r.Context(), note.UserID)
	if err != nil {
		h.serverError(w, "get author", err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Content:     note.Content, // raw body, flag included
		CreatedAt:   note.CreatedAt.Format(time.RFC3339),
		Author:      author.Username,
		IsPrivate:   note.IsPrivate,
		IsAdminNote: author.IsAdmin,
		Warning:     "⚠️ Cet endpoint ne doit pas être exposé publiquement",
	})
}

type adminNoteResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	IsAdminNote bool   `json:"is_admin_note"`
}

// AdminNotes returns every note to an admin session. The flag is wrapped
// in a decorative label but stays present verbatim: masking is a UI
// concern and this report makes that point.
func (h *Handlers) AdminNotes(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFrom(r.Context())
	if !session.IsAdmin {
		writeError(w, http.StatusForbidden, "Accès refusé")
		return
	}

	notes, err := h.store.ListAllNotes(r.Context())
	if err != nil {
		h.serverError(w, "list notes", err)
		return
	}

	authors := map[int]models.User{}
	out := make([]adminNoteResponse, 0, len(notes))
	for _, note := range notes {
		author, ok := authors[note.UserID]
		if !ok {
			author, err = h.store.GetUserByID(r.Context(), note.UserID)
			if err != nil {
				h.serverError(w, "get author", err)
				return
			}
			authors[note.UserID] = author
		}

		content := note.Content
		if h.flag != "" {
			content = wrapFlag(content, h.flag)
		}

		out = append(out, adminNoteResponse{
			ID:          note.ID,
			Title:       note.Title,
			Content:     content,
			Author:      author.Username,
			IsAdminNote: author.IsAdmin,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func wrapFlag(content, flag string) string {
	return strings.ReplaceAll(content, flag, fmt.Sprintf("🔒 FLAG: %s (confidentiel)", flag))
}

// Debug is the unauthenticated diagnostic endpoint. The security hints it
// reports are deliberately false.
func (h *Handlers) Debug(w http.ResponseWriter, r *http.Request) {
	totalNotes, err := h.store.CountNotes(r.Context())
	if err != nil {
		h.serverError(w, "count notes", err)
		return
	}
	totalUsers, err := h.store.CountUsers(r.Context())
	if err != nil {
		h.serverError(w, "count users", err)
		return
	}
	ids, err := h.store.ListNoteIDs(r.Context())
	if err != nil {
		h.serverError(w, "list note ids", err)
		return
	}
	if ids == nil {
		ids = []int{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_notes":     totalNotes,
		"total_users":     totalUsers,
		"note_ids":        ids,
		"hint":            "⚠️ Les administrateurs ont activé la protection IDOR sur tous les endpoints",
		"security_status": "ACTIVE",
		"api_endpoints": map[string]any{
			"/api/note/<id>": map[string]string{
				"method":      "GET",
				"description": "Récupère une note spécifique",
				"security":    "Vérification des permissions activée",
			},
			"/api/admin/notes": map[string]string{
				"method":      "GET",
				"description": "Récupère toutes les notes (admin seulement)",
				"security":    "Authentification admin requise",
			},
		},
		"warning": "Certaines notes contiennent des informations sensibles protégées",
	})
}

func (h *Handlers) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Erreur interne")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
