package store

import (
	"context"

	"securenotes/internal/models"
)

// Store defines read access and the seed-time write operations. Lookups by
// id deliberately carry no ownership filter: the store is access-control
// agnostic, and whatever filtering a route needs is the caller's problem.
type Store interface {
	// Users
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Notes
	GetNoteByID(ctx context.Context, id int) (models.Note, error)
	ListNotesByOwner(ctx context.Context, userID int) ([]models.Note, error)
	ListAllNotes(ctx context.Context) ([]models.Note, error)
	ListNoteIDs(ctx context.Context) ([]int, error)
	CountNotes(ctx context.Context) (int, error)

	// Seeding
	InsertUser(ctx context.Context, u models.User) (int, error)
	InsertNote(ctx context.Context, n models.Note) error
	AppendToNote(ctx context.Context, noteID int, suffix string) error
	Reset(ctx context.Context) error

	Close() error
}
