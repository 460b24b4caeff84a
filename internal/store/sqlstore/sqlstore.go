package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"securenotes/internal/models"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DBType represents the type of database
type DBType string

const (
	SQLite   DBType = "sqlite3"
	Postgres DBType = "postgres"
)

// SQLStore implements the Store interface for SQL databases
type SQLStore struct {
	db     *sql.DB
	dbType DBType
}

// New opens the database with the given driver and connection string and
// ensures the schema exists.
func New(driver, connStr string) (*SQLStore, error) {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	store := NewWithDB(db, DBType(driver))
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

// NewWithDB wraps an existing connection. The schema is not touched; tests
// use this with sqlmock.
func NewWithDB(db *sql.DB, dbType DBType) *SQLStore {
	return &SQLStore{db: db, dbType: dbType}
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dbType == SQLite {
		return query
	}
	var result strings.Builder
	argNum := 1
	for _, c := range query {
		if c == '?' {
			result.WriteString(fmt.Sprintf("$%d", argNum))
			argNum++
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

func (s *SQLStore) initSchema() error {
	var createUsersTable, createNotesTable string

	if s.dbType == Postgres {
		createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE
		);`

		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			is_private BOOLEAN NOT NULL DEFAULT TRUE
		);`
	} else {
		createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT 0
		);`

		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			user_id INTEGER NOT NULL,
			is_private BOOLEAN NOT NULL DEFAULT 1,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`
	}

	for _, stmt := range []string{createUsersTable, createNotesTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// User functions

func (s *SQLStore) GetUserByID(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, username, password_hash, is_admin FROM users WHERE id = ?"), id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin)
	return u, err
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, username, password_hash, is_admin FROM users WHERE username = ?"), username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin)
	return u, err
}

func (s *SQLStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// Note functions

func (s *SQLStore) GetNoteByID(ctx context.Context, id int) (models.Note, error) {
	// No user_id filter here: ownership checks belong to the caller.
	var n models.Note
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, title, content, created_at, user_id, is_private FROM notes WHERE id = ?"), id).
		Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UserID, &n.IsPrivate)
	return n, err
}

func (s *SQLStore) ListNotesByOwner(ctx context.Context, userID int) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT id, title, content, created_at, user_id, is_private FROM notes WHERE user_id = ? ORDER BY id ASC"), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (s *SQLStore) ListAllNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, content, created_at, user_id, is_private FROM notes ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (s *SQLStore) ListNoteIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM notes ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) CountNotes(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n)
	return n, err
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UserID, &n.IsPrivate); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Seeding functions

func (s *SQLStore) InsertUser(ctx context.Context, u models.User) (int, error) {
	if s.dbType == Postgres {
		var id int
		err := s.db.QueryRowContext(ctx,
			"INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id",
			u.Username, u.PasswordHash, u.IsAdmin).Scan(&id)
		return id, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)",
		u.Username, u.PasswordHash, u.IsAdmin)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

// InsertNote writes a note with its id fixed by the caller. Fixture note
// ids are part of the challenge (they appear in URLs), so they are never
// auto-assigned.
func (s *SQLStore) InsertNote(ctx context.Context, n models.Note) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("INSERT INTO notes (id, title, content, created_at, user_id, is_private) VALUES (?, ?, ?, ?, ?, ?)"),
		n.ID, n.Title, n.Content, n.CreatedAt, n.UserID, n.IsPrivate)
	return err
}

func (s *SQLStore) AppendToNote(ctx context.Context, noteID int, suffix string) error {
	result, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE notes SET content = content || ? WHERE id = ?"), suffix, noteID)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Reset drops both tables and recreates the schema. Only the seeder calls
// this, and only before the server starts listening.
func (s *SQLStore) Reset(ctx context.Context) error {
	for _, stmt := range []string{"DROP TABLE IF EXISTS notes", "DROP TABLE IF EXISTS users"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return s.initSchema()
}
