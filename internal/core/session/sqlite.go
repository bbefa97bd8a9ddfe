package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the session in a single-row sqlite table.
type SQLiteStore struct {
	emitter
	db *sql.DB
}

// NewSQLiteStore opens the database at path. Call Migrate before use.
func NewSQLiteStore(path string, log logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{
		emitter: emitter{log: log.WithField("component", "session")},
		db:      db,
	}, nil
}

// Migrate applies the embedded migrations that have not run yet.
func (s *SQLiteStore) Migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		versions = append(versions, strings.TrimSuffix(entry.Name(), ".sql"))
	}
	sort.Strings(versions)

	for _, version := range versions {
		var applied bool
		if err := s.db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)`, version,
		).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %s: %w", version, err)
		}
		if applied {
			continue
		}

		if err := s.apply(version); err != nil {
			return err
		}
		s.log.WithField("version", version).Debug("migration applied")
	}
	return nil
}

func (s *SQLiteStore) apply(version string) error {
	content, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", version, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", version, err)
	}
	return nil
}

// Load returns the stored session or ErrNoSession.
func (s *SQLiteStore) Load(ctx context.Context) (domain.Session, error) {
	var sess domain.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, username, email, first_name, last_name,
		       access_token, refresh_token, saved_at, api_url
		FROM sessions WHERE id = 1
	`).Scan(
		&sess.User.UserID, &sess.User.Username, &sess.User.Email,
		&sess.User.FirstName, &sess.User.LastName,
		&sess.AccessToken, &sess.RefreshToken, &sess.SavedAt, &sess.APIURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// Save replaces the stored session. Emits a SessionSavedEvent.
func (s *SQLiteStore) Save(ctx context.Context, sess domain.Session) error {
	if sess.AccessToken == "" {
		return errors.New("refusing to save a session without access token")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, username, email, first_name, last_name,
		                      access_token, refresh_token, saved_at, api_url)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			saved_at = excluded.saved_at,
			api_url = excluded.api_url
	`,
		sess.User.UserID, sess.User.Username, sess.User.Email,
		sess.User.FirstName, sess.User.LastName,
		sess.AccessToken, sess.RefreshToken, sess.SavedAt, sess.APIURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.emit(SessionSavedEvent{Session: sess})
	return nil
}

// Clear removes the stored session. Emits a SessionClearedEvent.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.emit(SessionClearedEvent{})
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
