// Package store persists submissions in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"postproof/internal/domain"
	"postproof/pkg/log"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no submission matches a lookup.
var ErrNotFound = domain.ErrSubmissionNotFound

// Store is a SQLite-backed submission repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		version := filepath.Base(file)
		if applied[version] {
			continue
		}

		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upMigration(string(content))); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, formatTime(time.Now())); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", version, err)
		}

		log.GlobalInfo("migration applied", "version", version)
	}

	return nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// upMigration returns the part of a migration before the Down marker.
func upMigration(content string) string {
	if idx := strings.Index(content, "-- +migrate Down"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(content), "-- +migrate Up"))
}

const submissionColumns = `id, user_id, platform, url, keywords, matched_keywords, missing_keywords,
	likes, comments, shares, status, credit_awarded, credit_penalized, rescan_count,
	evidence_url, last_error, verified_at, created_at, updated_at`

// Save inserts a submission or updates the one with the same URL.
// The id, owner and creation time of an existing row are kept.
func (s *Store) Save(ctx context.Context, sub *domain.Submission) error {
	keywords, err := encodeList(sub.Keywords)
	if err != nil {
		return err
	}
	matched, err := encodeList(sub.MatchedKeywords)
	if err != nil {
		return err
	}
	missing, err := encodeList(sub.MissingKeywords)
	if err != nil {
		return err
	}

	var verifiedAt sql.NullString
	if sub.VerifiedAt != nil {
		verifiedAt = sql.NullString{String: formatTime(*sub.VerifiedAt), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			platform = excluded.platform,
			keywords = excluded.keywords,
			matched_keywords = excluded.matched_keywords,
			missing_keywords = excluded.missing_keywords,
			likes = excluded.likes,
			comments = excluded.comments,
			shares = excluded.shares,
			status = excluded.status,
			credit_awarded = excluded.credit_awarded,
			credit_penalized = excluded.credit_penalized,
			rescan_count = excluded.rescan_count,
			evidence_url = excluded.evidence_url,
			last_error = excluded.last_error,
			verified_at = excluded.verified_at,
			updated_at = excluded.updated_at
	`, sub.ID, sub.UserID, string(sub.Platform), sub.URL, keywords, matched, missing,
		sub.Likes, sub.Comments, sub.Shares, string(sub.Status),
		sub.CreditAwarded, sub.CreditPenalized, sub.RescanCount,
		sub.EvidenceURL, sub.LastError, verifiedAt,
		formatTime(sub.CreatedAt), formatTime(sub.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// Get returns the submission with the given id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Submission, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+submissionColumns+" FROM submissions WHERE id = ?", id)
	return scanSubmission(row)
}

// GetByURL returns the submission for a normalized post URL.
func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Submission, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+submissionColumns+" FROM submissions WHERE url = ?", url)
	return scanSubmission(row)
}

// ListByUser returns a user's submissions, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+submissionColumns+" FROM submissions WHERE user_id = ? ORDER BY created_at DESC, id",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]*domain.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*domain.Submission, error) {
	var (
		sub                        domain.Submission
		platform, status           string
		keywords, matched, missing string
		verifiedAt                 sql.NullString
		createdAt, updatedAt       string
	)

	err := row.Scan(&sub.ID, &sub.UserID, &platform, &sub.URL, &keywords, &matched, &missing,
		&sub.Likes, &sub.Comments, &sub.Shares, &status,
		&sub.CreditAwarded, &sub.CreditPenalized, &sub.RescanCount,
		&sub.EvidenceURL, &sub.LastError, &verifiedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	sub.Platform = domain.Platform(platform)
	sub.Status = domain.SubmissionStatus(status)
	if sub.Keywords, err = decodeList(keywords); err != nil {
		return nil, err
	}
	if sub.MatchedKeywords, err = decodeList(matched); err != nil {
		return nil, err
	}
	if sub.MissingKeywords, err = decodeList(missing); err != nil {
		return nil, err
	}
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if verifiedAt.Valid {
		t, err := parseTime(verifiedAt.String)
		if err != nil {
			return nil, err
		}
		sub.VerifiedAt = &t
	}

	return &sub, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	list := []string{}
	if raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return list, nil
}

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
