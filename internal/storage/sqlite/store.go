// Package sqlite implements storage.FactStore on SQLite via modernc.org/sqlite.
// It is the durable single-file backend for small deployments; the schema is
// embedded and applied on open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jdsports555/WaifuChatBotv2/internal/storage"
	"github.com/jdsports555/WaifuChatBotv2/pkg/types"
)

// schema is applied on every open; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                TEXT PRIMARY KEY,
	external_id       TEXT NOT NULL UNIQUE,
	display_name      TEXT NOT NULL DEFAULT '',
	affection         INTEGER NOT NULL DEFAULT 0,
	first_interaction TIMESTAMP NOT NULL,
	last_interaction  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS facts (
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	fact_type  TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, fact_type)
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content    TEXT NOT NULL,
	origin     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, id);
`

// Store implements storage.FactStore backed by SQLite.
type Store struct {
	db         *sql.DB
	historyCap int
}

// NewStore opens (or creates) the database at dsn, configures WAL mode, and
// applies the schema. historyCap <= 0 uses storage.DefaultHistoryCap.
func NewStore(dsn string, historyCap int) (*Store, error) {
	if historyCap <= 0 {
		historyCap = storage.DefaultHistoryCap
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db, historyCap: historyCap}, nil
}

// GetOrCreateUser returns the profile for externalID, creating it on first
// contact inside one transaction.
func (s *Store) GetOrCreateUser(ctx context.Context, externalID, displayName string) (*types.UserProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	u, err := scanUser(tx.QueryRowContext(ctx,
		`SELECT id, external_id, display_name, affection, first_interaction, last_interaction
		 FROM users WHERE external_id = ?`, externalID))
	switch {
	case err == nil:
		if displayName != "" && u.DisplayName == "" {
			u.DisplayName = displayName
		}
		u.LastInteraction = now
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET display_name = ?, last_interaction = ? WHERE id = ?`,
			u.DisplayName, now, u.ID); err != nil {
			return nil, fmt.Errorf("sqlite: touch user: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		u = &types.UserProfile{
			ID:               uuid.NewString(),
			ExternalID:       externalID,
			DisplayName:      displayName,
			FirstInteraction: now,
			LastInteraction:  now,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, external_id, display_name, affection, first_interaction, last_interaction)
			 VALUES (?, ?, ?, 0, ?, ?)`,
			u.ID, u.ExternalID, u.DisplayName, now, now); err != nil {
			return nil, fmt.Errorf("sqlite: insert user: %w", err)
		}
	default:
		return nil, fmt.Errorf("sqlite: select user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return u, nil
}

// GetUser returns the profile for userID, or storage.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, userID string) (*types.UserProfile, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, external_id, display_name, affection, first_interaction, last_interaction
		 FROM users WHERE id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: select user: %w", err)
	}
	return u, nil
}

// SetDisplayName overwrites the stored display name.
func (s *Store) SetDisplayName(ctx context.Context, userID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ? WHERE id = ?`, name, userID)
	if err != nil {
		return fmt.Errorf("sqlite: set display name: %w", err)
	}
	return requireRow(res)
}

// StoreMessage appends one history record and trims the window oldest-first.
func (s *Store) StoreMessage(ctx context.Context, userID, content string, origin types.Origin) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (user_id, content, origin, created_at) VALUES (?, ?, ?, ?)`,
		userID, content, string(origin), time.Now().UTC()); err != nil {
		return fmt.Errorf("sqlite: insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = ? AND id NOT IN (
			SELECT id FROM messages WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`, userID, userID, s.historyCap); err != nil {
		return fmt.Errorf("sqlite: trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// GetHistory returns up to limit most recent records, most-recent-last.
func (s *Store) GetHistory(ctx context.Context, userID string, limit int) ([]types.MessageRecord, error) {
	if limit <= 0 || limit > s.historyCap {
		limit = s.historyCap
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT content, origin, created_at FROM (
			SELECT id, content, origin, created_at FROM messages
			WHERE user_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: select history: %w", err)
	}
	defer rows.Close()

	var records []types.MessageRecord
	for rows.Next() {
		rec := types.MessageRecord{UserID: userID}
		var origin string
		if err := rows.Scan(&rec.Content, &origin, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}
		rec.Origin = types.Origin(origin)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// StoreFact upserts one fact; the latest value per type wins.
func (s *Store) StoreFact(ctx context.Context, userID string, factType types.FactType, value string) error {
	if strings.TrimSpace(value) == "" {
		return storage.ErrEmptyValue
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO facts (user_id, fact_type, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, fact_type) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		userID, string(factType), value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: upsert fact: %w", err)
	}
	return nil
}

// GetFacts returns every known fact for the user, keyed by type.
func (s *Store) GetFacts(ctx context.Context, userID string) (map[types.FactType]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fact_type, value FROM facts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: select facts: %w", err)
	}
	defer rows.Close()

	facts := make(map[types.FactType]string)
	for rows.Next() {
		var factType, value string
		if err := rows.Scan(&factType, &value); err != nil {
			return nil, fmt.Errorf("sqlite: scan fact: %w", err)
		}
		facts[types.FactType(factType)] = value
	}
	return facts, rows.Err()
}

// UpdateAffection applies delta with the clamp done in SQL, so concurrent
// updates through one database serialize correctly.
func (s *Store) UpdateAffection(ctx context.Context, userID string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET
			affection = MAX(0, MIN(100, affection + ?)),
			last_interaction = ?
		 WHERE id = ?`,
		delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("sqlite: update affection: %w", err)
	}
	return requireRow(res)
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func scanUser(row *sql.Row) (*types.UserProfile, error) {
	var u types.UserProfile
	if err := row.Scan(&u.ID, &u.ExternalID, &u.DisplayName, &u.Affection,
		&u.FirstInteraction, &u.LastInteraction); err != nil {
		return nil, err
	}
	return &u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Compile-time assertion.
var _ storage.FactStore = (*Store)(nil)
