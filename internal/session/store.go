package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"photosift/internal/config"
	"photosift/internal/inventory"
)

// Store manages session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.SessionDatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	return s.path
}

// CreateSession records a new session with one pending item per diff entry.
func (s *Store) CreateSession(ctx context.Context, id, backupRoot string, files []inventory.MediaFile) (*Record, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin session tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO sessions (id, backup_root, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, backupRoot, timestamp, timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO session_items (
            session_id, relative_path, absolute_path, identity_key, kind,
            size_bytes, mod_time, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, file := range files {
		if _, err := stmt.ExecContext(
			ctx,
			id,
			file.RelativePath,
			file.AbsolutePath,
			file.IdentityKey,
			string(file.Kind),
			file.SizeBytes,
			nullableTime(file.ModTime),
			StatusPending,
			timestamp,
			timestamp,
		); err != nil {
			return nil, fmt.Errorf("insert item %s: %w", file.RelativePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}

	return s.GetSession(ctx, id)
}

// GetSession fetches a session by identifier.
func (s *Store) GetSession(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, backup_root, created_at, updated_at FROM sessions WHERE id = ?`,
		id,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return record, nil
}

// LatestSession returns the most recently created session, or ErrNotFound
// when the database holds none.
func (s *Store) LatestSession(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, backup_root, created_at, updated_at FROM sessions ORDER BY created_at DESC, id DESC LIMIT 1`,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no sessions", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return record, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, backup_root, created_at, updated_at FROM sessions ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteSession removes a session and its items.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GetItem fetches a session item by identifier.
func (s *Store) GetItem(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM session_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ItemsByStatus returns a session's items in the given statuses ordered by
// relative path. With no statuses it returns every item in the session.
func (s *Store) ItemsByStatus(ctx context.Context, sessionID string, statuses ...Status) ([]*Item, error) {
	baseQuery := `SELECT ` + itemColumns + ` FROM session_items WHERE session_id = ?`
	orderClause := ` ORDER BY relative_path`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause, sessionID)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, 0, len(statuses)+1)
		args = append(args, sessionID)
		for _, status := range statuses {
			args = append(args, status)
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` AND status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem persists changes to an existing session item.
func (s *Store) UpdateItem(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE session_items
         SET status = ?, error_message = ?, trash_path = ?, updated_at = ?
         WHERE id = ?`,
		item.Status,
		nullableString(item.ErrorMessage),
		nullableString(item.TrashPath),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// RequeueDeferred moves every deferred item in the session back to pending.
// It returns the number of items promoted.
func (s *Store) RequeueDeferred(ctx context.Context, sessionID string) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE session_items SET status = ?, updated_at = ? WHERE session_id = ? AND status = ?`,
		StatusPending, now, sessionID, StatusDeferred,
	)
	if err != nil {
		return 0, fmt.Errorf("requeue deferred: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("requeue deferred rows: %w", err)
	}
	return int(affected), nil
}

// FailedItems returns the session's items with a recorded disposal error,
// ordered by relative path.
func (s *Store) FailedItems(ctx context.Context, sessionID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM session_items
         WHERE session_id = ? AND error_message IS NOT NULL
         ORDER BY relative_path`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Summarize aggregates per-status counts for a session.
func (s *Store) Summarize(ctx context.Context, sessionID string) (Summary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, COUNT(1), SUM(CASE WHEN error_message IS NOT NULL THEN 1 ELSE 0 END)
         FROM session_items WHERE session_id = ? GROUP BY status`,
		sessionID,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize session: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var (
			status Status
			count  int
			errs   int
		)
		if err := rows.Scan(&status, &count, &errs); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		switch status {
		case StatusPending:
			summary.Pending = count
		case StatusDeferred:
			summary.Deferred = count
		case StatusTrashed:
			summary.Trashed = count
		case StatusKept:
			summary.Kept = count
		case StatusSkipped:
			summary.Skipped = count
		}
		summary.Errors += errs
	}
	return summary, rows.Err()
}
