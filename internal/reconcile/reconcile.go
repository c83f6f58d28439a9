// Package reconcile wires the scanner, remote lister, diff engine, and
// session store into one run. The remote inventory is always listed in full
// before any session is created; a remote failure aborts the run with nothing
// changed on disk.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"photosift/internal/config"
	"photosift/internal/diffengine"
	"photosift/internal/disposal"
	"photosift/internal/inventory"
	"photosift/internal/remote"
	"photosift/internal/session"
)

// ErrLocked indicates another photosift process holds the run lock.
var ErrLocked = errors.New("another photosift instance is already running")

// Plan is the read-only result of one scan + list + diff pass.
type Plan struct {
	Scan        inventory.Result
	RemoteCount int
	Missing     []inventory.MediaFile
}

// Runner coordinates reconcile runs against one config.
type Runner struct {
	cfg    *config.Config
	store  *session.Store
	logger *slog.Logger
	lock   *flock.Flock
}

// NewRunner builds a runner. The store stays open for the runner's lifetime.
func NewRunner(cfg *config.Config, store *session.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logger,
		lock:   flock.New(cfg.LockPath()),
	}
}

// Acquire takes the single-instance lock. Trash naming is check-then-create,
// so two concurrent runs against the same trash directory are not allowed.
func (r *Runner) Acquire() error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release drops the single-instance lock.
func (r *Runner) Release() {
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release run lock", "path", r.cfg.LockPath(), "error", err)
	}
}

// Lister builds the remote lister selected by the configuration.
func (r *Runner) Lister() remote.Lister {
	if r.cfg.Library.Mode == config.LibraryModeAPI {
		return remote.NewImmichLister(
			r.cfg.Immich.ServerURL,
			r.cfg.Immich.APIKey,
			time.Duration(r.cfg.Immich.TimeoutSeconds)*time.Second,
		)
	}
	return remote.NewLibraryLister(r.cfg.Library.Directory)
}

// Plan scans the backup tree, lists the remote inventory, and diffs the two.
// It never writes anything; a failed or partial remote listing aborts here,
// before any session exists to act on.
func (r *Runner) Plan(ctx context.Context) (*Plan, error) {
	scan, err := inventory.Scan(ctx, r.cfg.BackupRoot)
	if err != nil {
		return nil, fmt.Errorf("scan backup: %w", err)
	}
	for _, entryErr := range scan.EntryErrors {
		r.logger.Warn("unreadable backup entry", "path", entryErr.Path, "error", entryErr.Err)
	}
	r.logger.Info("backup scanned", "root", scan.Root, "files", len(scan.Files), "errors", len(scan.EntryErrors))

	entries, err := r.Lister().List(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Info("remote listed", "entries", len(entries))

	diff := diffengine.Diff(scan.Media(), entries)
	r.logger.Info("diff computed", "missing", len(diff.Missing))

	return &Plan{Scan: scan, RemoteCount: len(entries), Missing: diff.Missing}, nil
}

// CreateSession persists a new triage session from a plan.
func (r *Runner) CreateSession(ctx context.Context, plan *Plan) (*session.Record, error) {
	id := uuid.NewString()
	record, err := r.store.CreateSession(ctx, id, plan.Scan.Root, plan.Missing)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	r.logger.Info("session created", "session", record.ID, "items", len(plan.Missing))
	return record, nil
}

// Resume returns the named session, or the most recent one when id is empty.
func (r *Runner) Resume(ctx context.Context, id string) (*session.Record, error) {
	if id == "" {
		return r.store.LatestSession(ctx)
	}
	return r.store.GetSession(ctx, id)
}

// Engine binds a session to the configured trash directory.
func (r *Runner) Engine(record *session.Record) *session.Engine {
	executor := disposal.NewExecutor(r.cfg.TrashDir, r.logger)
	return session.NewEngine(r.store, record, executor, r.logger)
}
