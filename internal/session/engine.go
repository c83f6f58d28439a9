package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Disposer moves a backup file into the trash area and returns the trash
// destination. Implementations must leave the original intact when the move
// cannot be completed safely.
type Disposer interface {
	Trash(ctx context.Context, absolutePath string) (string, error)
}

// Engine applies decisions to a session's items. Every decision is persisted
// before Engine returns, so an interrupted run resumes exactly where it
// stopped.
type Engine struct {
	store    *Store
	record   *Record
	disposer Disposer
	logger   *slog.Logger

	filter   Filter
	selected map[int64]struct{}
}

// NewEngine binds a persisted session to a disposer.
func NewEngine(store *Store, record *Record, disposer Disposer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		record:   record,
		disposer: disposer,
		logger:   logger,
		selected: make(map[int64]struct{}),
	}
}

// Record returns the session this engine operates on.
func (e *Engine) Record() *Record {
	return e.record
}

// Filter returns the active filter.
func (e *Engine) Filter() Filter {
	return e.filter
}

// SetFilter narrows which items Next and ApplyToRemaining consider. Items
// hidden by the filter keep their status untouched.
func (e *Engine) SetFilter(filter Filter) {
	e.filter = filter
}

// ClearFilter restores the all-items view.
func (e *Engine) ClearFilter() {
	e.filter = Filter{}
}

// Next returns the first undecided item in path order that passes the active
// filter. When the pending pool is exhausted, deferred items are promoted
// back to pending once; nil means the session has nothing left to offer.
func (e *Engine) Next(ctx context.Context) (*Item, error) {
	for attempt := 0; attempt < 2; attempt++ {
		pending, err := e.store.ItemsByStatus(ctx, e.record.ID, StatusPending)
		if err != nil {
			return nil, err
		}
		for _, item := range pending {
			if e.filter.Matches(item) {
				return item, nil
			}
		}

		promoted, err := e.requeueDeferred(ctx)
		if err != nil {
			return nil, err
		}
		if promoted == 0 {
			break
		}
		e.logger.Debug("requeued deferred items", "session", e.record.ID, "count", promoted)
	}
	return nil, nil
}

// requeueDeferred promotes deferred items back to pending. With an active
// filter only matching items are promoted, so items deferred outside the
// current view keep their state.
func (e *Engine) requeueDeferred(ctx context.Context) (int, error) {
	if e.filter.IsZero() {
		return e.store.RequeueDeferred(ctx, e.record.ID)
	}

	deferred, err := e.store.ItemsByStatus(ctx, e.record.ID, StatusDeferred)
	if err != nil {
		return 0, err
	}
	promoted := 0
	for _, item := range deferred {
		if !e.filter.Matches(item) {
			continue
		}
		item.Status = StatusPending
		if err := e.store.UpdateItem(ctx, item); err != nil {
			return promoted, err
		}
		promoted++
	}
	return promoted, nil
}

// Inspect fetches a single item, verifying it belongs to this session.
func (e *Engine) Inspect(ctx context.Context, id int64) (*Item, error) {
	item, err := e.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.SessionID != e.record.ID {
		return nil, fmt.Errorf("%w: item %d in session %s", ErrNotFound, id, e.record.ID)
	}
	return item, nil
}

// Decide applies a decision to one item. Terminal items reject further
// decisions. A trash decision that fails records the failure on the item,
// leaves it pending, and returns the disposer's error so the caller can offer
// a retry.
func (e *Engine) Decide(ctx context.Context, item *Item, decision Decision) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if item.Status.Terminal() {
		return fmt.Errorf("%w: %s is already %s", ErrInvalidAction, item.RelativePath, item.Status)
	}
	target := decision.status()
	if target == "" {
		return fmt.Errorf("%w: unknown decision %q", ErrInvalidAction, decision)
	}
	if decision == DecisionDefer && item.Status == StatusDeferred {
		return fmt.Errorf("%w: %s is already deferred", ErrInvalidAction, item.RelativePath)
	}

	if decision == DecisionTrash {
		trashPath, err := e.disposer.Trash(ctx, item.AbsolutePath)
		if err != nil {
			item.ErrorMessage = err.Error()
			if updateErr := e.store.UpdateItem(ctx, item); updateErr != nil {
				return fmt.Errorf("record trash failure: %w", updateErr)
			}
			e.logger.Error("trash failed", "session", e.record.ID, "path", item.RelativePath, "error", err)
			return err
		}
		item.TrashPath = trashPath
	}

	item.Status = target
	item.ErrorMessage = ""
	if err := e.store.UpdateItem(ctx, item); err != nil {
		return err
	}
	// Deferring keeps the item in the selection; only a terminal decision
	// consumes it.
	if item.Status.Terminal() {
		delete(e.selected, item.ID)
	}
	e.logger.Info("decision applied", "session", e.record.ID, "path", item.RelativePath, "decision", string(decision))
	return nil
}

// Select marks items for a later ApplyBatch. Unknown or terminal items are
// rejected so a stale selection cannot silently re-decide anything.
func (e *Engine) Select(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		item, err := e.Inspect(ctx, id)
		if err != nil {
			return err
		}
		if item.Status.Terminal() {
			return fmt.Errorf("%w: %s is already %s", ErrInvalidAction, item.RelativePath, item.Status)
		}
		e.selected[id] = struct{}{}
	}
	return nil
}

// Deselect removes items from the batch selection.
func (e *Engine) Deselect(ids ...int64) {
	for _, id := range ids {
		delete(e.selected, id)
	}
}

// ClearSelection empties the batch selection.
func (e *Engine) ClearSelection() {
	e.selected = make(map[int64]struct{})
}

// Selected returns the current batch selection in ascending id order.
func (e *Engine) Selected() []int64 {
	ids := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ApplyBatch applies one decision to every selected item. Failures are
// isolated per item: the remaining selection is still processed and the
// failed items stay selected with their error recorded. The returned count is
// the number of items that reached the decided status.
func (e *Engine) ApplyBatch(ctx context.Context, decision Decision) (int, error) {
	ids := e.Selected()
	var (
		applied int
		errs    []error
	)
	for _, id := range ids {
		item, err := e.Inspect(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := e.Decide(ctx, item, decision); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.RelativePath, err))
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// ApplyToRemaining applies one decision to every undecided item that passes
// the active filter, with the same per-item failure isolation as ApplyBatch.
func (e *Engine) ApplyToRemaining(ctx context.Context, decision Decision) (int, error) {
	items, err := e.store.ItemsByStatus(ctx, e.record.ID, StatusPending, StatusDeferred)
	if err != nil {
		return 0, err
	}
	var (
		applied int
		errs    []error
	)
	for _, item := range items {
		if !e.filter.Matches(item) {
			continue
		}
		if err := e.Decide(ctx, item, decision); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.RelativePath, err))
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// Summary aggregates the session's per-status counts.
func (e *Engine) Summary(ctx context.Context) (Summary, error) {
	return e.store.Summarize(ctx, e.record.ID)
}

// Failures lists the items whose last disposal attempt failed.
func (e *Engine) Failures(ctx context.Context) ([]*Item, error) {
	return e.store.FailedItems(ctx, e.record.ID)
}
