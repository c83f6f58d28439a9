package reconcile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"photosift/internal/config"
	"photosift/internal/reconcile"
	"photosift/internal/remote"
	"photosift/internal/session"
	"photosift/internal/testsupport"
)

func seedTrees(t *testing.T, cfg *config.Config, backup, library map[string]string) {
	t.Helper()
	for rel, content := range backup {
		path := filepath.Join(cfg.BackupRoot, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	for rel, content := range library {
		path := filepath.Join(cfg.Library.Directory, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func newRunner(t *testing.T) (*reconcile.Runner, *config.Config, *session.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return reconcile.NewRunner(cfg, store, nil), cfg, store
}

func TestPlanDiffsBackupAgainstLibrary(t *testing.T) {
	runner, cfg, _ := newRunner(t)
	seedTrees(t, cfg,
		map[string]string{"2021/a.jpg": "a", "2021/b.mov": "b", "2022/c.png": "c"},
		map[string]string{"upload/a.jpg": "a", "upload/c.png": "c"},
	)

	plan, err := runner.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.RemoteCount != 2 {
		t.Fatalf("expected 2 remote entries, got %d", plan.RemoteCount)
	}
	if len(plan.Missing) != 1 || plan.Missing[0].RelativePath != filepath.Join("2021", "b.mov") {
		t.Fatalf("unexpected missing set: %+v", plan.Missing)
	}
}

func TestPlanAbortsWhenRemoteUnavailable(t *testing.T) {
	runner, cfg, _ := newRunner(t)
	seedTrees(t, cfg, map[string]string{"a.jpg": "a"}, nil)
	if err := os.RemoveAll(cfg.Library.Directory); err != nil {
		t.Fatalf("remove library: %v", err)
	}

	if _, err := runner.Plan(context.Background()); !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreateSessionAndResume(t *testing.T) {
	runner, cfg, store := newRunner(t)
	seedTrees(t, cfg, map[string]string{"a.jpg": "a"}, nil)

	plan, err := runner.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	record, err := runner.CreateSession(context.Background(), plan)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected generated session id")
	}

	resumed, err := runner.Resume(context.Background(), "")
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.ID != record.ID {
		t.Fatalf("expected to resume %s, got %s", record.ID, resumed.ID)
	}

	items, err := store.ItemsByStatus(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("ItemsByStatus failed: %v", err)
	}
	if len(items) != 1 || items[0].Status != session.StatusPending {
		t.Fatalf("unexpected session items: %+v", items)
	}
}

func TestAcquireRejectsSecondRunner(t *testing.T) {
	runner, cfg, store := newRunner(t)
	if err := runner.Acquire(); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer runner.Release()

	other := reconcile.NewRunner(cfg, store, nil)
	if err := other.Acquire(); !errors.Is(err, reconcile.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
