package disposal_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"photosift/internal/disposal"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestTrashMovesFileIntoTrashDir(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "backup", "photo.jpg")
	writeFile(t, source, "pixels")

	executor := disposal.NewExecutor(filepath.Join(base, "trash"), nil)
	trashPath, err := executor.Trash(context.Background(), source)
	if err != nil {
		t.Fatalf("Trash failed: %v", err)
	}

	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("expected original removed, stat err: %v", err)
	}
	data, err := os.ReadFile(trashPath)
	if err != nil {
		t.Fatalf("read trash copy: %v", err)
	}
	if string(data) != "pixels" {
		t.Fatalf("trash copy content mismatch: %q", data)
	}
}

func TestTrashNeverOverwritesExistingTrashFile(t *testing.T) {
	base := t.TempDir()
	trashDir := filepath.Join(base, "trash")
	writeFile(t, filepath.Join(trashDir, "photo.jpg"), "first")
	writeFile(t, filepath.Join(trashDir, "photo-1.jpg"), "second")

	source := filepath.Join(base, "backup", "photo.jpg")
	writeFile(t, source, "third")

	executor := disposal.NewExecutor(trashDir, nil)
	trashPath, err := executor.Trash(context.Background(), source)
	if err != nil {
		t.Fatalf("Trash failed: %v", err)
	}
	if trashPath != filepath.Join(trashDir, "photo-2.jpg") {
		t.Fatalf("unexpected trash path: %q", trashPath)
	}

	for name, want := range map[string]string{
		"photo.jpg":   "first",
		"photo-1.jpg": "second",
		"photo-2.jpg": "third",
	} {
		data, err := os.ReadFile(filepath.Join(trashDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != want {
			t.Fatalf("%s: got %q want %q", name, data, want)
		}
	}
}

func TestTrashCopyFailureLeavesOriginalIntact(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "backup", "missing.jpg")

	executor := disposal.NewExecutor(filepath.Join(base, "trash"), nil)
	if _, err := executor.Trash(context.Background(), source); !errors.Is(err, disposal.ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed, got %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(base, "trash"))
	if err != nil {
		t.Fatalf("read trash dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty trash dir, found %d entries", len(entries))
	}
}

func TestTrashDeleteFailureKeepsBothCopies(t *testing.T) {
	base := t.TempDir()
	sourceDir := filepath.Join(base, "backup")
	source := filepath.Join(sourceDir, "photo.jpg")
	writeFile(t, source, "pixels")

	// A read-only parent makes the post-copy remove fail.
	if err := os.Chmod(sourceDir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(sourceDir, 0o755) })
	if os.Getuid() == 0 {
		t.Skip("remove is not denied for root")
	}

	executor := disposal.NewExecutor(filepath.Join(base, "trash"), nil)
	trashPath, err := executor.Trash(context.Background(), source)
	if !errors.Is(err, disposal.ErrDeleteFailed) {
		t.Fatalf("expected ErrDeleteFailed, got %v", err)
	}

	if _, statErr := os.Stat(source); statErr != nil {
		t.Fatalf("expected original to remain: %v", statErr)
	}
	if _, statErr := os.Stat(trashPath); statErr != nil {
		t.Fatalf("expected trash copy to remain: %v", statErr)
	}
}
