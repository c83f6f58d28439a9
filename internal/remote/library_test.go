package remote_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"photosift/internal/remote"
	"photosift/internal/testsupport"
)

func TestLibraryListerListsMediaOnly(t *testing.T) {
	root := testsupport.SeedMediaTree(t, map[string]string{
		"upload/a.jpg":     "1",
		"upload/b.mov":     "2",
		"upload/meta.json": "3",
	})

	entries, err := remote.NewLibraryLister(root).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 media entries, got %d", len(entries))
	}
}

func TestLibraryListerMissingRootIsUnavailable(t *testing.T) {
	lister := remote.NewLibraryLister(filepath.Join(t.TempDir(), "absent"))
	if _, err := lister.List(context.Background()); !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
