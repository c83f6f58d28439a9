package remote

import (
	"context"
	"fmt"

	"photosift/internal/inventory"
)

// LibraryLister lists a locally synced Immich library tree, typically the
// library's upload directory on the same host or a mounted share.
type LibraryLister struct {
	root string
}

// NewLibraryLister builds a directory-backed lister rooted at root.
func NewLibraryLister(root string) *LibraryLister {
	return &LibraryLister{root: root}
}

// List scans the library tree and returns one entry per media file. Unlike a
// backup scan, any error here is fatal: entries the lister cannot read would
// silently widen the diff.
func (l *LibraryLister) List(ctx context.Context) ([]Entry, error) {
	result, err := inventory.Scan(ctx, l.root)
	if err != nil {
		return nil, fmt.Errorf("%w: scan library %s: %v", ErrUnavailable, l.root, err)
	}
	if len(result.EntryErrors) > 0 {
		first := result.EntryErrors[0]
		return nil, fmt.Errorf("%w: %d unreadable library entries (first: %s)", ErrUnavailable, len(result.EntryErrors), first)
	}

	entries := make([]Entry, 0, len(result.Files))
	for _, file := range result.Media() {
		entries = append(entries, Entry{
			IdentityKey: file.IdentityKey,
			Name:        file.RelativePath,
		})
	}
	return entries, nil
}
