// Package disposal moves backup files into a trash directory using a
// copy-verify-delete sequence. The original is never removed until a verified
// copy exists in the trash, and an existing trash file is never overwritten.
package disposal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"photosift/internal/fileutil"
)

var (
	// ErrCopyFailed marks a trash operation that could not produce a verified
	// copy. The original file is intact.
	ErrCopyFailed = errors.New("copy to trash failed")

	// ErrDeleteFailed marks a trash operation whose verified copy exists but
	// whose original could not be removed. Both files remain on disk.
	ErrDeleteFailed = errors.New("delete after copy failed")
)

// maxSuffixAttempts bounds the collision probe so a pathological trash
// directory cannot loop forever.
const maxSuffixAttempts = 1000

// Executor trashes files into a fixed directory.
type Executor struct {
	trashDir string
	logger   *slog.Logger
}

// NewExecutor builds an executor writing into trashDir.
func NewExecutor(trashDir string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{trashDir: trashDir, logger: logger}
}

// TrashDir returns the directory trashed files land in.
func (e *Executor) TrashDir() string {
	return e.trashDir
}

// Trash copies the file into the trash directory under a collision-free name,
// verifies the copy, then deletes the original. It returns the trash path the
// file ended up at.
func (e *Executor) Trash(ctx context.Context, absolutePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	if err := os.MkdirAll(e.trashDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create trash directory: %v", ErrCopyFailed, err)
	}

	destination, err := e.copyToTrash(absolutePath)
	if err != nil {
		return "", err
	}

	if err := os.Remove(absolutePath); err != nil {
		e.logger.Error("original not removed, trash copy retained",
			"source", absolutePath, "trash", destination, "error", err)
		return destination, fmt.Errorf("%w: remove %s: %v", ErrDeleteFailed, absolutePath, err)
	}

	e.logger.Info("trashed", "source", absolutePath, "trash", destination)
	return destination, nil
}

// copyToTrash probes candidate names until CopyVerified wins the O_EXCL
// create. Racing against another writer is safe: the loser of the create
// simply moves to the next suffix.
func (e *Executor) copyToTrash(absolutePath string) (string, error) {
	base := filepath.Base(absolutePath)
	for attempt := 0; attempt < maxSuffixAttempts; attempt++ {
		candidate := filepath.Join(e.trashDir, candidateName(base, attempt))
		err := fileutil.CopyVerified(absolutePath, candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return "", fmt.Errorf("%w: %s: %v", ErrCopyFailed, absolutePath, err)
	}
	return "", fmt.Errorf("%w: %s: no free trash name after %d attempts", ErrCopyFailed, absolutePath, maxSuffixAttempts)
}

// candidateName appends -1, -2, ... before the extension for collision
// retries: photo.jpg, photo-1.jpg, photo-2.jpg.
func candidateName(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s-%d%s", stem, attempt, ext)
}
