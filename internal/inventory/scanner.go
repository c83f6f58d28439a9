package inventory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ErrScan marks a failure that invalidates the whole scan, such as a missing
// or unreadable backup root.
var ErrScan = errors.New("scan error")

// EntryError records a single entry that could not be inventoried. These are
// non-fatal; the scan continues past them.
type EntryError struct {
	Path string
	Err  error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Result holds a completed inventory of the backup root.
type Result struct {
	Root string
	// Files contains every regular file under the root, ordered by
	// relative path. Kind "other" entries are included so callers can opt
	// in to them later.
	Files []MediaFile
	// EntryErrors lists entries skipped because they could not be read.
	EntryErrors []EntryError
}

// Media returns only the photo/video files from the inventory.
func (r Result) Media() []MediaFile {
	media := make([]MediaFile, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Kind.IsMedia() {
			media = append(media, f)
		}
	}
	return media
}

// CountByKind tallies inventory entries per kind.
func (r Result) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, 3)
	for _, f := range r.Files {
		counts[f.Kind]++
	}
	return counts
}

// Scan walks root recursively and builds a fresh inventory. It fails with an
// ErrScan-wrapped error when the root does not exist or is not a readable
// directory; failures on individual entries are collected on the result.
func Scan(ctx context.Context, root string) (Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("%w: resolve root %q: %v", ErrScan, root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrScan, absRoot, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s is not a directory", ErrScan, absRoot)
	}

	result := Result{Root: absRoot}
	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return fmt.Errorf("%w: %s: %v", ErrScan, absRoot, err)
			}
			result.EntryErrors = append(result.EntryErrors, EntryError{Path: path, Err: err})
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}

		fileInfo, infoErr := entry.Info()
		if infoErr != nil {
			result.EntryErrors = append(result.EntryErrors, EntryError{Path: path, Err: infoErr})
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			result.EntryErrors = append(result.EntryErrors, EntryError{Path: path, Err: relErr})
			return nil
		}

		result.Files = append(result.Files, MediaFile{
			RelativePath: rel,
			AbsolutePath: path,
			Kind:         KindForPath(path),
			IdentityKey:  IdentityKeyFor(path),
			SizeBytes:    fileInfo.Size(),
			ModTime:      fileInfo.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return Result{}, walkErr
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].RelativePath < result.Files[j].RelativePath
	})
	return result, nil
}
