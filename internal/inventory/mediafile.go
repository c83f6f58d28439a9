package inventory

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// MediaFile describes one regular file found under the backup root.
type MediaFile struct {
	RelativePath string
	AbsolutePath string
	Kind         Kind
	IdentityKey  string
	SizeBytes    int64
	ModTime      time.Time
}

// IdentityKeyFor derives the normalized matching key for a file name. The key
// is the case-folded filename stem joined with the extension group, so
// IMG_001.JPG and img_001.jpg produce the same key, as do a.jpg and a.jpeg
// (both in the photo group). Files outside the photo/video groups keep their
// folded extension so unrelated formats never collide.
func IdentityKeyFor(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	// Casers are stateful; use a fresh one per call.
	folder := cases.Fold()
	group := string(KindForPath(base))
	if KindForPath(base) == KindOther {
		group = folder.String(strings.TrimPrefix(ext, "."))
	}
	return folder.String(stem) + "|" + group
}
