package inventory

import (
	"path/filepath"
	"strings"
)

// Kind classifies a media file by its extension.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

var photoExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".heic": {}, ".dng": {},
	".raw": {}, ".arw": {}, ".cr2": {}, ".nef": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".m4v": {}, ".3gp": {}, ".mkv": {},
	".webm": {}, ".flv": {}, ".wmv": {}, ".mts": {}, ".m2ts": {},
}

// KindForPath classifies a file path by extension, case-insensitively.
func KindForPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := photoExtensions[ext]; ok {
		return KindPhoto
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	return KindOther
}

// IsMedia reports whether the kind participates in reconciliation by default.
func (k Kind) IsMedia() bool {
	return k == KindPhoto || k == KindVideo
}

// ParseKind converts a user-supplied string into a known Kind. An empty
// string means "any" and returns ok with an empty Kind.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", true
	case "photo", "photos":
		return KindPhoto, true
	case "video", "videos":
		return KindVideo, true
	case "other":
		return KindOther, true
	default:
		return "", false
	}
}
