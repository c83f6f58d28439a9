// Package testsupport provides shared fixtures for photosift tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"photosift/internal/config"
)

// SeedMediaTree writes the given relative-path -> content map under a fresh
// temporary directory and returns its root.
func SeedMediaTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// NewConfig returns a validated config rooted entirely inside temporary
// directories so tests never touch the host filesystem layout.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfgVal := config.Default()
	cfg := &cfgVal
	cfg.BackupRoot = filepath.Join(base, "backup")
	cfg.TrashDir = filepath.Join(base, "trash")
	cfg.LogDir = filepath.Join(base, "logs")
	cfg.DataDir = filepath.Join(base, "data")
	cfg.Library.Mode = config.LibraryModeDirectory
	cfg.Library.Directory = filepath.Join(base, "library")
	for _, dir := range []string{cfg.BackupRoot, cfg.Library.Directory} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	return cfg
}
