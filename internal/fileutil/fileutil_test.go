package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"photosift/internal/fileutil"
)

func TestCopyVerifiedCopiesContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	payload := []byte("not really a jpeg, but bytes are bytes")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyVerified(src, dst); err != nil {
		t.Fatalf("CopyVerified failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("destination content mismatch: %q", got)
	}
}

func TestCopyVerifiedRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("write destination: %v", err)
	}

	if err := fileutil.CopyVerified(src, dst); err == nil {
		t.Fatal("expected error for existing destination")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != "old" {
		t.Fatalf("destination was overwritten: %q", got)
	}
}

func TestCopyVerifiedMissingSourceLeavesNoDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "missing.jpg")
	dst := filepath.Join(dir, "dst.jpg")

	if err := fileutil.CopyVerified(src, dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if fileutil.Exists(dst) {
		t.Fatal("destination should not exist after failed copy")
	}
}
