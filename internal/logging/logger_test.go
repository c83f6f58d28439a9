package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photosift/internal/logging"
	"photosift/internal/testsupport"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("listing complete", "entries", 3)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"listing complete"`) {
		t.Fatalf("expected message in log output, got %q", line)
	}
	if !strings.Contains(line, `"ts":`) {
		t.Fatalf("expected ts key in log output, got %q", line)
	}
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	logger.Info("started")

	if _, err := os.Stat(filepath.Join(cfg.LogDir, "photosift.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}
