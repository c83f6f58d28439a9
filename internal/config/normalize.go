package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeImmich()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.BackupRoot, err = expandPath(c.BackupRoot); err != nil {
		return fmt.Errorf("backup_root: %w", err)
	}
	if strings.TrimSpace(c.TrashDir) == "" {
		c.TrashDir = defaultTrashDir
	}
	if c.TrashDir, err = expandPath(c.TrashDir); err != nil {
		return fmt.Errorf("trash_dir: %w", err)
	}
	if strings.TrimSpace(c.LogDir) == "" {
		c.LogDir = defaultLogDir
	}
	if c.LogDir, err = expandPath(c.LogDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if c.DataDir, err = expandPath(c.DataDir); err != nil {
		return fmt.Errorf("data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	c.Library.Mode = strings.ToLower(strings.TrimSpace(c.Library.Mode))
	if c.Library.Mode == "" {
		c.Library.Mode = defaultLibraryMode
	}
	if strings.TrimSpace(c.Library.Directory) != "" {
		var err error
		if c.Library.Directory, err = expandPath(c.Library.Directory); err != nil {
			return fmt.Errorf("library.directory: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeImmich() {
	c.Immich.ServerURL = strings.TrimRight(strings.TrimSpace(c.Immich.ServerURL), "/")
	c.Immich.APIKey = strings.TrimSpace(c.Immich.APIKey)
	if c.Immich.APIKey == "" {
		if value, ok := os.LookupEnv("IMMICH_API_KEY"); ok {
			c.Immich.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Immich.TimeoutSeconds <= 0 {
		c.Immich.TimeoutSeconds = defaultImmichTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
