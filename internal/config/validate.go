package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.BackupRoot) == "" {
		return errors.New("backup_root must be set")
	}
	if strings.TrimSpace(c.TrashDir) == "" {
		return errors.New("trash_dir must be set")
	}
	// Trashing into the tree being scanned would make every pass rediscover
	// its own trash.
	if c.TrashDir == c.BackupRoot || isSubPath(c.BackupRoot, c.TrashDir) {
		return errors.New("trash_dir must not be inside backup_root")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	switch c.Library.Mode {
	case LibraryModeDirectory:
		if strings.TrimSpace(c.Library.Directory) == "" {
			return errors.New("library.directory must be set when library.mode is \"directory\"")
		}
	case LibraryModeAPI:
		if strings.TrimSpace(c.Immich.ServerURL) == "" {
			return errors.New("immich.server_url must be set when library.mode is \"api\"")
		}
		if strings.TrimSpace(c.Immich.APIKey) == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/photosift/config.toml"
			}
			return fmt.Errorf("immich.api_key is required when library.mode is \"api\". Set IMMICH_API_KEY env var or edit %s (create with 'photosift config init')", defaultPath)
		}
	default:
		return fmt.Errorf("library.mode must be %q or %q, got %q", LibraryModeDirectory, LibraryModeAPI, c.Library.Mode)
	}
	return nil
}

func isSubPath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
