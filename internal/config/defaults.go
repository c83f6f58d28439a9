package config

const (
	defaultBackupRoot           = "~/photos-backup"
	defaultTrashDir             = "~/.local/share/photosift/trash"
	defaultLogDir               = "~/.local/share/photosift/logs"
	defaultDataDir              = "~/.local/share/photosift"
	defaultLibraryMode          = LibraryModeDirectory
	defaultLibraryDirectory     = "~/immich/library/upload"
	defaultImmichTimeoutSeconds = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		BackupRoot: defaultBackupRoot,
		TrashDir:   defaultTrashDir,
		LogDir:     defaultLogDir,
		DataDir:    defaultDataDir,
		Library: Library{
			Mode:      defaultLibraryMode,
			Directory: defaultLibraryDirectory,
		},
		Immich: Immich{
			TimeoutSeconds: defaultImmichTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
