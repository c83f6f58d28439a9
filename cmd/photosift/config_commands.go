package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"photosift/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit backup_root and the [library] section before running photosift sync.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Root().PersistentFlags().GetString("config")
			cfg, path, exists, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if jsonOutput {
				payload := struct {
					Path       string `json:"path"`
					Exists     bool   `json:"exists"`
					BackupRoot string `json:"backup_root"`
					TrashDir   string `json:"trash_dir"`
					LogDir     string `json:"log_dir"`
					DataDir    string `json:"data_dir"`
					Library    struct {
						Mode      string `json:"mode"`
						Directory string `json:"directory,omitempty"`
					} `json:"library"`
					ImmichServer string `json:"immich_server,omitempty"`
				}{
					Path:       path,
					Exists:     exists,
					BackupRoot: cfg.BackupRoot,
					TrashDir:   cfg.TrashDir,
					LogDir:     cfg.LogDir,
					DataDir:    cfg.DataDir,
				}
				payload.Library.Mode = cfg.Library.Mode
				payload.Library.Directory = cfg.Library.Directory
				payload.ImmichServer = cfg.Immich.ServerURL
				return writeJSON(cmd, payload)
			}

			rows := [][]string{
				{"config path", path},
				{"backup_root", cfg.BackupRoot},
				{"trash_dir", cfg.TrashDir},
				{"log_dir", cfg.LogDir},
				{"data_dir", cfg.DataDir},
				{"library.mode", cfg.Library.Mode},
			}
			if cfg.Library.Mode == config.LibraryModeDirectory {
				rows = append(rows, []string{"library.directory", cfg.Library.Directory})
			} else {
				rows = append(rows, []string{"immich.server_url", cfg.Immich.ServerURL})
			}
			rows = append(rows, []string{"logging", cfg.Logging.Format + "/" + cfg.Logging.Level})

			out := cmd.OutOrStdout()
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults shown.")
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}
