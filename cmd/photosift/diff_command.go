package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photosift/internal/reconcile"
	"photosift/internal/session"
)

func newDiffCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Report backup files missing from the Immich library",
		Long:  "Scans the backup tree, lists the remote library, and prints the files the library is missing. Never modifies anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := session.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := reconcile.NewRunner(cfg, store, logger)
			plan, err := runner.Plan(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				type missingEntry struct {
					RelativePath string `json:"relative_path"`
					Kind         string `json:"kind"`
					SizeBytes    int64  `json:"size_bytes"`
				}
				payload := struct {
					BackupFiles int            `json:"backup_files"`
					RemoteCount int            `json:"remote_entries"`
					Missing     []missingEntry `json:"missing"`
				}{
					BackupFiles: len(plan.Scan.Files),
					RemoteCount: plan.RemoteCount,
					Missing:     make([]missingEntry, 0, len(plan.Missing)),
				}
				for _, file := range plan.Missing {
					payload.Missing = append(payload.Missing, missingEntry{
						RelativePath: file.RelativePath,
						Kind:         string(file.Kind),
						SizeBytes:    file.SizeBytes,
					})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backup files: %d  Remote entries: %d  Missing: %d\n",
				len(plan.Scan.Files), plan.RemoteCount, len(plan.Missing))
			if len(plan.Missing) == 0 {
				fmt.Fprintln(out, "Backup and library are in sync.")
				return nil
			}

			rows := make([][]string, 0, len(plan.Missing))
			for _, file := range plan.Missing {
				rows = append(rows, []string{file.RelativePath, string(file.Kind), formatSize(file.SizeBytes)})
			}
			fmt.Fprintln(out, renderTable([]string{"Path", "Kind", "Size"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}
