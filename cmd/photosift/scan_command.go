package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photosift/internal/inventory"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inventory the backup tree and count files per kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			result, err := inventory.Scan(cmd.Context(), cfg.BackupRoot)
			if err != nil {
				return err
			}

			counts := result.CountByKind()
			if jsonOutput {
				payload := struct {
					Root    string         `json:"root"`
					Total   int            `json:"total"`
					Counts  map[string]int `json:"counts"`
					Errors  []string       `json:"errors,omitempty"`
					Skipped int            `json:"unreadable_entries"`
				}{
					Root:    result.Root,
					Total:   len(result.Files),
					Counts:  map[string]int{},
					Skipped: len(result.EntryErrors),
				}
				for kind, count := range counts {
					payload.Counts[string(kind)] = count
				}
				for _, entryErr := range result.EntryErrors {
					payload.Errors = append(payload.Errors, entryErr.Error())
				}
				return writeJSON(cmd, payload)
			}

			rows := [][]string{
				{"Photos", strconv.Itoa(counts[inventory.KindPhoto])},
				{"Videos", strconv.Itoa(counts[inventory.KindVideo])},
				{"Other", strconv.Itoa(counts[inventory.KindOther])},
				{"Total", strconv.Itoa(len(result.Files))},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backup root: %s\n", result.Root)
			fmt.Fprintln(out, renderTable([]string{"Kind", "Files"}, rows, 1))
			for _, entryErr := range result.EntryErrors {
				fmt.Fprintf(out, "warning: %s\n", entryErr.Error())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}
