package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"photosift/internal/inventory"
	"photosift/internal/reconcile"
	"photosift/internal/session"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		applyFlag  string
		kindFlag   string
		matchFlag  string
		resumeFlag string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Triage backup files missing from the Immich library",
		Long: "Builds (or resumes) a triage session from the diff and walks through each " +
			"missing file. Interactive by default; use --apply for unattended batch decisions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var batchDecision session.Decision
			if applyFlag != "" {
				decision, ok := session.ParseDecision(applyFlag)
				if !ok || decision == session.DecisionDefer {
					return fmt.Errorf("--apply must be one of trash, keep, skip (got %q)", applyFlag)
				}
				batchDecision = decision
			} else if !isInteractiveInput(cmd) {
				return errors.New("interactive sync requires a terminal; use --apply trash|keep|skip for unattended runs")
			}

			filter, err := buildFilter(kindFlag, matchFlag)
			if err != nil {
				return err
			}

			store, err := session.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := reconcile.NewRunner(cfg, store, logger)
			if err := runner.Acquire(); err != nil {
				return err
			}
			defer runner.Release()

			record, created, err := openSession(cmd, runner, resumeFlag)
			if err != nil {
				return err
			}
			if record == nil {
				// Nothing missing; the diff came back empty.
				return nil
			}

			engine := runner.Engine(record)
			engine.SetFilter(filter)

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Session %s created.\n", record.ID)
			} else {
				fmt.Fprintf(out, "Resuming session %s.\n", record.ID)
			}

			if batchDecision != "" {
				applied, applyErr := engine.ApplyToRemaining(cmd.Context(), batchDecision)
				fmt.Fprintf(out, "Applied %q to %d items.\n", batchDecision, applied)
				if summaryErr := printSummary(cmd, engine, jsonOutput); summaryErr != nil {
					return summaryErr
				}
				return applyErr
			}

			if err := runPromptLoop(cmd, engine); err != nil {
				return err
			}
			return printSummary(cmd, engine, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the final summary as JSON")
	cmd.Flags().StringVar(&applyFlag, "apply", "", "Apply one decision (trash|keep|skip) to all remaining items and exit")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only consider items of this kind (photo|video)")
	cmd.Flags().StringVar(&matchFlag, "match", "", "Only consider items whose path contains this substring")
	cmd.Flags().StringVar(&resumeFlag, "resume", "", "Resume a prior session by id (or \"latest\")")
	return cmd
}

// isInteractiveInput reports whether the command can prompt. File-backed
// stdin (the real terminal or a shell pipe) must be a TTY; an injected
// non-file reader is treated as scripted input.
func isInteractiveInput(cmd *cobra.Command) bool {
	file, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return true
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func buildFilter(kindFlag, matchFlag string) (session.Filter, error) {
	var filter session.Filter
	if kindFlag != "" {
		kind, ok := inventory.ParseKind(kindFlag)
		if !ok {
			return session.Filter{}, fmt.Errorf("--kind must be photo or video (got %q)", kindFlag)
		}
		filter.Kind = kind
	}
	filter.Pattern = matchFlag
	return filter, nil
}

// openSession resumes the requested session or plans a fresh one. A nil
// record with nil error means the backup and library are already in sync.
func openSession(cmd *cobra.Command, runner *reconcile.Runner, resume string) (*session.Record, bool, error) {
	if resume != "" {
		id := resume
		if id == "latest" {
			id = ""
		}
		record, err := runner.Resume(cmd.Context(), id)
		if err != nil {
			return nil, false, err
		}
		return record, false, nil
	}

	plan, err := runner.Plan(cmd.Context())
	if err != nil {
		return nil, false, err
	}
	if len(plan.Missing) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Backup and library are in sync; nothing to triage.")
		return nil, false, nil
	}
	record, err := runner.CreateSession(cmd.Context(), plan)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func printSummary(cmd *cobra.Command, engine *session.Engine, jsonOutput bool) error {
	summary, err := engine.Summary(cmd.Context())
	if err != nil {
		return err
	}
	var failures []*session.Item
	if summary.Errors > 0 {
		if failures, err = engine.Failures(cmd.Context()); err != nil {
			return err
		}
	}

	if jsonOutput {
		type failureEntry struct {
			RelativePath string `json:"relative_path"`
			Error        string `json:"error"`
		}
		payload := struct {
			Session  string         `json:"session"`
			Pending  int            `json:"pending"`
			Deferred int            `json:"deferred"`
			Trashed  int            `json:"trashed"`
			Kept     int            `json:"kept"`
			Skipped  int            `json:"skipped"`
			Errors   int            `json:"errors"`
			Failures []failureEntry `json:"failures,omitempty"`
		}{
			Session:  engine.Record().ID,
			Pending:  summary.Pending,
			Deferred: summary.Deferred,
			Trashed:  summary.Trashed,
			Kept:     summary.Kept,
			Skipped:  summary.Skipped,
			Errors:   summary.Errors,
		}
		for _, item := range failures {
			payload.Failures = append(payload.Failures, failureEntry{
				RelativePath: item.RelativePath,
				Error:        item.ErrorMessage,
			})
		}
		return writeJSON(cmd, payload)
	}

	rows := [][]string{
		{"Trashed", strconv.Itoa(summary.Trashed)},
		{"Kept", strconv.Itoa(summary.Kept)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Still pending", strconv.Itoa(summary.Remaining())},
		{"Errors", strconv.Itoa(summary.Errors)},
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s summary:\n", engine.Record().ID)
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Items"}, rows, 1))
	for _, item := range failures {
		fmt.Fprintf(out, "failed: %s: %s\n", item.RelativePath, item.ErrorMessage)
	}
	if summary.Remaining() > 0 {
		fmt.Fprintf(out, "Resume later with: photosift sync --resume %s\n", engine.Record().ID)
	}
	return nil
}
