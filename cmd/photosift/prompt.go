package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"photosift/internal/inventory"
	"photosift/internal/session"
)

const promptHelp = `  t  trash the file (copy to trash dir, then delete)
  k  keep the file and stop offering it
  s  skip the file this session
  d  defer the file until the rest is decided
  v  view file details
  b  add the file to the batch selection (and defer it)
  x  apply one decision to the batch selection
  a  apply one decision to everything remaining
  f  set or clear the filter (f photo | f video | f <substring> | f clear)
  q  quit (session can be resumed later)
  ?  show this help`

// runPromptLoop walks the session item by item until it is exhausted or the
// user quits. Every decision is persisted as it is made.
func runPromptLoop(cmd *cobra.Command, engine *session.Engine) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewScanner(cmd.InOrStdin())

	for {
		item, err := engine.Next(cmd.Context())
		if err != nil {
			return err
		}
		if item == nil {
			fmt.Fprintln(out, "No undecided items remain.")
			return nil
		}

		fmt.Fprintf(out, "\n%s  (%s, %s)\n", item.RelativePath, item.Kind, formatSize(item.SizeBytes))
		if item.ErrorMessage != "" {
			fmt.Fprintf(out, "  previous attempt failed: %s\n", item.ErrorMessage)
		}
		fmt.Fprint(out, "[t/k/s/d/v/b/x/a/f/q/?] > ")

		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}
		action := strings.ToLower(input)

		switch {
		case action == "t" || action == "k" || action == "s" || action == "d":
			decision := decisionForKey(action)
			if err := engine.Decide(cmd.Context(), item, decision); err != nil {
				fmt.Fprintf(out, "%s failed: %v (file left undecided)\n", decision, err)
			}
		case action == "v":
			printItemDetails(out, item)
		case action == "b":
			if err := engine.Select(cmd.Context(), item.ID); err != nil {
				fmt.Fprintf(out, "select failed: %v\n", err)
				continue
			}
			if err := engine.Decide(cmd.Context(), item, session.DecisionDefer); err != nil {
				fmt.Fprintf(out, "defer failed: %v\n", err)
			}
			fmt.Fprintf(out, "Selected for batch (%d selected).\n", len(engine.Selected()))
		case action == "x":
			decision, ok := promptDecision(out, reader, fmt.Sprintf("Apply to %d selected items", len(engine.Selected())))
			if !ok {
				continue
			}
			applied, applyErr := engine.ApplyBatch(cmd.Context(), decision)
			fmt.Fprintf(out, "Applied %q to %d items.\n", decision, applied)
			if applyErr != nil {
				fmt.Fprintf(out, "some items failed: %v\n", applyErr)
			}
		case action == "a":
			decision, ok := promptDecision(out, reader, "Apply to ALL remaining items")
			if !ok {
				continue
			}
			applied, applyErr := engine.ApplyToRemaining(cmd.Context(), decision)
			fmt.Fprintf(out, "Applied %q to %d items.\n", decision, applied)
			if applyErr != nil {
				fmt.Fprintf(out, "some items failed: %v\n", applyErr)
			}
		case action == "f" || strings.HasPrefix(action, "f "):
			handleFilterInput(out, engine, strings.TrimSpace(input[1:]))
		case action == "q":
			return nil
		case action == "?":
			fmt.Fprintln(out, promptHelp)
		default:
			fmt.Fprintf(out, "unknown action %q (? for help)\n", input)
		}
	}
}

func decisionForKey(key string) session.Decision {
	switch key {
	case "t":
		return session.DecisionTrash
	case "k":
		return session.DecisionKeep
	case "s":
		return session.DecisionSkip
	case "d":
		return session.DecisionDefer
	}
	return ""
}

func printItemDetails(out io.Writer, item *session.Item) {
	fmt.Fprintf(out, "  path:     %s\n", item.AbsolutePath)
	fmt.Fprintf(out, "  kind:     %s\n", item.Kind)
	fmt.Fprintf(out, "  size:     %s (%d bytes)\n", formatSize(item.SizeBytes), item.SizeBytes)
	if !item.ModTime.IsZero() {
		fmt.Fprintf(out, "  modified: %s\n", item.ModTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "  identity: %s\n", item.IdentityKey)
}

// promptDecision asks for a terminal decision and a confirmation. ok=false
// means the user backed out.
func promptDecision(out io.Writer, reader *bufio.Scanner, what string) (session.Decision, bool) {
	fmt.Fprintf(out, "%s: [t]rash, [k]eep, [s]kip, or enter to cancel > ", what)
	if !reader.Scan() {
		return "", false
	}
	decision := decisionForKey(strings.ToLower(strings.TrimSpace(reader.Text())))
	if decision == "" || decision == session.DecisionDefer {
		fmt.Fprintln(out, "cancelled")
		return "", false
	}

	fmt.Fprintf(out, "Confirm %q? [y/N] > ", decision)
	if !reader.Scan() {
		return "", false
	}
	if answer := strings.ToLower(strings.TrimSpace(reader.Text())); answer != "y" && answer != "yes" {
		fmt.Fprintln(out, "cancelled")
		return "", false
	}
	return decision, true
}

func handleFilterInput(out io.Writer, engine *session.Engine, arg string) {
	switch strings.ToLower(arg) {
	case "", "clear":
		engine.ClearFilter()
		fmt.Fprintln(out, "Filter cleared.")
	case string(inventory.KindPhoto), string(inventory.KindVideo):
		kind, _ := inventory.ParseKind(strings.ToLower(arg))
		engine.SetFilter(session.Filter{Kind: kind})
		fmt.Fprintf(out, "Filter: %s\n", engine.Filter())
	default:
		engine.SetFilter(session.Filter{Pattern: arg})
		fmt.Fprintf(out, "Filter: %s\n", engine.Filter())
	}
}
