package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"cardstack/internal/deck"
	"cardstack/internal/models"
)

func listCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the current card, the deck, snoozed and completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, quietLogs)
			if err != nil {
				return err
			}
			defer a.Close()

			if category != "" && !a.deck.SelectCategory(models.Category(category)) {
				return fmt.Errorf("unknown category %q", category)
			}
			st := a.deck.State()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printState(out, st, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the deck state as JSON")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show tasks in this category")

	return cmd
}

func printState(w io.Writer, st deck.State, now time.Time) {
	if st.CurrentTask == nil {
		fmt.Fprintln(w, "No tasks in the deck.")
	} else {
		fmt.Fprintf(w, "Current (%d/%d): %s\n", st.CurrentIndex+1, len(st.Tasks), describe(*st.CurrentTask))
		if st.CurrentTask.Description != "" {
			fmt.Fprintf(w, "  %s\n", st.CurrentTask.Description)
		}
	}

	if len(st.Tasks) > 0 {
		fmt.Fprintln(w, "\nDeck:")
		for i, t := range st.Tasks {
			marker := " "
			if i == st.CurrentIndex {
				marker = ">"
			}
			fmt.Fprintf(w, "%s %2d. %s\n", marker, i+1, describe(t))
		}
	}

	if len(st.SnoozedTasks) > 0 {
		fmt.Fprintln(w, "\nSnoozed:")
		for _, t := range st.SnoozedTasks {
			fmt.Fprintf(w, "  %s (wakes in %s)\n", describe(t), t.SnoozedUntil.Sub(now).Round(time.Minute))
		}
	}

	if len(st.CompletedTasks) > 0 {
		fmt.Fprintln(w, "\nCompleted:")
		for _, t := range st.CompletedTasks {
			fmt.Fprintf(w, "  %s\n", describe(t))
		}
	}
}

func describe(t models.Task) string {
	s := fmt.Sprintf("%s [%s/%s]", t.Title, t.Category, t.Priority)
	if t.DueDate != nil {
		s += " due " + t.DueDate.Local().Format(time.DateOnly)
	}
	if t.HasSubtasks {
		s += fmt.Sprintf(" (%d subtasks)", len(t.Subtasks))
	}
	return s
}
