package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cardstack/internal/config"
	"cardstack/internal/models"
)

func addCmd(opts *rootOptions) *cobra.Command {
	var description, priority, category, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the bottom of the deck",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.TaskInput{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    models.ParsePriority(priority),
				Category:    models.ParseCategory(category),
			}
			if due != "" {
				t, err := parseDue(due)
				if err != nil {
					return err
				}
				in.DueDate = &t
			}

			a, err := openApp(cmd.Context(), opts, quietLogs)
			if err != nil {
				return err
			}
			defer a.Close()

			task, ok := a.deck.AddTask(in)
			if !ok {
				return fmt.Errorf("title is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s, %s)\n", task.ID, task.Category, task.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(models.DefaultPriority), "Priority: low, medium or high")
	cmd.Flags().StringVarP(&category, "category", "c", string(models.DefaultCategory), "Category: work, personal, errands or other")
	cmd.Flags().StringVar(&due, "due", "", "Due date as YYYY-MM-DD or RFC3339")

	return cmd
}

// parseDue accepts a bare date in local time or a full RFC3339 timestamp.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: use YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

// quietLogs keeps one-shot commands from printing info logs over their output.
func quietLogs(cfg *config.Config) {
	if cfg.Logger.Level != "debug" {
		cfg.Logger.Level = "warn"
	}
}
