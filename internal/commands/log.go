package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/hourtree/internal/models"
	"github.com/balkashynov/hourtree/internal/parser"
)

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List tracked timespans, newest first",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			limit, _ := cmd.Flags().GetInt("limit")
			taskArg, _ := cmd.Flags().GetString("task")

			var entries []models.TimespanEntry
			if taskArg != "" {
				id, err := parser.ParseTaskID(taskArg)
				if err != nil {
					return err
				}
				task, err := a.store.GetTask(id)
				if err != nil {
					return err
				}
				if task == nil {
					return fmt.Errorf("task #%d not found", id)
				}
				spans, err := a.store.TimespansForTask(id)
				if err != nil {
					return err
				}
				for _, ts := range spans {
					entries = append(entries, models.TimespanEntry{Timespan: ts, TaskName: task.Name})
				}
			} else {
				all, err := a.store.ListTimespans()
				if err != nil {
					return err
				}
				entries = all
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No time tracked yet.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			layout := a.cfg.DateFormat
			fmt.Fprintf(out, "%-6s %-24s %-20s %-20s %s\n", "ID", "TASK", "START", "END", "DURATION")
			for _, e := range entries {
				name := truncate(e.TaskName, 24)

				end := "Running..."
				duration := "N/A"
				if !e.IsOpen() {
					end = e.EndTime.Local().Format(layout)
					duration = formatSpanDuration(e.Duration())
				}

				fmt.Fprintf(out, "%-6s %-24s %-20s %-20s %s\n",
					fmt.Sprintf("#%d", e.ID), name, e.StartTime.Local().Format(layout), end, duration)
			}
			return nil
		}),
	}

	cmd.Flags().IntP("limit", "n", 0, "Show at most N timespans")
	cmd.Flags().StringP("task", "t", "", "Only timespans tracked directly on this task")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <timespan-id> <task-id>",
		Short: "Reassign a timespan to another task",
		Long: `Reassign a tracked timespan to a different task, e.g. when the timer was
running on the wrong task. Works on running and finished timespans.`,
		Args: cobra.ExactArgs(2),
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			spanID, err := parser.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			taskID, err := parser.ParseTaskID(args[1])
			if err != nil {
				return err
			}

			if err := a.store.ReassignTimespan(spanID, taskID); err != nil {
				return fmt.Errorf("failed to move timespan: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "↪️  Moved timespan #%d to #%d %s\n", spanID, taskID, a.tasks.Path(taskID))
			return nil
		}),
	}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
