package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "tree"},
		Short:   "List tasks as a tree",
		Long:    "List all tasks in tree order, optionally with tracked hours per task",
		Args:    cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			withHours, _ := cmd.Flags().GetBool("hours")

			rows, err := a.tasks.Summary()
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}

			if len(rows) == 0 {
				fmt.Fprintln(out, "No tasks found. Use 'hourtree add \"task name\"' to create your first task.")
				return nil
			}

			nameWidth := len("TASK")
			for _, r := range rows {
				if n := len([]rune(r.DisplayName)); n > nameWidth {
					nameWidth = n
				}
			}

			// Print table header
			if withHours {
				fmt.Fprintf(out, "%-6s %-*s %8s %8s\n", "ID", nameWidth, "TASK", "TOTAL", "OWN")
				fmt.Fprintln(out, strings.Repeat("-", nameWidth+25))
			} else {
				fmt.Fprintf(out, "%-6s %s\n", "ID", "TASK")
				fmt.Fprintln(out, strings.Repeat("-", nameWidth+7))
			}

			for _, r := range rows {
				marker := ""
				if a.timer.Running() && a.timer.TaskID() == r.ID {
					marker = " ⏱"
				}

				id := fmt.Sprintf("#%d", r.ID)
				if withHours {
					fmt.Fprintf(out, "%-6s %-*s %8.2f %8.2f%s\n", id, nameWidth, r.DisplayName, r.Hours, r.OwnHours, marker)
				} else {
					fmt.Fprintf(out, "%-6s %s%s\n", id, r.DisplayName, marker)
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolP("hours", "H", false, "Show total and own hours")
	return cmd
}
