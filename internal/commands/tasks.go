package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/hourtree/internal/parser"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Long: `Add a task, either as a root or under an existing parent.

A name containing '/' is read as a path: every missing segment is created
under the nearest existing ancestor.

Examples:
  hourtree add Work                      # root task
  hourtree add "Client A" -p 1           # child of task #1
  hourtree add "Work/Client A/Feature X" # whole path at once`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			parentArg, _ := cmd.Flags().GetString("parent")

			var id uint
			var err error
			if parentArg == "" && parser.IsPath(name) {
				id, err = a.tasks.AddPath(name)
			} else {
				var parent *uint
				if parentArg != "" {
					p, perr := parser.ParseTaskID(parentArg)
					if perr != nil {
						return perr
					}
					parent = &p
				}
				id, err = a.tasks.AddTask(name, parent)
			}
			if err != nil {
				return fmt.Errorf("failed to add task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Created task #%d: %s\n", id, a.tasks.Path(id))
			return nil
		}),
	}

	cmd.Flags().StringP("parent", "p", "", "Parent task ID")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task, its subtasks and their tracked time",
		Args:    cobra.ExactArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			id, err := parser.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			ids, err := a.store.DescendantIDs(id)
			if err != nil {
				return err
			}
			path := a.tasks.Path(id)

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				prompt := fmt.Sprintf("Delete #%d %s", id, path)
				if len(ids) > 1 {
					prompt += fmt.Sprintf(" and %d subtask(s)", len(ids)-1)
				}
				if !confirm(cmd, prompt+" with all tracked time?") {
					fmt.Fprintln(cmd.OutOrStdout(), "❌ Cancelled.")
					return nil
				}
			}

			// The open timespan goes away with its task; drop the timer first.
			if a.timer.Running() && contains(ids, a.timer.TaskID()) {
				if err := a.timer.Stop(); err != nil {
					return err
				}
			}

			if err := a.tasks.DeleteTask(id); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted #%d %s (%d task(s))\n", id, path, len(ids))
			return nil
		}),
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path <task-id>",
		Short: "Print the full path of a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			id, err := parser.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			path := a.tasks.Path(id)
			if path == "" {
				return fmt.Errorf("task #%d not found", id)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}),
	}
}

func newHoursCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours <task-id>",
		Short: "Show hours tracked on a task",
		Long: `Show closed time tracked on a task, including all of its subtasks.
Use --own to count only time tracked directly on the task. A running
timer is not counted until it is stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			id, err := parser.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			own, _ := cmd.Flags().GetBool("own")
			hours, err := a.store.TotalHours(id, !own)
			if err != nil {
				return err
			}

			scope := "including subtasks"
			if own {
				scope = "own time only"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2fh (%s)\n", a.tasks.Path(id), hours, scope)
			return nil
		}),
	}

	cmd.Flags().Bool("own", false, "Exclude subtasks")
	return cmd
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
