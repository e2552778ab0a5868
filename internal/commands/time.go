package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/hourtree/internal/parser"
	"github.com/balkashynov/hourtree/internal/timer"
	"github.com/balkashynov/hourtree/internal/tui"
)

func newStartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <task-id>",
		Short: "Start tracking time on a task",
		Long: `Start tracking time on a task. A timer already running on another task
is stopped first. Opens the interactive timer by default, use --no-ui for a
simple start.

Examples:
  hourtree start 42         # Start timer with interactive UI
  hourtree start 42 --no-ui # Start timer without UI`,
		Args: cobra.ExactArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			id, err := parser.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			prevTask := a.timer.TaskID()
			prevElapsed := a.timer.Elapsed()
			wasRunning := a.timer.Running()

			if err := a.timer.Start(id); err != nil {
				return err
			}

			if wasRunning {
				fmt.Fprintf(out, "⏹️  Stopped #%d %s after %s\n", prevTask, a.tasks.Path(prevTask), timer.FormatDuration(prevElapsed))
			}

			noUI, _ := cmd.Flags().GetBool("no-ui")
			if noUI {
				fmt.Fprintf(out, "⏱️  Started tracking time for #%d: %s\n", id, a.tasks.Path(id))
				fmt.Fprintf(out, "Started at: %s\n", a.timer.StartedAt().Format("15:04:05"))
				return nil
			}

			return tui.RunTimerTUI(a.timer, a.tasks, a.store)
		}),
	}

	cmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
	return cmd
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop tracking time",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !a.timer.Running() {
				fmt.Fprintln(out, "No active timer")
				return nil
			}

			taskID := a.timer.TaskID()
			elapsed := a.timer.Elapsed()
			if err := a.timer.Stop(); err != nil {
				return err
			}

			fmt.Fprintf(out, "⏹️  Stopped tracking time for #%d: %s\n", taskID, a.tasks.Path(taskID))
			fmt.Fprintf(out, "Session duration: %s\n", timer.FormatDuration(elapsed))
			return nil
		}),
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current time tracking status",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !a.timer.Running() {
				fmt.Fprintln(out, "No active timer")
				return nil
			}

			fmt.Fprintf(out, "⏱️  Currently tracking: #%d %s\n", a.timer.TaskID(), a.tasks.Path(a.timer.TaskID()))
			fmt.Fprintf(out, "Started at: %s\n", a.timer.StartedAt().Local().Format(a.cfg.DateFormat))
			fmt.Fprintf(out, "Elapsed time: %s\n", a.timer.FormatElapsed())
			return nil
		}),
	}
}

// formatHours renders hours the way listings show them.
func formatHours(h float64) string {
	if h == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", h)
}

// formatSpanDuration renders a closed duration as decimal hours.
func formatSpanDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fh", d.Hours())
}
