package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/hourtree/internal/tui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse tasks and run the timer interactively",
		Long: `Open the interactive task browser.

Keys:
  ↑/↓ k/j    Navigate tasks
  ←/→ h/l    Previous/next page
  enter      Start timer on selected task (switches if running)
  s          Stop timer
  a          Add subtask under selected task
  A          Add root task
  d          Delete selected task (asks first)
  r          Refresh
  q/esc      Quit (asks to stop a running timer)`,
		Args: cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string) error {
			return tui.RunTreeTUI(a.timer, a.tasks, a.store)
		}),
	}
}
