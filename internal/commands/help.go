package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show a walkthrough of every command",
		Long:  `Display detailed help for all hourtree commands and flags.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), guideText)
		},
	}
}

const guideText = `
hourtree - hierarchical work-hours tracker

TASKS:

  add <name>              Create a task
    -p, --parent          Parent task ID
    A name with '/' creates the whole path:
      hourtree add "Work/Client A/Feature X"

  rm <id>                 Delete a task, its subtasks and their time
    -y, --yes             Skip confirmation

  ls                      Show the task tree
    -H, --hours           Include total and own hours

  path <id>               Print the full path of a task
  hours <id>              Hours including subtasks
    --own                 Only time tracked directly on the task

TIME:

  start <id>              Start the timer (stops any running one first)
    --no-ui               Skip the interactive timer
  stop                    Stop the timer
  status                  Show the running timer

  log                     List timespans, newest first
    -n, --limit           Show at most N
    -t, --task            Only one task's timespans
  move <span> <task>      Reassign a timespan to another task

REPORTS:

  week                    Weekly timesheet
    -w, --week            this | last | -N | dd/mm/yyyy
    -d, --depth           Roll up to tasks at this depth
  report                  Export the tree with hours
    -f, --format          yaml | json
    -q, --query           GJSON path, e.g. 'tasks.#.path'

OTHER:

  ui                      Interactive task browser and timer
  config show|path|init   Configuration
  version                 Version information

Global flags: --db <file>, --config <file>
Environment:  HOURTREE_DATABASE, HOURTREE_LOG_LEVEL

`
