// Package tui holds the Bubble Tea programs: the full screen timer and the
// interactive task tree browser.
package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/hourtree/internal/timer"
	"github.com/balkashynov/hourtree/internal/tree"
)

// HoursStore is the read side of the persistent store the screens need.
type HoursStore interface {
	TotalHours(taskID uint, includeDescendants bool) (float64, error)
	DescendantIDs(id uint) ([]uint, error)
}

// RunTimerTUI shows the running timer until the user stops it or leaves.
func RunTimerTUI(t *timer.Timer, tasks *tree.Manager, store HoursStore) error {
	return runTimer(os.Stdout, t, tasks, store)
}

func runTimer(out io.Writer, t *timer.Timer, tasks *tree.Manager, store HoursStore) error {
	if !t.Running() {
		return fmt.Errorf("no active timer")
	}

	model := NewTimerModel(t, tasks, store)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m := finalModel.(TimerModel)
	switch {
	case m.stopping:
		elapsed := t.Elapsed()
		if err := t.Stop(); err != nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}
		fmt.Fprintf(out, "⏹️  Stopped tracking time for #%d: %s\n", m.taskID, m.path)
		fmt.Fprintf(out, "📊 Session duration: %s\n", timer.FormatDuration(elapsed))
	case m.exiting:
		printStillRunning(out, m.taskID, m.path)
	}

	return nil
}

// RunTreeTUI opens the task browser.
func RunTreeTUI(t *timer.Timer, tasks *tree.Manager, store HoursStore) error {
	model := NewTreeModel(t, tasks, store)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m := finalModel.(TreeModel)
	if m.err != nil {
		return m.err
	}
	if t.Running() {
		printStillRunning(os.Stdout, t.TaskID(), tasks.Path(t.TaskID()))
	}
	return nil
}

func printStillRunning(out io.Writer, id uint, path string) {
	fmt.Fprintf(out, "\n💡 Timer is still running for #%d: %s\n", id, path)
	fmt.Fprintf(out, "   Use 'hourtree status' to check it or 'hourtree stop' to stop it.\n")
}
