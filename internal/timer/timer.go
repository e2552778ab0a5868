// Package timer brackets one running timespan at a time against a task.
package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/balkashynov/hourtree/internal/db"
	"github.com/balkashynov/hourtree/internal/models"
)

// Store is the persistence the timer drives.
type Store interface {
	GetTask(id uint) (*models.Task, error)
	StartTimespan(taskID uint) (uint, error)
	StopTimespan(id uint) error
	OpenTimespan() (*models.Timespan, error)
}

// State is the timer's lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Timer owns the single open timespan of a process. It is not safe for
// concurrent use; callers share one instance by reference.
type Timer struct {
	store Store
	now   func() time.Time

	state      State
	taskID     uint
	timespanID uint
	startedAt  time.Time
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the wall clock used for elapsed time.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// New returns an idle timer backed by store.
func New(store Store, opts ...Option) *Timer {
	t := &Timer{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins timing taskID. A running interval is closed first, so
// switching tasks never leaves two intervals open. An unknown task is
// rejected before anything is stopped.
func (t *Timer) Start(taskID uint) error {
	task, err := t.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task #%d %w", taskID, db.ErrNotFound)
	}

	if err := t.Stop(); err != nil {
		return fmt.Errorf("failed to stop running timer: %w", err)
	}

	startedAt := t.now()
	id, err := t.store.StartTimespan(taskID)
	if err != nil {
		return err
	}

	t.state = Running
	t.taskID = taskID
	t.timespanID = id
	t.startedAt = startedAt

	return nil
}

// Stop closes the running interval. Stopping an idle timer does nothing,
// and neither does stopping one whose timespan was deleted with its task.
func (t *Timer) Stop() error {
	if t.state != Running {
		return nil
	}

	if err := t.store.StopTimespan(t.timespanID); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}

	t.reset()
	return nil
}

// Resume adopts the store's open timespan, left behind by an earlier
// process, so the next Start closes it instead of opening a second one.
// It does nothing if the timer is already running or nothing is open.
func (t *Timer) Resume() error {
	if t.state == Running {
		return nil
	}

	ts, err := t.store.OpenTimespan()
	if err != nil {
		return err
	}
	if ts == nil {
		return nil
	}

	t.state = Running
	t.taskID = ts.TaskID
	t.timespanID = ts.ID
	t.startedAt = ts.StartTime

	return nil
}

func (t *Timer) reset() {
	t.state = Idle
	t.taskID = 0
	t.timespanID = 0
	t.startedAt = time.Time{}
}

// State returns Idle or Running.
func (t *Timer) State() State { return t.state }

// Running reports whether an interval is open.
func (t *Timer) Running() bool { return t.state == Running }

// TaskID returns the task being timed, or 0 when idle.
func (t *Timer) TaskID() uint { return t.taskID }

// TimespanID returns the open timespan, or 0 when idle.
func (t *Timer) TimespanID() uint { return t.timespanID }

// StartedAt returns when the running interval began, or the zero time.
func (t *Timer) StartedAt() time.Time { return t.startedAt }

// Elapsed returns the time since the running interval started, zero when idle.
func (t *Timer) Elapsed() time.Duration {
	if t.state != Running {
		return 0
	}
	d := t.now().Sub(t.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders Elapsed as HH:MM:SS.
func (t *Timer) FormatElapsed() string {
	return FormatDuration(t.Elapsed())
}

// FormatDuration renders d as zero padded HH:MM:SS, truncated to whole
// seconds. Hours are not capped, so 100 hours render as "100:00:00".
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
