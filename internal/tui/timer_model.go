package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/hourtree/internal/timer"
	"github.com/balkashynov/hourtree/internal/tree"
)

// TimerModel is the full screen view of the running timer. It never writes
// to the store; stopping happens after the program exits.
type TimerModel struct {
	width  int
	height int

	timer  *timer.Timer
	taskID uint
	path   string

	// Closed hours recorded before this session
	totalHours float64
	ownHours   float64

	clock string

	// Animation state
	timerAnimation int

	stopping bool // s pressed, stop and save on exit
	exiting  bool // esc/q pressed, leave the timer running
}

// timerTickMsg is sent every second to redraw the clock
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// NewTimerModel builds the timer screen for the task t is running on.
func NewTimerModel(t *timer.Timer, tasks *tree.Manager, store HoursStore) TimerModel {
	m := TimerModel{
		timer:  t,
		taskID: t.TaskID(),
		path:   tasks.Path(t.TaskID()),
		clock:  t.FormatElapsed(),
	}
	// Hours are decoration here; a failed read leaves them at zero.
	m.totalHours, _ = store.TotalHours(m.taskID, true)
	m.ownHours, _ = store.TotalHours(m.taskID, false)
	return m
}

// Init starts the clock and animation tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	done := m.stopping || m.exiting

	switch msg := msg.(type) {
	case timerTickMsg:
		m.clock = m.timer.FormatElapsed()
		if done {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if done {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.stopping = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	help := helpBar(m.width, "s stop & save · esc/q exit (keep running) · ctrl+c force quit")
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			help,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, help)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	components = append(components,
		center.Inherit(headerStyle).Render(fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)))

	idStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	components = append(components, center.Inherit(idStyle).Render(fmt.Sprintf("#%d", m.taskID)))

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true)
	components = append(components, center.Inherit(titleStyle).Render(truncate(m.path, width-4)))

	var clockLines []string
	for _, line := range strings.Split(renderBigClock(clockText(m.clock)), "\n") {
		clockLines = append(clockLines, center.Render(line))
	}
	components = append(components, strings.Join(clockLines, "\n"))

	startedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)
	components = append(components,
		center.Inherit(startedStyle).Render("Started at "+m.timer.StartedAt().Local().Format("15:04:05")))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m TimerModel) renderDetailsPanel(width, height int) string {
	inner := width - 8
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(inner)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(center.Inherit(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)).Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	b.WriteString(center.Inherit(sep).Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	crumbStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1)
	b.WriteString(crumbStyle.Render(strings.Join(strings.Split(m.path, tree.Separator), " › ")))
	b.WriteString("\n\n")

	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	lines := []string{
		fmt.Sprintf("📊 Recorded: %s", value.Render(fmt.Sprintf("%.2fh", m.totalHours))),
		fmt.Sprintf("📌 This task only: %s", value.Render(fmt.Sprintf("%.2fh", m.ownHours))),
		fmt.Sprintf("🕐 Timespan: %s", mutedStyle.Render(fmt.Sprintf("#%d", m.timer.TimespanID()))),
	}
	for _, line := range lines {
		b.WriteString(center.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

var logoLines = []string{
	"█ █ █▀█ █ █ █▀█ ▀█▀ █▀█ █▀▀ █▀▀",
	"█▀█ █ █ █ █ █▀▄  █  █▀▄ █▀▀ █▀▀",
	"▀ ▀ ▀▀▀ ▀▀▀ ▀ ▀  ▀  ▀ ▀ ▀▀▀ ▀▀▀",
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
