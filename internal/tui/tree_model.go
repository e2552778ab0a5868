package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/hourtree/internal/timer"
	"github.com/balkashynov/hourtree/internal/tree"
)

// Mode is what the tree browser's keys currently drive.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeAdd
	ModeConfirmDelete
	ModeConfirmQuit
)

// row is one listed node with its inclusive hours.
type row struct {
	tree.Node
	hours float64
}

// TreeModel is the interactive task browser. Every store operation runs
// synchronously inside Update.
type TreeModel struct {
	width  int
	height int

	timer *timer.Timer
	tasks *tree.Manager
	store HoursStore

	rows         []row
	selectedTask int

	mode      Mode
	input     textinput.Model
	addParent *uint // parent of the task being added, nil for a root
	pending   int   // tasks removed by the pending delete

	// Pagination
	currentPage  int
	tasksPerPage int

	status string
	err    error // fatal, ends the program
}

// NewTreeModel loads the current forest into a browser model.
func NewTreeModel(t *timer.Timer, tasks *tree.Manager, store HoursStore) TreeModel {
	input := textinput.New()
	input.Placeholder = "Task name"
	input.CharLimit = 200
	input.Prompt = "› "

	m := TreeModel{
		timer:        t,
		tasks:        tasks,
		store:        store,
		input:        input,
		tasksPerPage: 10,
	}
	m = m.reload()
	return m
}

// Init starts the once a second redraw of the running clock.
func (m TreeModel) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return timerTick()
}

// Update handles messages
func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return m, timerTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tasksPerPage = max(m.height-10, 3)
		m.currentPage = m.selectedTask / m.tasksPerPage
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch m.mode {
		case ModeAdd:
			m, cmd = m.handleAddKeys(msg)
		case ModeConfirmDelete:
			m, cmd = m.handleDeleteKeys(msg)
		case ModeConfirmQuit:
			m, cmd = m.handleQuitKeys(msg)
		default:
			m, cmd = m.handleBrowseKeys(msg)
		}
		if m.err != nil {
			return m, tea.Quit
		}
		return m, cmd
	}

	return m, nil
}

func (m TreeModel) handleBrowseKeys(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "esc":
		if m.timer.Running() {
			m.mode = ModeConfirmQuit
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		return m.moveSelection(-1), nil

	case "down", "j":
		return m.moveSelection(1), nil

	case "left", "h":
		return m.turnPage(-1), nil

	case "right", "l":
		return m.turnPage(1), nil

	case "enter":
		node, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.timer.Running() && m.timer.TaskID() == node.ID {
			m.status = "Already tracking this task"
			return m, nil
		}
		if err := m.timer.Start(node.ID); err != nil {
			m.status = errorStyle.Render(err.Error())
			return m.reload(), nil
		}
		m.status = successStyle.Render("Started " + m.tasks.Path(node.ID))
		return m.reload(), nil

	case "s":
		if !m.timer.Running() {
			m.status = "No active timer"
			return m, nil
		}
		elapsed := m.timer.FormatElapsed()
		if err := m.timer.Stop(); err != nil {
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		m.status = successStyle.Render("Stopped after " + elapsed)
		return m.reload(), nil

	case "a":
		node, ok := m.selected()
		if !ok {
			return m.startAdd(nil), textinput.Blink
		}
		id := node.ID
		return m.startAdd(&id), textinput.Blink

	case "A":
		return m.startAdd(nil), textinput.Blink

	case "d":
		node, ok := m.selected()
		if !ok {
			return m, nil
		}
		ids, err := m.store.DescendantIDs(node.ID)
		if err != nil {
			m.status = errorStyle.Render(err.Error())
			return m.reload(), nil
		}
		m.pending = len(ids)
		m.mode = ModeConfirmDelete
		return m, nil

	case "r":
		m = m.reload()
		m.status = "Refreshed"
		return m, nil
	}

	return m, nil
}

func (m TreeModel) startAdd(parent *uint) TreeModel {
	m.mode = ModeAdd
	m.addParent = parent
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m TreeModel) handleAddKeys(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		id, err := m.tasks.AddTask(m.input.Value(), m.addParent)
		if err != nil {
			// Keep the prompt open so the name can be fixed
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		m.mode = ModeBrowse
		m.input.Blur()
		m = m.reload()
		m = m.selectID(id)
		m.status = successStyle.Render(fmt.Sprintf("Added #%d %s", id, m.tasks.Path(id)))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TreeModel) handleDeleteKeys(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	m.mode = ModeBrowse
	if msg.String() != "y" && msg.String() != "Y" {
		m.status = "Delete cancelled"
		return m, nil
	}

	node, ok := m.selected()
	if !ok {
		return m, nil
	}
	if m.timer.Running() {
		ids, err := m.store.DescendantIDs(node.ID)
		if err == nil && containsID(ids, m.timer.TaskID()) {
			if err := m.timer.Stop(); err != nil {
				m.status = errorStyle.Render(err.Error())
				return m, nil
			}
		}
	}
	path := m.tasks.Path(node.ID)
	if err := m.tasks.DeleteTask(node.ID); err != nil {
		m.status = errorStyle.Render(err.Error())
		return m.reload(), nil
	}
	m = m.reload()
	m.status = successStyle.Render("Deleted " + path)
	return m, nil
}

func (m TreeModel) handleQuitKeys(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.timer.Stop(); err != nil {
			m.mode = ModeBrowse
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		return m, tea.Quit
	case "n", "N":
		return m, tea.Quit
	}
	m.mode = ModeBrowse
	return m, nil
}

// reload re-reads the tree and hours, keeping the selection on the same
// task when it still exists.
func (m TreeModel) reload() TreeModel {
	var keep uint
	if node, ok := m.selected(); ok {
		keep = node.ID
	}

	nodes, err := m.tasks.Tree()
	if err != nil {
		m.err = err
		return m
	}

	m.rows = make([]row, 0, len(nodes))
	for _, n := range nodes {
		hours, err := m.store.TotalHours(n.ID, true)
		if err != nil {
			m.err = err
			return m
		}
		m.rows = append(m.rows, row{Node: n, hours: hours})
	}

	if m.selectedTask >= len(m.rows) {
		m.selectedTask = max(len(m.rows)-1, 0)
	}
	return m.selectID(keep)
}

func (m TreeModel) selectID(id uint) TreeModel {
	for i, r := range m.rows {
		if r.ID == id {
			m.selectedTask = i
			break
		}
	}
	if m.tasksPerPage > 0 {
		m.currentPage = m.selectedTask / m.tasksPerPage
	}
	return m
}

func (m TreeModel) selected() (tree.Node, bool) {
	if m.selectedTask < 0 || m.selectedTask >= len(m.rows) {
		return tree.Node{}, false
	}
	return m.rows[m.selectedTask].Node, true
}

// moveSelection moves the cursor by delta rows, following it across pages.
func (m TreeModel) moveSelection(delta int) TreeModel {
	next := m.selectedTask + delta
	if next < 0 || next >= len(m.rows) {
		return m
	}
	m.selectedTask = next
	m.currentPage = next / m.tasksPerPage
	return m
}

// turnPage moves by delta pages and clamps the selection into the new page.
func (m TreeModel) turnPage(delta int) TreeModel {
	pages := m.pageCount()
	page := m.currentPage + delta
	if page < 0 || page >= pages {
		return m
	}
	m.currentPage = page

	first := page * m.tasksPerPage
	last := min(first+m.tasksPerPage, len(m.rows)) - 1
	m.selectedTask = min(max(m.selectedTask, first), last)
	return m
}

func (m TreeModel) pageCount() int {
	if len(m.rows) == 0 {
		return 1
	}
	return (len(m.rows) + m.tasksPerPage - 1) / m.tasksPerPage
}

// View renders the TUI
func (m TreeModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderDetails(rightWidth),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		content,
		"",
		m.renderPrompt(),
		m.renderFooter(),
	)
}

func (m TreeModel) renderTaskTable(width int) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("🌳 Tasks"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Italic(true).Render("No tasks yet. Press A to add one."))
		return panelStyle.Width(width - 2).Render(b.String())
	}

	idWidth := 6
	hoursWidth := 9
	nameWidth := max(width-idWidth-hoursWidth-8, 10)

	columns := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(columns.Render(fmt.Sprintf("%-*s %-*s %*s", idWidth, "ID", nameWidth, "TASK", hoursWidth, "HOURS")))
	b.WriteString("\n")

	first := m.currentPage * m.tasksPerPage
	last := min(first+m.tasksPerPage, len(m.rows))
	running := m.timer.Running()

	for i := first; i < last; i++ {
		r := m.rows[i]

		name := r.DisplayName
		if running && m.timer.TaskID() == r.ID {
			name += " ⏱"
		}
		hours := "-"
		if r.hours > 0 {
			hours = fmt.Sprintf("%.2f", r.hours)
		}

		line := fmt.Sprintf("%-*s %-*s %*s", idWidth, fmt.Sprintf("#%d", r.ID), nameWidth, truncate(name, nameWidth), hoursWidth, hours)
		switch {
		case i == m.selectedTask:
			line = selectedStyle.Render("▶ " + line)
		case running && m.timer.TaskID() == r.ID:
			line = "  " + warningStyle.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if pages := m.pageCount(); pages > 1 {
		b.WriteString("\n")
		b.WriteString(disabledStyle.Render(fmt.Sprintf("Page %d/%d", m.currentPage+1, pages)))
	}

	return panelStyle.Width(width - 2).Render(b.String())
}

func (m TreeModel) renderDetails(width int) string {
	var b strings.Builder

	if m.timer.Running() {
		b.WriteString(headerStyle.Render("⏱ Tracking"))
		b.WriteString("\n")
		b.WriteString(truncate(m.tasks.Path(m.timer.TaskID()), width-6))
		b.WriteString("\n\n")
		b.WriteString(renderBigClock(clockText(m.timer.FormatElapsed())))
		b.WriteString("\n\n")
	} else {
		b.WriteString(disabledStyle.Render("No active timer"))
		b.WriteString("\n\n")
	}

	node, ok := m.selected()
	if !ok {
		return panelStyle.Width(width - 2).Render(b.String())
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("#%d %s", node.ID, node.Name)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Join(strings.Split(m.tasks.Path(node.ID), tree.Separator), " › ")))
	b.WriteString("\n\n")

	own, err := m.store.TotalHours(node.ID, false)
	if err != nil {
		own = 0
	}
	b.WriteString(fmt.Sprintf("Total: %.2fh\n", m.rows[m.selectedTask].hours))
	b.WriteString(fmt.Sprintf("Own:   %.2fh\n", own))
	b.WriteString(fmt.Sprintf("Depth: %d\n", node.Depth))

	return panelStyle.Width(width - 2).Render(b.String())
}

func (m TreeModel) renderPrompt() string {
	switch m.mode {
	case ModeAdd:
		label := "New root task"
		if m.addParent != nil {
			label = "New subtask of " + m.tasks.Path(*m.addParent)
		}
		return headerStyle.Render(label) + "\n" + m.input.View()
	case ModeConfirmDelete:
		node, _ := m.selected()
		return warningStyle.Render(fmt.Sprintf("Delete %s and %d subtask(s) with all their time? (y/N)",
			m.tasks.Path(node.ID), m.pending-1))
	case ModeConfirmQuit:
		return warningStyle.Render("Timer is running. Stop it before quitting? (y = stop, n = keep running, esc = stay)")
	}
	return m.status
}

func (m TreeModel) renderFooter() string {
	switch m.mode {
	case ModeAdd:
		return helpBar(m.width, "enter save · esc cancel")
	case ModeConfirmDelete, ModeConfirmQuit:
		return ""
	}
	return helpBar(m.width, "↑↓ navigate · ←→ page · enter start · s stop · a add sub · A add root · d delete · r refresh · q quit")
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
