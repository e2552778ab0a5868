// Package tree presents the flat task table as a forest: pre-order
// listings, task paths and per-node hour summaries.
package tree

import (
	"fmt"
	"strings"

	"github.com/balkashynov/hourtree/internal/models"
	"github.com/balkashynov/hourtree/internal/parser"
)

const (
	// Indent is prefixed once per depth level to a node's display name.
	Indent = "  "

	// Separator joins task names in a path.
	Separator = "/"
)

// TaskStore is the subset of the persistent store the manager needs.
type TaskStore interface {
	AddTask(name string, parentID *uint) (uint, error)
	GetTask(id uint) (*models.Task, error)
	ListTasks() ([]models.Task, error)
	DeleteTask(id uint) error
	TotalHours(taskID uint, includeDescendants bool) (float64, error)
}

// Node is one entry of the pre-order tree listing.
type Node struct {
	ID          uint
	ParentID    *uint
	Name        string
	DisplayName string
	Depth       int
}

// Manager builds tree views over a TaskStore. It holds no state of its own,
// so every call reflects the store as it is now.
type Manager struct {
	store TaskStore
}

// New returns a Manager backed by store.
func New(store TaskStore) *Manager {
	return &Manager{store: store}
}

// AddTask creates a task under parentID (nil for a root).
func (m *Manager) AddTask(name string, parentID *uint) (uint, error) {
	return m.store.AddTask(name, parentID)
}

// DeleteTask removes a task with its subtree and timespans.
func (m *Manager) DeleteTask(id uint) error {
	return m.store.DeleteTask(id)
}

// AddPath resolves a slash separated path such as "Work/Client A/Feature X",
// creating every missing segment, and returns the id of the last one.
// Existing segments are matched by name among the children of the previous
// segment; the first match in store order wins.
func (m *Manager) AddPath(path string) (uint, error) {
	names, err := parser.SplitPath(path)
	if err != nil {
		return 0, err
	}

	tasks, err := m.store.ListTasks()
	if err != nil {
		return 0, err
	}

	var parent *uint
	for i, name := range names {
		existing, ok := findChild(tasks, parent, name)
		if ok {
			id := existing
			parent = &id
			continue
		}

		// Nothing below this point exists yet.
		for _, rest := range names[i:] {
			id, err := m.store.AddTask(rest, parent)
			if err != nil {
				return 0, fmt.Errorf("failed to create %q: %w", rest, err)
			}
			parent = &id
		}
		break
	}

	return *parent, nil
}

func findChild(tasks []models.Task, parent *uint, name string) (uint, bool) {
	for _, t := range tasks {
		if sameParent(t.ParentID, parent) && t.Name == name {
			return t.ID, true
		}
	}
	return 0, false
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Path returns the names from the root down to id joined by Separator.
// A broken parent chain, an unknown id or a store error truncate the path
// instead of failing.
func (m *Manager) Path(id uint) string {
	var parts []string
	seen := make(map[uint]bool)

	current := &id
	for current != nil && !seen[*current] {
		seen[*current] = true

		task, err := m.store.GetTask(*current)
		if err != nil || task == nil {
			break
		}
		parts = append(parts, task.Name)
		current = task.ParentID
	}

	// Collected leaf first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, Separator)
}

// Tree returns every task in pre-order: each root in store order followed
// by its descendants, children also in store order.
func (m *Manager) Tree() ([]Node, error) {
	tasks, err := m.store.ListTasks()
	if err != nil {
		return nil, err
	}

	children := make(map[uint][]models.Task)
	var roots []models.Task
	for _, t := range tasks {
		if t.IsRoot() {
			roots = append(roots, t)
			continue
		}
		children[*t.ParentID] = append(children[*t.ParentID], t)
	}

	type frame struct {
		task  models.Task
		depth int
	}

	nodes := make([]Node, 0, len(tasks))
	visited := make(map[uint]bool, len(tasks))

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{task: roots[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.task.ID] {
			continue
		}
		visited[f.task.ID] = true

		nodes = append(nodes, Node{
			ID:          f.task.ID,
			ParentID:    f.task.ParentID,
			Name:        f.task.Name,
			DisplayName: strings.Repeat(Indent, f.depth) + f.task.Name,
			Depth:       f.depth,
		})

		kids := children[f.task.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{task: kids[i], depth: f.depth + 1})
		}
	}

	return nodes, nil
}

// Children returns the direct children of parentID, or the roots when
// parentID is nil, in store order.
func (m *Manager) Children(parentID *uint) ([]models.Task, error) {
	tasks, err := m.store.ListTasks()
	if err != nil {
		return nil, err
	}

	var out []models.Task
	for _, t := range tasks {
		if sameParent(t.ParentID, parentID) {
			out = append(out, t)
		}
	}
	return out, nil
}
