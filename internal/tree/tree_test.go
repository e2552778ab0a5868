package tree

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/hourtree/internal/db"
	"github.com/balkashynov/hourtree/internal/models"
)

func newTestManager(t *testing.T) (*Manager, *db.Store) {
	t.Helper()

	store, err := db.Open(filepath.Join(t.TempDir(), "tree.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(store), store
}

func mustAdd(t *testing.T, m *Manager, name string, parent *uint) uint {
	t.Helper()
	id, err := m.AddTask(name, parent)
	if err != nil {
		t.Fatalf("AddTask(%q): %v", name, err)
	}
	return id
}

func TestTreeScenario(t *testing.T) {
	m, _ := newTestManager(t)

	work := mustAdd(t, m, "Work", nil)
	client := mustAdd(t, m, "Client A", &work)
	mustAdd(t, m, "Feature X", &client)

	nodes, err := m.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	want := []struct {
		name    string
		display string
		depth   int
	}{
		{"Work", "Work", 0},
		{"Client A", "  Client A", 1},
		{"Feature X", "    Feature X", 2},
	}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, w := range want {
		n := nodes[i]
		if n.Name != w.name || n.DisplayName != w.display || n.Depth != w.depth {
			t.Errorf("node %d: expected (%q, %q, %d), got (%q, %q, %d)",
				i, w.name, w.display, w.depth, n.Name, n.DisplayName, n.Depth)
		}
	}
}

func TestTreePreOrderAcrossRoots(t *testing.T) {
	m, _ := newTestManager(t)

	a := mustAdd(t, m, "A", nil)
	b := mustAdd(t, m, "B", nil)
	a1 := mustAdd(t, m, "A1", &a)
	b1 := mustAdd(t, m, "B1", &b)
	a2 := mustAdd(t, m, "A2", &a)
	a11 := mustAdd(t, m, "A11", &a1)

	nodes, err := m.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	want := []uint{a, a1, a11, a2, b, b1}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, id := range want {
		if nodes[i].ID != id {
			t.Errorf("position %d: expected #%d, got #%d (%s)", i, id, nodes[i].ID, nodes[i].Name)
		}
	}

	again, _ := m.Tree()
	for i := range nodes {
		if again[i].ID != nodes[i].ID || again[i].DisplayName != nodes[i].DisplayName || again[i].Depth != nodes[i].Depth {
			t.Fatalf("Tree is not stable between calls")
		}
	}
}

func TestTreeDepthMatchesParentHops(t *testing.T) {
	m, store := newTestManager(t)

	root := mustAdd(t, m, "root", nil)
	ids := []uint{root}
	for i := 0; i < 20; i++ {
		parent := ids[(i*7)%len(ids)]
		ids = append(ids, mustAdd(t, m, "n", &parent))
	}
	mustAdd(t, m, "other root", nil)

	nodes, err := m.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	tasks, _ := store.ListTasks()
	if len(nodes) != len(tasks) {
		t.Fatalf("tree has %d entries, store has %d tasks", len(nodes), len(tasks))
	}

	byID := make(map[uint]models.Task)
	for _, task := range tasks {
		byID[task.ID] = task
	}
	for _, n := range nodes {
		hops := 0
		for p := byID[n.ID].ParentID; p != nil; p = byID[*p].ParentID {
			hops++
		}
		if n.Depth != hops {
			t.Errorf("node #%d: depth %d, parent hops %d", n.ID, n.Depth, hops)
		}
		if n.DisplayName != strings.Repeat(Indent, hops)+n.Name {
			t.Errorf("node #%d: unexpected display name %q", n.ID, n.DisplayName)
		}
	}
}

func TestTreeDeepChain(t *testing.T) {
	m, _ := newTestManager(t)

	const depth = 200
	parent := mustAdd(t, m, "0", nil)
	for i := 1; i < depth; i++ {
		parent = mustAdd(t, m, "x", &parent)
	}

	nodes, err := m.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(nodes) != depth {
		t.Fatalf("expected %d nodes, got %d", depth, len(nodes))
	}
	if nodes[depth-1].Depth != depth-1 {
		t.Errorf("expected deepest depth %d, got %d", depth-1, nodes[depth-1].Depth)
	}
}

func TestPath(t *testing.T) {
	m, _ := newTestManager(t)

	work := mustAdd(t, m, "Work", nil)
	client := mustAdd(t, m, "Client A", &work)
	feature := mustAdd(t, m, "Feature X", &client)

	tests := []struct {
		id   uint
		want string
	}{
		{work, "Work"},
		{client, "Work/Client A"},
		{feature, "Work/Client A/Feature X"},
		{feature + 100, ""},
	}

	for _, tt := range tests {
		if got := m.Path(tt.id); got != tt.want {
			t.Errorf("Path(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestChildren(t *testing.T) {
	m, _ := newTestManager(t)

	a := mustAdd(t, m, "A", nil)
	b := mustAdd(t, m, "B", nil)
	a1 := mustAdd(t, m, "A1", &a)
	mustAdd(t, m, "A1a", &a1)
	a2 := mustAdd(t, m, "A2", &a)

	roots, err := m.Children(nil)
	if err != nil {
		t.Fatalf("Children(nil): %v", err)
	}
	if len(roots) != 2 || roots[0].ID != a || roots[1].ID != b {
		t.Errorf("expected roots [A B], got %+v", roots)
	}

	kids, err := m.Children(&a)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(kids) != 2 || kids[0].ID != a1 || kids[1].ID != a2 {
		t.Errorf("expected [A1 A2], got %+v", kids)
	}

	none, _ := m.Children(&b)
	if len(none) != 0 {
		t.Errorf("expected no children for B, got %d", len(none))
	}
}

func TestAddPath(t *testing.T) {
	m, _ := newTestManager(t)

	leaf, err := m.AddPath("Work/Client A/Feature X")
	if err != nil {
		t.Fatalf("AddPath: %v", err)
	}
	if got := m.Path(leaf); got != "Work/Client A/Feature X" {
		t.Errorf("unexpected path %q", got)
	}

	// Reuses Work and Client A, adds one task.
	other, err := m.AddPath("Work/Client A/Feature Y")
	if err != nil {
		t.Fatalf("AddPath: %v", err)
	}
	nodes, _ := m.Tree()
	if len(nodes) != 4 {
		t.Errorf("expected 4 tasks, got %d", len(nodes))
	}
	if m.Path(other) != "Work/Client A/Feature Y" {
		t.Errorf("unexpected path %q", m.Path(other))
	}

	// Existing path returns the existing leaf.
	again, err := m.AddPath("Work/Client A/Feature X")
	if err != nil {
		t.Fatalf("AddPath: %v", err)
	}
	if again != leaf {
		t.Errorf("expected existing leaf #%d, got #%d", leaf, again)
	}

	if _, err := m.AddPath("Work//X"); err == nil {
		t.Error("expected error for empty segment")
	}
}

func TestDeleteTaskThroughManager(t *testing.T) {
	m, _ := newTestManager(t)

	work := mustAdd(t, m, "Work", nil)
	client := mustAdd(t, m, "Client", &work)
	mustAdd(t, m, "Feature", &client)
	home := mustAdd(t, m, "Home", nil)

	if err := m.DeleteTask(work); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	nodes, _ := m.Tree()
	if len(nodes) != 1 || nodes[0].ID != home {
		t.Errorf("expected only Home left, got %+v", nodes)
	}
	if err := m.DeleteTask(work); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	clock := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	store, err := db.Open(filepath.Join(t.TempDir(), "summary.db"), db.WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	m := New(store)

	work := mustAdd(t, m, "Work", nil)
	client := mustAdd(t, m, "Client A", &work)
	feature := mustAdd(t, m, "Feature X", &client)

	ts, _ := store.StartTimespan(feature)
	clock = clock.Add(2 * time.Hour)
	if err := store.StopTimespan(ts); err != nil {
		t.Fatalf("StopTimespan: %v", err)
	}

	rows, err := m.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Hours != 2 {
			t.Errorf("%s: expected 2 inclusive hours, got %f", r.Name, r.Hours)
		}
	}
	if rows[0].OwnHours != 0 || rows[2].OwnHours != 2 {
		t.Errorf("unexpected own hours: Work=%f Feature=%f", rows[0].OwnHours, rows[2].OwnHours)
	}
}

// brokenStore serves a fixed task set and can fail lookups.
type brokenStore struct {
	tasks map[uint]models.Task
	fail  uint
}

func (s *brokenStore) AddTask(string, *uint) (uint, error) { return 0, errors.New("read only") }
func (s *brokenStore) DeleteTask(uint) error { return errors.New("read only") }
func (s *brokenStore) ListTasks() ([]models.Task, error) { return nil, nil }
func (s *brokenStore) TotalHours(uint, bool) (float64, error) {
	return 0, nil
}

func (s *brokenStore) GetTask(id uint) (*models.Task, error) {
	if id == s.fail {
		return nil, errors.New("disk on fire")
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func TestPathTruncatesOnBrokenChain(t *testing.T) {
	gone := uint(1)
	mid := uint(2)
	bad := uint(10)
	store := &brokenStore{
		tasks: map[uint]models.Task{
			2: {ID: 2, Name: "orphan", ParentID: &gone},
			3: {ID: 3, Name: "leaf", ParentID: &mid},
			4: {ID: 4, Name: "unlucky", ParentID: &bad},
		},
		fail: bad,
	}
	m := New(store)

	if got := m.Path(3); got != "orphan/leaf" {
		t.Errorf("expected truncated path orphan/leaf, got %q", got)
	}
	if got := m.Path(4); got != "unlucky" {
		t.Errorf("expected truncated path on store error, got %q", got)
	}
}

func TestPathStopsOnCycle(t *testing.T) {
	one, two := uint(1), uint(2)
	store := &brokenStore{
		tasks: map[uint]models.Task{
			1: {ID: 1, Name: "a", ParentID: &two},
			2: {ID: 2, Name: "b", ParentID: &one},
		},
	}

	if got := New(store).Path(1); got != "b/a" {
		t.Errorf("expected b/a, got %q", got)
	}
}
