package models

import (
	"testing"
	"time"
)

func TestTimespanDuration(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	closed := Timespan{StartTime: start, EndTime: &end}
	if closed.IsOpen() {
		t.Error("expected closed timespan")
	}
	if closed.Duration() != 90*time.Minute {
		t.Errorf("expected 90m, got %s", closed.Duration())
	}
	if closed.Hours() != 1.5 {
		t.Errorf("expected 1.5h, got %f", closed.Hours())
	}

	open := Timespan{StartTime: start}
	if !open.IsOpen() {
		t.Error("expected open timespan")
	}
	if open.Duration() != 0 {
		t.Errorf("open timespan should have zero duration, got %s", open.Duration())
	}
}

func TestTaskParent(t *testing.T) {
	parent := uint(7)

	root := Task{ID: 1, Name: "Work"}
	child := Task{ID: 2, Name: "Client A", ParentID: &parent}

	if !root.IsRoot() {
		t.Error("expected root task")
	}
	if child.IsRoot() {
		t.Error("child should not be a root")
	}
	if !child.HasParent(7) {
		t.Error("expected parent 7")
	}
	if child.HasParent(1) || root.HasParent(7) {
		t.Error("unexpected parent match")
	}
}
