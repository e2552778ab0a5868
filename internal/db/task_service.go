package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/hourtree/internal/models"
)

// AddTask creates a task under parentID (nil for a root) and returns its id.
func (s *Store) AddTask(name string, parentID *uint) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: task name must not be empty", ErrValidation)
	}

	var parent *uint
	if parentID != nil {
		ok, err := s.taskExists(s.db, *parentID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("parent %w", taskNotFound(*parentID))
		}
		p := *parentID
		parent = &p
	}

	task := models.Task{
		Name:     name,
		ParentID: parent,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return 0, writeErr("create task", err)
	}

	return task.ID, nil
}

// GetTask returns the task with the given id, or nil if there is none.
func (s *Store) GetTask(id uint) (*models.Task, error) {
	var task models.Task

	err := s.db.First(&task, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil // Absent is not an error
		}
		return nil, fmt.Errorf("failed to load task #%d: %w", id, err)
	}

	return &task, nil
}

// ListTasks returns every task ordered by id.
func (s *Store) ListTasks() ([]models.Task, error) {
	var tasks []models.Task

	if err := s.db.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// DeleteTask removes a task, its whole subtree and every timespan owned by
// a removed task, in one transaction.
func (s *Store) DeleteTask(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		ids, err := s.descendantIDs(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where("task_id IN ?", ids).Delete(&models.Timespan{}).Error; err != nil {
			return writeErr("delete timespans", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Task{}).Error; err != nil {
			return writeErr("delete tasks", err)
		}

		return nil
	})
}

// DescendantIDs returns id followed by the ids of all its descendants in
// pre-order.
func (s *Store) DescendantIDs(id uint) ([]uint, error) {
	return s.descendantIDs(s.db, id)
}

// taskLink is the (id, parent_id) projection used for tree walks.
type taskLink struct {
	ID       uint
	ParentID *uint
}

// descendantIDs expands the parent -> children adjacency from id with an
// explicit stack, so arbitrarily deep trees do not grow the call stack.
func (s *Store) descendantIDs(tx *gorm.DB, id uint) ([]uint, error) {
	var links []taskLink
	if err := tx.Model(&models.Task{}).Select("id, parent_id").Order("id ASC").Scan(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to load task links: %w", err)
	}

	found := false
	children := make(map[uint][]uint)
	for _, l := range links {
		if l.ID == id {
			found = true
		}
		if l.ParentID != nil {
			children[*l.ParentID] = append(children[*l.ParentID], l.ID)
		}
	}
	if !found {
		return nil, taskNotFound(id)
	}

	var ids []uint
	visited := make(map[uint]bool)
	stack := []uint{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		ids = append(ids, n)

		// Push in reverse so children pop in id order.
		kids := children[n]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}

	return ids, nil
}

func (s *Store) taskExists(tx *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.Task{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up task #%d: %w", id, err)
	}
	return n > 0, nil
}
