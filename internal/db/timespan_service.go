package db

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/hourtree/internal/models"
)

// StartTimespan opens a new timespan for taskID starting now.
func (s *Store) StartTimespan(taskID uint) (uint, error) {
	ok, err := s.taskExists(s.db, taskID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, taskNotFound(taskID)
	}

	ts := models.Timespan{
		TaskID:    taskID,
		StartTime: s.now(),
	}

	if err := s.db.Create(&ts).Error; err != nil {
		return 0, writeErr("create timespan", err)
	}

	return ts.ID, nil
}

// StopTimespan closes the timespan at the current time. Stopping an already
// closed timespan leaves it unchanged.
func (s *Store) StopTimespan(id uint) error {
	ts, err := s.getTimespan(id)
	if err != nil {
		return err
	}
	if !ts.IsOpen() {
		return nil
	}

	end := s.now()
	if end.Before(ts.StartTime) {
		end = ts.StartTime
	}

	err = s.db.Model(&models.Timespan{}).
		Where("id = ? AND end_time IS NULL", id).
		Update("end_time", end).Error
	if err != nil {
		return writeErr("stop timespan", err)
	}

	return nil
}

// ReassignTimespan moves a timespan, open or closed, to another task.
func (s *Store) ReassignTimespan(id, newTaskID uint) error {
	if _, err := s.getTimespan(id); err != nil {
		return err
	}

	ok, err := s.taskExists(s.db, newTaskID)
	if err != nil {
		return err
	}
	if !ok {
		return taskNotFound(newTaskID)
	}

	err = s.db.Model(&models.Timespan{}).
		Where("id = ?", id).
		Update("task_id", newTaskID).Error
	if err != nil {
		return writeErr("reassign timespan", err)
	}

	return nil
}

// GetTimespan returns a timespan by id, or nil if there is none.
func (s *Store) GetTimespan(id uint) (*models.Timespan, error) {
	ts, err := s.getTimespan(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ts, nil
}

// OpenTimespan returns the running timespan, or nil if none is open.
// Should several be open, the most recently created one wins.
func (s *Store) OpenTimespan() (*models.Timespan, error) {
	var ts models.Timespan

	err := s.db.Where("end_time IS NULL").Order("id DESC").First(&ts).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil // No open timespan is not an error
		}
		return nil, fmt.Errorf("failed to look up open timespan: %w", err)
	}

	return &ts, nil
}

// ListTimespans returns every timespan with its task name, newest first.
func (s *Store) ListTimespans() ([]models.TimespanEntry, error) {
	entries, err := s.entries(s.db)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.After(b.StartTime)
		}
		return a.ID > b.ID
	})

	return entries, nil
}

// TimespansForTask returns the timespans owned directly by taskID, newest first.
func (s *Store) TimespansForTask(taskID uint) ([]models.Timespan, error) {
	ok, err := s.taskExists(s.db, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, taskNotFound(taskID)
	}

	var spans []models.Timespan
	if err := s.db.Where("task_id = ?", taskID).Find(&spans).Error; err != nil {
		return nil, fmt.Errorf("failed to list timespans: %w", err)
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if !spans[i].StartTime.Equal(spans[j].StartTime) {
			return spans[i].StartTime.After(spans[j].StartTime)
		}
		return spans[i].ID > spans[j].ID
	})

	return spans, nil
}

// TimespansInRange returns closed timespans that started within [from, to),
// oldest first.
func (s *Store) TimespansInRange(from, to time.Time) ([]models.TimespanEntry, error) {
	all, err := s.entries(s.db.Where("timespans.end_time IS NOT NULL"))
	if err != nil {
		return nil, err
	}

	var entries []models.TimespanEntry
	for _, e := range all {
		if !e.StartTime.Before(from) && e.StartTime.Before(to) {
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].StartTime.Equal(entries[j].StartTime) {
			return entries[i].StartTime.Before(entries[j].StartTime)
		}
		return entries[i].ID < entries[j].ID
	})

	return entries, nil
}

// TotalHours sums the closed timespans of taskID, and of all its
// descendants when includeDescendants is set. Open timespans count as zero.
func (s *Store) TotalHours(taskID uint, includeDescendants bool) (float64, error) {
	ids := []uint{taskID}
	if includeDescendants {
		var err error
		ids, err = s.descendantIDs(s.db, taskID)
		if err != nil {
			return 0, err
		}
	} else {
		ok, err := s.taskExists(s.db, taskID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, taskNotFound(taskID)
		}
	}

	var spans []models.Timespan
	err := s.db.Where("task_id IN ? AND end_time IS NOT NULL", ids).Find(&spans).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load timespans: %w", err)
	}

	// Sum whole durations first so the result does not depend on span order.
	var total time.Duration
	for _, ts := range spans {
		total += ts.Duration()
	}

	return total.Hours(), nil
}

// entries runs the timespan/task join on the given scope.
func (s *Store) entries(tx *gorm.DB) ([]models.TimespanEntry, error) {
	var entries []models.TimespanEntry

	err := tx.Table("timespans").
		Select("timespans.id, timespans.task_id, timespans.start_time, timespans.end_time, tasks.name AS task_name").
		Joins("JOIN tasks ON tasks.id = timespans.task_id").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list timespans: %w", err)
	}

	return entries, nil
}

func (s *Store) getTimespan(id uint) (*models.Timespan, error) {
	var ts models.Timespan

	err := s.db.First(&ts, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, timespanNotFound(id)
		}
		return nil, fmt.Errorf("failed to load timespan #%d: %w", id, err)
	}

	return &ts, nil
}
