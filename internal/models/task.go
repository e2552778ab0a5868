package models

import "time"

// Task is a named node in the task forest. A nil ParentID marks a root.
type Task struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name     string `gorm:"not null" json:"name"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	// Relationships. The constraints live on the has-many side so that
	// removing a task removes its subtree and its timespans.
	Children  []Task     `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;" json:"-"`
	Timespans []Timespan `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE;" json:"-"`
}

// IsRoot reports whether the task has no parent.
func (t Task) IsRoot() bool {
	return t.ParentID == nil
}

// HasParent reports whether the task's parent is id.
func (t Task) HasParent(id uint) bool {
	return t.ParentID != nil && *t.ParentID == id
}
