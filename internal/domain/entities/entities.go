package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidDueDate = errors.New("invalid due date")
	ErrInvalidDueTime = errors.New("invalid due time")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrSlotClosed     = errors.New("storage slot is closed")
)

// DefaultSlotKey is the durable slot the task list is mirrored to.
const DefaultSlotKey = "interactive-todo-app-tasks"

// Day is one calendar-day-equivalent in epoch milliseconds.
const Day int64 = 24 * 60 * 60 * 1000

// Task represents a unit of work in the list
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt int64  `json:"createdAt" yaml:"createdAt"`
	DueDate   *int64 `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// HasDueDate reports whether the task carries a deadline
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// CreatedTime returns the creation timestamp as a time.Time
func (t Task) CreatedTime() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// DueTime returns the deadline as a time.Time, if any
func (t Task) DueTime() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.DueDate), true
}

// Clone returns a copy that shares no memory with t
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// UrgencyLevel classifies how close a task is to its deadline
type UrgencyLevel string

const (
	UrgencyOverdue  UrgencyLevel = "overdue"
	UrgencyDueToday UrgencyLevel = "due_today"
	UrgencyDueSoon  UrgencyLevel = "due_soon"
	UrgencyUpcoming UrgencyLevel = "upcoming"
)

// Urgency is the due-date classification of a single task.
// Days is the overdue magnitude for Overdue and the remaining days for DueSoon.
// DueAt is always set so callers can render the absolute deadline.
type Urgency struct {
	Level UrgencyLevel `json:"level" yaml:"level"`
	Color string       `json:"color" yaml:"color"`
	Days  int          `json:"days,omitempty" yaml:"days,omitempty"`
	DueAt time.Time    `json:"dueAt" yaml:"dueAt"`
}

// Color mirrors the colour coding the list uses for each level
func (l UrgencyLevel) Color() string {
	switch l {
	case UrgencyOverdue:
		return "red"
	case UrgencyDueToday:
		return "yellow"
	case UrgencyDueSoon:
		return "orange"
	default:
		return "gray"
	}
}

// IsValid validates the urgency level
func (l UrgencyLevel) IsValid() bool {
	switch l {
	case UrgencyOverdue, UrgencyDueToday, UrgencyDueSoon, UrgencyUpcoming:
		return true
	}
	return false
}

// Ms returns a pointer to the epoch-millisecond value of t.
func Ms(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}
