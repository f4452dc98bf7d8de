package services

import (
	"sort"
	"time"

	"github.com/taskmaster/todo/internal/domain/entities"
)

// TaskView is a task paired with its due-date classification
type TaskView struct {
	entities.Task `yaml:",inline"`

	Urgency *entities.Urgency `json:"urgency,omitempty" yaml:"urgency,omitempty"`
}

// Board is the derived display state of the whole list
type Board struct {
	Pending     []TaskView `json:"pending" yaml:"pending"`
	Completed   []TaskView `json:"completed" yaml:"completed"`
	Empty       bool       `json:"empty" yaml:"empty"`
	GeneratedAt time.Time  `json:"generatedAt" yaml:"generatedAt"`
}

// EmptyBoardMessage is shown when there are no tasks at all
const EmptyBoardMessage = "Nothing to do! Add a new task to get started."

// ListPresenter derives the pending and completed groups from a task list.
// It holds no state besides its clock; every Board call starts from scratch.
type ListPresenter struct {
	now func() time.Time
}

// NewListPresenter creates a presenter reading the current time from now
func NewListPresenter(now func() time.Time) *ListPresenter {
	if now == nil {
		now = time.Now
	}
	return &ListPresenter{now: now}
}

// Board builds both views and classifies every task against the current time
func (p *ListPresenter) Board(tasks []entities.Task) Board {
	now := p.now()
	nowMs := now.UnixMilli()

	return Board{
		Pending:     withUrgency(PendingView(tasks), nowMs),
		Completed:   withUrgency(CompletedView(tasks), nowMs),
		Empty:       len(tasks) == 0,
		GeneratedAt: now,
	}
}

func withUrgency(tasks []entities.Task, nowMs int64) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := TaskView{Task: t}
		if u, ok := ClassifyUrgency(t.DueDate, nowMs); ok {
			view.Urgency = &u
		}
		out = append(out, view)
	}
	return out
}

// PendingView returns the uncompleted tasks, earliest deadline first.
// Tasks without a deadline go last; equal keys keep their input order.
func PendingView(tasks []entities.Task) []entities.Task {
	out := filterTasks(tasks, false)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out
}

// CompletedView returns the completed tasks, most recently created first
func CompletedView(tasks []entities.Task) []entities.Task {
	out := filterTasks(tasks, true)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

func filterTasks(tasks []entities.Task, completed bool) []entities.Task {
	out := make([]entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ClassifyUrgency places a deadline relative to now (both epoch ms).
// Day counts are ceilings of the distance in days, so anything up to exactly
// 24h ahead is due today and 1ms past the deadline is one day overdue.
func ClassifyUrgency(dueDate *int64, now int64) (entities.Urgency, bool) {
	if dueDate == nil {
		return entities.Urgency{}, false
	}

	due := *dueDate
	u := entities.Urgency{DueAt: time.UnixMilli(due)}

	if due < now {
		u.Level = entities.UrgencyOverdue
		u.Color = u.Level.Color()
		u.Days = int(ceilDays(now - due))
		return u, true
	}

	days := ceilDays(due - now)
	switch {
	case days <= 1:
		u.Level = entities.UrgencyDueToday
	case days <= 3:
		u.Level = entities.UrgencyDueSoon
		u.Days = int(days)
	default:
		u.Level = entities.UrgencyUpcoming
	}
	u.Color = u.Level.Color()
	return u, true
}

// ceilDays rounds a non-negative millisecond distance up to whole days
func ceilDays(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + entities.Day - 1) / entities.Day
}
