package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/infrastructure/metrics"
	"github.com/taskmaster/todo/internal/ports"
)

// TaskStore owns the canonical task list and mirrors it to a durable slot.
// Every mutation runs to completion under mu, persistence included.
type TaskStore struct {
	mu      sync.Mutex
	tasks   []entities.Task
	loaded  bool
	slot    ports.Slot
	key     string
	metrics *metrics.StoreMetrics
	logger  *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewTaskStore creates a task store backed by slot under key
func NewTaskStore(slot ports.Slot, key string, m *metrics.StoreMetrics, log *logger.Logger) *TaskStore {
	if key == "" {
		key = entities.DefaultSlotKey
	}
	if m == nil {
		m = metrics.NewStoreMetrics(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &TaskStore{
		tasks:   []entities.Task{},
		slot:    slot,
		key:     key,
		metrics: m,
		logger:  log.WithComponent("task_store"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Load reads the durable slot into memory. Only the first call has any effect.
// A missing, empty or malformed slot leaves the store with an empty list.
func (s *TaskStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		s.logger.Debugw("Task list already loaded", "slot_key", s.key)
		return
	}
	s.loaded = true
	s.tasks = []entities.Task{}

	raw, found, err := s.slot.Read(ctx, s.key)
	if err != nil {
		s.metrics.LoadFailures.WithLabelValues("read").Inc()
		s.logger.LogStorageFailure("read", s.key, err)
		s.updateGauges()
		return
	}
	if !found || len(bytes.TrimSpace(raw)) == 0 {
		s.logger.Infow("No stored tasks, starting empty", "slot_key", s.key)
		s.updateGauges()
		return
	}

	var stored []entities.Task
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.metrics.LoadFailures.WithLabelValues("malformed").Inc()
		s.logger.Warnw("Stored task list is malformed, starting empty",
			"slot_key", s.key,
			"error", err.Error(),
		)
		s.updateGauges()
		return
	}

	seen := make(map[string]struct{}, len(stored))
	for i, t := range stored {
		if t.ID == "" {
			s.logger.Warnw("Dropping stored task without an id", "index", i)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			s.logger.Warnw("Dropping duplicate task id from stored list", "task_id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		s.tasks = append(s.tasks, t)
	}

	s.logger.Infow("Loaded tasks", "slot_key", s.key, "count", len(s.tasks))
	s.updateGauges()
}

// GetAll returns a snapshot of the task list in raw storage order
func (s *TaskStore) GetAll() []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Add prepends a new pending task. Blank text is ignored and reported as ok=false.
func (s *TaskStore) Add(ctx context.Context, text string, dueDate *int64) (entities.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		s.metrics.Noops.WithLabelValues("add").Inc()
		s.logger.Debugw("Ignoring task with blank text")
		return entities.Task{}, false
	}

	task := entities.Task{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now().UnixMilli(),
		DueDate:   copyDue(dueDate),
	}

	s.tasks = append([]entities.Task{task}, s.tasks...)
	s.logger.LogTaskAction("add", task.ID, map[string]interface{}{"has_due_date": task.HasDueDate()})
	s.mutated(ctx, "add")

	return task.Clone(), true
}

// Toggle flips the completion flag of the task with the given id
func (s *TaskStore) Toggle(ctx context.Context, id string) (entities.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.notFound("toggle", id)
		return entities.Task{}, false
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.LogTaskAction("toggle", id, map[string]interface{}{"completed": s.tasks[i].Completed})
	s.mutated(ctx, "toggle")

	return s.tasks[i].Clone(), true
}

// Delete removes the task with the given id
func (s *TaskStore) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.notFound("delete", id)
		return false
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.LogTaskAction("delete", id, nil)
	s.mutated(ctx, "delete")

	return true
}

// Update replaces text and due date of the task with the given id.
// Unlike Add it accepts blank text; callers validate edits themselves.
func (s *TaskStore) Update(ctx context.Context, id, text string, dueDate *int64) (entities.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.notFound("update", id)
		return entities.Task{}, false
	}

	s.tasks[i].Text = text
	s.tasks[i].DueDate = copyDue(dueDate)
	s.logger.LogTaskAction("update", id, map[string]interface{}{"has_due_date": dueDate != nil})
	s.mutated(ctx, "update")

	return s.tasks[i].Clone(), true
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) notFound(op, id string) {
	s.metrics.Noops.WithLabelValues(op).Inc()
	s.logger.Debugw("Ignoring mutation for unknown task", "operation", op, "task_id", id)
}

func (s *TaskStore) mutated(ctx context.Context, op string) {
	s.metrics.Mutations.WithLabelValues(op).Inc()
	s.persist(ctx)
	s.updateGauges()
}

// persist overwrites the slot with the whole list. Failures are logged only;
// the in-memory list stays authoritative for the running session.
func (s *TaskStore) persist(ctx context.Context) {
	payload, err := json.Marshal(s.tasks)
	if err != nil {
		s.metrics.PersistFailures.Inc()
		s.logger.LogStorageFailure("encode", s.key, err)
		return
	}

	if err := s.slot.Write(ctx, s.key, payload); err != nil {
		s.metrics.PersistFailures.Inc()
		s.logger.LogStorageFailure("write", s.key, err)
	}
}

func (s *TaskStore) updateGauges() {
	completed := 0
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		}
	}
	s.metrics.SetTaskCounts(len(s.tasks)-completed, completed)
}

func copyDue(due *int64) *int64 {
	if due == nil {
		return nil
	}
	v := *due
	return &v
}
