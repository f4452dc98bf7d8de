package ports

import (
	"context"

	"github.com/taskmaster/todo/internal/domain/entities"
)

// TaskStore interface for the task list operations collaborators call into.
// Unknown ids and blank text on Add are reported through the bool result, never as errors.
type TaskStore interface {
	Load(ctx context.Context)
	GetAll() []entities.Task
	Add(ctx context.Context, text string, dueDate *int64) (entities.Task, bool)
	Toggle(ctx context.Context, id string) (entities.Task, bool)
	Delete(ctx context.Context, id string) bool
	Update(ctx context.Context, id, text string, dueDate *int64) (entities.Task, bool)
}

// AddTaskRequest represents a request to create a task
type AddTaskRequest struct {
	Text    string `json:"text" validate:"required"`
	DueDate *int64 `json:"dueDate,omitempty"`
}

// UpdateTaskRequest represents a request to edit a task
type UpdateTaskRequest struct {
	Text    string `json:"text" validate:"required"`
	DueDate *int64 `json:"dueDate,omitempty"`
}

// SyncStatusResponse reports the state of the cosmetic sync control
type SyncStatusResponse struct {
	State   string `json:"state"`
	Started bool   `json:"started"`
}
