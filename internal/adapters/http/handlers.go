package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Message string `json:"message"`
}

// BoardResponse wraps the presenter board with the empty-state hint
type BoardResponse struct {
	services.Board
	Message string `json:"message,omitempty"`
}

// TaskHandler handles task-related requests
type TaskHandler struct {
	store     ports.TaskStore
	presenter *services.ListPresenter
	logger    *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store ports.TaskStore, presenter *services.ListPresenter, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		store:     store,
		presenter: presenter,
		logger:    logger,
	}
}

// ListTasks returns the raw task list
// @Summary List tasks
// @Description Get every task in storage order, newest first
// @Tags tasks
// @Produce json
// @Success 200 {array} entities.Task
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.GetAll())
}

// GetBoard returns the pending and completed views with urgency
// @Summary Task board
// @Description Pending tasks by deadline and completed tasks by creation time
// @Tags tasks
// @Produce json
// @Success 200 {object} BoardResponse
// @Router /tasks/board [get]
func (h *TaskHandler) GetBoard(c echo.Context) error {
	resp := BoardResponse{Board: h.presenter.Board(h.store.GetAll())}
	if resp.Empty {
		resp.Message = services.EmptyBoardMessage
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateTask adds a task
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.AddTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, ok := h.store.Add(c.Request().Context(), req.Text, req.DueDate)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Task text must not be empty")
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask edits text and due date of a task
// @Summary Update a task
// @Description Replace text and due date; an absent dueDate clears the deadline
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Task data"
// @Success 200 {object} entities.Task
// @Success 204 "Unknown task, nothing changed"
// @Failure 400 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	// the store accepts blank edits, so this form rejects them itself
	req.Text = strings.TrimSpace(req.Text)
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, ok := h.store.Update(c.Request().Context(), c.Param("id"), req.Text, req.DueDate)
	return h.taskOrNoContent(c, task, ok)
}

// ToggleTask flips the completion flag
// @Summary Toggle completion
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Success 204 "Unknown task, nothing changed"
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	task, ok := h.store.Toggle(c.Request().Context(), c.Param("id"))
	return h.taskOrNoContent(c, task, ok)
}

// DeleteTask removes a task. Confirmation is the client's job.
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if !h.store.Delete(c.Request().Context(), c.Param("id")) {
		h.logger.Debugw("Delete for unknown task ignored", "task_id", c.Param("id"))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHandler) taskOrNoContent(c echo.Context, task entities.Task, ok bool) error {
	if !ok {
		h.logger.Debugw("Mutation for unknown task ignored", "task_id", c.Param("id"), "path", c.Path())
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, task)
}
