package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todo/internal/adapters/repository"
	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	if err := tv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type fixture struct {
	e     *echo.Echo
	store *services.TaskStore
	h     *TaskHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := services.NewTaskStore(repository.NewMemorySlot(), "", nil, logger.NewNop())
	store.Load(context.Background())

	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}

	now := time.UnixMilli(100 * entities.Day)
	return &fixture{
		e:     e,
		store: store,
		h:     NewTaskHandler(store, services.NewListPresenter(func() time.Time { return now }), logger.NewNop()),
	}
}

func (f *fixture) call(method, path, body string, names, values []string, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return rec, handler(c)
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)

	rec, err := f.call(http.MethodPost, "/api/v1/tasks", `{"text":"  buy milk  ","dueDate":5000}`, nil, nil, f.h.CreateTask)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var task entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "buy milk", task.Text)
	assert.False(t, task.Completed)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, int64(5000), *task.DueDate)
	assert.Len(t, f.store.GetAll(), 1)
}

func TestCreateTask_BlankTextRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.call(http.MethodPost, "/api/v1/tasks", `{"text":"   "}`, nil, nil, f.h.CreateTask)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Empty(t, f.store.GetAll())
}

func TestCreateTask_MalformedBody(t *testing.T) {
	f := newFixture(t)

	_, err := f.call(http.MethodPost, "/api/v1/tasks", `{"text":`, nil, nil, f.h.CreateTask)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestToggleTask(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.Add(context.Background(), "walk", nil)

	rec, err := f.call(http.MethodPost, "/", "", []string{"id"}, []string{task.ID}, f.h.ToggleTask)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.store.GetAll()[0].Completed)
}

func TestUnknownID_IsNoContent(t *testing.T) {
	f := newFixture(t)
	f.store.Add(context.Background(), "keep", nil)
	before := f.store.GetAll()

	for name, handler := range map[string]echo.HandlerFunc{
		"toggle": f.h.ToggleTask,
		"delete": f.h.DeleteTask,
		"update": f.h.UpdateTask,
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := f.call(http.MethodPost, "/", `{"text":"x"}`, []string{"id"}, []string{"missing"}, handler)
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}

	assert.Equal(t, before, f.store.GetAll())
}

func TestUpdateTask_ClearsDueDate(t *testing.T) {
	f := newFixture(t)
	due := int64(42)
	task, _ := f.store.Add(context.Background(), "draft", &due)

	rec, err := f.call(http.MethodPut, "/", `{"text":"final"}`, []string{"id"}, []string{task.ID}, f.h.UpdateTask)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	got := f.store.GetAll()[0]
	assert.Equal(t, "final", got.Text)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	task, _ := f.store.Add(context.Background(), "gone", nil)

	rec, err := f.call(http.MethodDelete, "/", "", []string{"id"}, []string{task.ID}, f.h.DeleteTask)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.store.GetAll())
}

func TestGetBoard(t *testing.T) {
	f := newFixture(t)

	rec, err := f.call(http.MethodGet, "/", "", nil, nil, f.h.GetBoard)
	require.NoError(t, err)

	var empty BoardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.True(t, empty.Empty)
	assert.Equal(t, services.EmptyBoardMessage, empty.Message)

	overdue := int64(100*entities.Day - 1)
	f.store.Add(context.Background(), "late", &overdue)
	done, _ := f.store.Add(context.Background(), "done", nil)
	f.store.Toggle(context.Background(), done.ID)

	rec, err = f.call(http.MethodGet, "/", "", nil, nil, f.h.GetBoard)
	require.NoError(t, err)

	var board BoardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.False(t, board.Empty)
	assert.Empty(t, board.Message)
	require.Len(t, board.Pending, 1)
	require.NotNil(t, board.Pending[0].Urgency)
	assert.Equal(t, entities.UrgencyOverdue, board.Pending[0].Urgency.Level)
	assert.Equal(t, 1, board.Pending[0].Urgency.Days)
	require.Len(t, board.Completed, 1)
	assert.Equal(t, "done", board.Completed[0].Text)
}

func TestSyncHandler(t *testing.T) {
	svc := services.NewSyncService(time.Hour, time.Hour, nil)
	defer svc.Stop()
	h := NewSyncHandler(svc, logger.NewNop())
	e := echo.New()

	start := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		require.NoError(t, h.StartSync(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)))
		return rec
	}

	assert.Equal(t, http.StatusAccepted, start().Code)
	rec := start()
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"syncing"`)

	rec = httptest.NewRecorder()
	require.NoError(t, h.GetSyncStatus(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Contains(t, rec.Body.String(), `"state":"syncing"`)
}
