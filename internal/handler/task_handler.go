package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vantrack/internal/model"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, task *model.ImportantTask) (*model.ImportantTask, error)
	ListActiveTasks(ctx context.Context) ([]*model.ImportantTask, error)
	UpdateTask(ctx context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error)
	CompleteTask(ctx context.Context, id string) error
}

// TaskHandler はタスクトラッカーのHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// ListTasks は未完了タスクを期日の昇順で返す。
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListActiveTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if tasks == nil {
		tasks = []*model.ImportantTask{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// CreateTask はタスクを作成する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task model.ImportantTask
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreateTask(r.Context(), &task)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateTask はタスクを部分更新する。リクエストボディにないフィールドは変更しない。
// PATCH /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update model.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), id, &update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask はタスクを完了済みにする（ソフトデリート）。
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.CompleteTask(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
