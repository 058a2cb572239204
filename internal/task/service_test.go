package task

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/vantrack/internal/model"
	"github.com/hitoshi/vantrack/internal/repository"
	"github.com/hitoshi/vantrack/internal/security"
)

type mockTaskRepo struct {
	createFn     func(ctx context.Context, task *model.ImportantTask) error
	findByIDFn   func(ctx context.Context, id string) (*model.ImportantTask, error)
	listActiveFn func(ctx context.Context) ([]*model.ImportantTask, error)
	updateFn     func(ctx context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error)
	completeFn   func(ctx context.Context, id string) (int64, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task *model.ImportantTask) error {
	return m.createFn(ctx, task)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*model.ImportantTask, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockTaskRepo) ListActive(ctx context.Context) ([]*model.ImportantTask, error) {
	return m.listActiveFn(ctx)
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error) {
	return m.updateFn(ctx, id, update)
}

func (m *mockTaskRepo) Complete(ctx context.Context, id string) (int64, error) {
	return m.completeFn(ctx, id)
}

var _ repository.TaskRepository = (*mockTaskRepo)(nil)

func newTestService(repo repository.TaskRepository) *Service {
	return NewService(repo, security.NewTextSanitizer())
}

func TestCreateTask(t *testing.T) {
	var created *model.ImportantTask
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, task *model.ImportantTask) error {
			created = task
			return nil
		},
	}

	input := &model.ImportantTask{
		Title:       "Fix awning bracket",
		VanNumber:   "LTRV 25105",
		Issue:       "bracket cracked",
		IsCompleted: true, // クライアント指定は無視される
	}

	task, err := newTestService(repo).CreateTask(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID == "" {
		t.Error("ID should be assigned")
	}
	if task.IsCompleted {
		t.Error("IsCompleted should be forced to false on create")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("timestamps should be assigned")
	}
	if created == nil {
		t.Fatal("repo.Create was not called")
	}
}

func TestCreateTask_SanitizesIssue(t *testing.T) {
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, _ *model.ImportantTask) error { return nil },
	}

	input := &model.ImportantTask{
		Title: "Water leak",
		Issue: "<script>alert(1)</script>leak near door",
	}

	task, err := newTestService(repo).CreateTask(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Issue != "leak near door" {
		t.Errorf("Issue = %q, want %q", task.Issue, "leak near door")
	}
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, _ *model.ImportantTask) error {
			t.Fatal("repo.Create should not be called")
			return nil
		},
	}

	_, err := newTestService(repo).CreateTask(context.Background(), &model.ImportantTask{Title: "  "})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeValidationFailed)
	}
}

func TestListActiveTasks(t *testing.T) {
	repo := &mockTaskRepo{
		listActiveFn: func(_ context.Context) ([]*model.ImportantTask, error) {
			return []*model.ImportantTask{{ID: "t1"}, {ID: "t2"}}, nil
		},
	}

	tasks, err := newTestService(repo).ListActiveTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("len(tasks) = %d, want 2", len(tasks))
	}
}

func TestUpdateTask(t *testing.T) {
	var gotUpdate *model.TaskUpdate
	repo := &mockTaskRepo{
		updateFn: func(_ context.Context, id string, update *model.TaskUpdate) (*model.ImportantTask, error) {
			gotUpdate = update
			return &model.ImportantTask{ID: id, Title: *update.Title}, nil
		},
	}

	title := "<b>Reseal roof</b>"
	task, err := newTestService(repo).UpdateTask(context.Background(), "t1", &model.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Reseal roof" {
		t.Errorf("Title = %q, want %q", task.Title, "Reseal roof")
	}
	if gotUpdate.Issue != nil {
		t.Error("unset fields should stay nil")
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	repo := &mockTaskRepo{
		updateFn: func(_ context.Context, _ string, _ *model.TaskUpdate) (*model.ImportantTask, error) {
			return nil, nil
		},
	}

	_, err := newTestService(repo).UpdateTask(context.Background(), "missing", &model.TaskUpdate{})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeTaskNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeTaskNotFound)
	}
}

func TestCompleteTask(t *testing.T) {
	var completedID string
	repo := &mockTaskRepo{
		completeFn: func(_ context.Context, id string) (int64, error) {
			completedID = id
			return 1, nil
		},
	}

	if err := newTestService(repo).CompleteTask(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completedID != "t1" {
		t.Errorf("completed id = %q, want %q", completedID, "t1")
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	repo := &mockTaskRepo{
		completeFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}

	err := newTestService(repo).CompleteTask(context.Background(), "missing")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeTaskNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeTaskNotFound)
	}
}
