package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vibast-solutions/ms-go-tasks/app/controller"
	"github.com/vibast-solutions/ms-go-tasks/app/entity"

	"github.com/labstack/echo/v4"
)

// stubTaskRepo is an in-memory task store keyed the way the SQL layer is:
// lookups are always scoped to a user id.
type stubTaskRepo struct {
	tasks  map[uint64]*entity.Task
	nextID uint64
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[uint64]*entity.Task), nextID: 1}
}

func (r *stubTaskRepo) Create(_ context.Context, task *entity.Task) error {
	task.ID = r.nextID
	r.nextID++
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, userID, id uint64) (*entity.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (r *stubTaskRepo) ListByUserID(_ context.Context, userID uint64) ([]*entity.Task, error) {
	var out []*entity.Task
	for id := uint64(1); id < r.nextID; id++ {
		if task, ok := r.tasks[id]; ok && task.UserID == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *entity.Task) error {
	stored, ok := r.tasks[task.ID]
	if ok && stored.UserID == task.UserID {
		copied := *task
		r.tasks[task.ID] = &copied
	}
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, userID, id uint64) (int64, error) {
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return 0, nil
	}
	delete(r.tasks, id)
	return 1, nil
}

func taskContext(t *testing.T, method, path, body string, user *entity.User, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	ctx, rec := newJSONContext(t, method, path, body)
	if user != nil {
		ctx.Set("user", user)
	}
	if paramID != "" {
		ctx.SetParamNames("id")
		ctx.SetParamValues(paramID)
	}
	return ctx, rec
}

func TestTaskCreate(t *testing.T) {
	repo := newStubTaskRepo()
	c := controller.NewTaskController(repo)
	alice := &entity.User{ID: 5, Username: "alice"}

	ctx, rec := taskContext(t, http.MethodPost, "/todos", `{"task":"buy milk"}`, alice, "")
	if err := c.Create(ctx); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["task"] != "buy milk" || resp["is_completed"] != false || resp["user_id"] != float64(5) {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	repo := newStubTaskRepo()
	c := controller.NewTaskController(repo)
	alice := &entity.User{ID: 5}

	for _, body := range []string{`{"task":"ab"}`, `{"task":""}`} {
		ctx, rec := taskContext(t, http.MethodPost, "/todos", body, alice, "")
		if err := c.Create(ctx); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
	if len(repo.tasks) != 0 {
		t.Fatal("invalid request created a task")
	}
}

func TestTaskListEmpty(t *testing.T) {
	c := controller.NewTaskController(newStubTaskRepo())
	alice := &entity.User{ID: 5}

	ctx, rec := taskContext(t, http.MethodGet, "/todos", "", alice, "")
	if err := c.List(ctx); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTaskListScopedToUser(t *testing.T) {
	repo := newStubTaskRepo()
	repo.Create(context.Background(), &entity.Task{Task: "buy milk", UserID: 5})
	repo.Create(context.Background(), &entity.Task{Task: "walk dog", UserID: 5})
	repo.Create(context.Background(), &entity.Task{Task: "bob's task", UserID: 6})
	c := controller.NewTaskController(repo)

	ctx, rec := taskContext(t, http.MethodGet, "/todos", "", &entity.User{ID: 5}, "")
	if err := c.List(ctx); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp []map[string]any
	decodeBody(t, rec, &resp)
	if len(resp) != 2 {
		t.Fatalf("got %d tasks, want 2", len(resp))
	}
}

func TestTaskGet(t *testing.T) {
	repo := newStubTaskRepo()
	repo.Create(context.Background(), &entity.Task{Task: "buy milk", UserID: 5})
	c := controller.NewTaskController(repo)

	ctx, rec := taskContext(t, http.MethodGet, "/todos/1", "", &entity.User{ID: 5}, "1")
	if err := c.Get(ctx); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// Another user cannot see it.
	ctx, rec = taskContext(t, http.MethodGet, "/todos/1", "", &entity.User{ID: 6}, "1")
	if err := c.Get(ctx); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user status = %d, want 404", rec.Code)
	}
}

func TestTaskGetInvalidID(t *testing.T) {
	c := controller.NewTaskController(newStubTaskRepo())

	ctx, rec := taskContext(t, http.MethodGet, "/todos/abc", "", &entity.User{ID: 5}, "abc")
	if err := c.Get(ctx); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTaskUpdate(t *testing.T) {
	repo := newStubTaskRepo()
	repo.Create(context.Background(), &entity.Task{Task: "buy milk", UserID: 5})
	c := controller.NewTaskController(repo)

	body := `{"task":"buy oat milk","is_completed":true}`
	ctx, rec := taskContext(t, http.MethodPut, "/todos/1", body, &entity.User{ID: 5}, "1")
	if err := c.Update(ctx); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["task"] != "buy oat milk" || resp["is_completed"] != true {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestTaskUpdateNotFound(t *testing.T) {
	c := controller.NewTaskController(newStubTaskRepo())

	body := `{"task":"whatever","is_completed":false}`
	ctx, rec := taskContext(t, http.MethodPut, "/todos/99", body, &entity.User{ID: 5}, "99")
	if err := c.Update(ctx); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTaskDelete(t *testing.T) {
	repo := newStubTaskRepo()
	repo.Create(context.Background(), &entity.Task{Task: "buy milk", UserID: 5})
	c := controller.NewTaskController(repo)

	ctx, rec := taskContext(t, http.MethodDelete, "/todos/1", "", &entity.User{ID: 5}, "1")
	if err := c.Delete(ctx); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	// Second delete finds nothing.
	ctx, rec = taskContext(t, http.MethodDelete, "/todos/1", "", &entity.User{ID: 5}, "1")
	if err := c.Delete(ctx); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat status = %d, want 404", rec.Code)
	}
}

func TestTaskEndpointsRequireUser(t *testing.T) {
	c := controller.NewTaskController(newStubTaskRepo())

	handlers := map[string]func(echo.Context) error{
		"create": c.Create,
		"list":   c.List,
		"get":    c.Get,
		"update": c.Update,
		"delete": c.Delete,
	}
	for name, handler := range handlers {
		ctx, rec := taskContext(t, http.MethodGet, "/todos", "", nil, "1")
		if err := handler(ctx); err != nil {
			t.Fatalf("%s returned error: %v", name, err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}
