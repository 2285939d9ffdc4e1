package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Collection is the uniform remote contract of one entity kind. Root kinds
// ignore parentID.
type Collection[T any] interface {
	List(ctx context.Context, parentID string) ([]T, error)
	Create(ctx context.Context, parentID string, draft T) (T, error)
	Update(ctx context.Context, parentID, id string, draft T) (T, error)
	Delete(ctx context.Context, parentID, id string) error
}

// routes maps a parent and entity id to endpoint paths. Ids are escaped.
type routes struct {
	collection func(parent string) string
	item       func(parent, id string) string
}

// Resource is a Collection backed by REST endpoints.
type Resource[T any] struct {
	c      *Client
	kind   string
	scoped bool
	routes routes
}

func (r *Resource[T]) checkParent(parentID string) error {
	if r.scoped && parentID == "" {
		return domain.ErrNoParentSelected
	}
	return nil
}

func (r *Resource[T]) List(ctx context.Context, parentID string) ([]T, error) {
	if err := r.checkParent(parentID); err != nil {
		return nil, err
	}
	var out []T
	if err := r.c.do(ctx, "list "+r.kind+"s", http.MethodGet, r.routes.collection(parentID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Create(ctx context.Context, parentID string, draft T) (T, error) {
	var out T
	if err := r.checkParent(parentID); err != nil {
		return out, err
	}
	op := "create " + r.kind
	if err := r.c.do(ctx, op, http.MethodPost, r.routes.collection(parentID), draft, &out); err != nil {
		return out, err
	}
	return out, requireID(op, out)
}

func (r *Resource[T]) Update(ctx context.Context, parentID, id string, draft T) (T, error) {
	var out T
	if err := r.checkParent(parentID); err != nil {
		return out, err
	}
	op := "update " + r.kind
	if err := r.c.do(ctx, op, http.MethodPut, r.routes.item(parentID, id), draft, &out); err != nil {
		return out, err
	}
	return out, requireID(op, out)
}

// requireID rejects a 2xx answer whose entity carries no id; the server
// assigns ids and the stores key on them.
func requireID(op string, v any) error {
	if e, ok := v.(domain.Entity); ok && e.EntityID() == "" {
		return unexpected(op, http.StatusOK, errors.New("response entity has no id"))
	}
	return nil
}

func (r *Resource[T]) Delete(ctx context.Context, parentID, id string) error {
	if err := r.checkParent(parentID); err != nil {
		return err
	}
	return r.c.do(ctx, "delete "+r.kind, http.MethodDelete, r.routes.item(parentID, id), nil, nil)
}

func esc(s string) string { return url.PathEscape(s) }

// Projects is /projects.
func (c *Client) Projects() *Resource[domain.Project] {
	return &Resource[domain.Project]{c: c, kind: "project", routes: routes{
		collection: func(string) string { return "/projects" },
		item:       func(_, id string) string { return "/projects/" + esc(id) },
	}}
}

// Backlog is /projects/{project}/productBacklog.
func (c *Client) Backlog() *Resource[domain.BacklogItem] {
	return &Resource[domain.BacklogItem]{c: c, kind: "backlog item", scoped: true, routes: routes{
		collection: func(p string) string { return "/projects/" + esc(p) + "/productBacklog" },
		item:       func(p, id string) string { return "/projects/" + esc(p) + "/productBacklog/" + esc(id) },
	}}
}

// Sprints is /projects/{project}/sprints.
func (c *Client) Sprints() *Resource[domain.Sprint] {
	return &Resource[domain.Sprint]{c: c, kind: "sprint", scoped: true, routes: routes{
		collection: func(p string) string { return "/projects/" + esc(p) + "/sprints" },
		item:       func(p, id string) string { return "/projects/" + esc(p) + "/sprints/" + esc(id) },
	}}
}

// TaskResource adds the task-only endpoints to the task collection.
type TaskResource struct {
	*Resource[domain.Task]
}

// Tasks is /tasks/{project} for listing and creating and /tasks/task/{id}
// for single tasks.
func (c *Client) Tasks() *TaskResource {
	return &TaskResource{&Resource[domain.Task]{c: c, kind: "task", scoped: true, routes: routes{
		collection: func(p string) string { return "/tasks/" + esc(p) },
		item:       func(_, id string) string { return "/tasks/task/" + esc(id) },
	}}}
}

// Get fetches one task.
func (r *TaskResource) Get(ctx context.Context, id string) (domain.Task, error) {
	var out domain.Task
	err := r.c.do(ctx, "get task", http.MethodGet, "/tasks/task/"+esc(id), nil, &out)
	return out, err
}

// UpdateStatus changes only the status of a task.
func (r *TaskResource) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	var out domain.Task
	body := map[string]string{"status": string(status)}
	err := r.c.do(ctx, "update task status", http.MethodPatch, "/tasks/task/"+esc(id)+"/status", body, &out)
	return out, err
}

// ListByUser lists the tasks assigned to a user across projects.
func (r *TaskResource) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	var out []domain.Task
	if err := r.c.do(ctx, "list user tasks", http.MethodGet, "/tasks/user/"+esc(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	var out domain.AuthResult
	err := c.do(ctx, "login", http.MethodPost, "/auth/login",
		domain.Credentials{Email: email, Password: password}, &out)
	return out, err
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, cred domain.Credentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", cred, &out)
	return out, err
}
