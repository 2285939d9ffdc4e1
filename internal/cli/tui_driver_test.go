package cli

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintboard/internal/config"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/teatest"
	"github.com/alexanderramin/sprintboard/internal/testutil"
)

// fakeTasks adds the task-only endpoints to the in-memory collection.
type fakeTasks struct {
	*testutil.FakeCollection[domain.Task]
}

func (f fakeTasks) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	for _, parent := range []string{"p1", "p2", "p3"} {
		for _, t := range f.Items(parent) {
			if t.ID == id {
				t.Status = status
				return f.Update(ctx, parent, id, t)
			}
		}
	}
	return domain.Task{}, &domain.RemoteFailure{Op: "update status", StatusCode: 404}
}

func (f fakeTasks) ListByUser(_ context.Context, userID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, parent := range []string{"p1", "p2", "p3"} {
		for _, t := range f.Items(parent) {
			if t.Assignee == userID {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// fakeBackend is the in-memory server side of a TUI test.
type fakeBackend struct {
	projects *testutil.FakeCollection[domain.Project]
	backlog  *testutil.FakeCollection[domain.BacklogItem]
	sprints  *testutil.FakeCollection[domain.Sprint]
	tasks    fakeTasks
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		projects: testutil.NewFakeCollection[domain.Project]("p"),
		backlog:  testutil.NewFakeCollection[domain.BacklogItem]("PB"),
		sprints:  testutil.NewFakeCollection[domain.Sprint]("s"),
		tasks:    fakeTasks{testutil.NewFakeCollection[domain.Task]("t")},
	}
}

func (f *fakeBackend) backend() Backend {
	return Backend{Projects: f.projects, Backlog: f.backlog, Sprints: f.sprints, Tasks: f.tasks}
}

// seedProjects adds projects p1..pn titled by names.
func (f *fakeBackend) seedProjects(names ...string) {
	for i, name := range names {
		f.projects.Seed("", domain.Project{
			ID:          "p" + string(rune('1'+i)),
			Title:       name,
			Description: name + " project",
			Owner:       "Ana",
			CreatedAt:   "2024-01-01T00:00:00Z",
		})
	}
}

var tuiNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// tuiApp wires an App to fake collections; no config file, session or
// network is involved.
func tuiApp(t *testing.T, f *fakeBackend) *App {
	t.Helper()
	app := &App{
		Config: &config.Config{Dir: t.TempDir(), Debug: true},
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return tuiNow },
	}
	app.UseBackend(f.backend(), domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com"})
	return app
}

// TestDriver wraps teatest.Driver with inspection of appModel internals
// (view stack, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets the terminal size and drains
// Init, which loads the dashboard from the fakes.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m, err := newAppModel(context.Background(), app)
	require.NoError(t, err)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveView returns the top view on the stack.
func (d *TestDriver) ActiveView() View {
	m := d.appModel()
	return m.activeView()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// Dashboard returns the home view at the bottom of the stack.
func (d *TestDriver) Dashboard() *dashboardView {
	return d.appModel().viewStack[0].(*dashboardView)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Notice returns the status bar notice.
func (d *TestDriver) Notice() string {
	return d.appModel().notice
}

// IsQuitting reports whether the model or the runtime saw a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// listViewOf returns the active view as a list view of T.
func listViewOf[T domain.Record[T]](t *testing.T, d *TestDriver) *listView[T] {
	t.Helper()
	v, ok := d.ActiveView().(*listView[T])
	require.True(t, ok, "active view is %T", d.ActiveView())
	return v
}
