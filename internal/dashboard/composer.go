// Package dashboard composes the project selection, the sprint and task
// stores and their metrics behind the dashboard's tab and filter state.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/metrics"
	"github.com/alexanderramin/sprintboard/internal/selection"
	"github.com/alexanderramin/sprintboard/internal/store"
)

// Tab is the visible dashboard panel.
type Tab int

const (
	TabSprints Tab = iota
	TabTasks
)

func (t Tab) String() string {
	if t == TabTasks {
		return "Tasks"
	}
	return "Sprints"
}

// Next toggles between the two tabs.
func (t Tab) Next() Tab {
	if t == TabSprints {
		return TabTasks
	}
	return TabSprints
}

// ProjectLister lists every project visible to the user.
type ProjectLister interface {
	List(ctx context.Context, parentID string) ([]domain.Project, error)
}

// ChildLister lists the children of one project.
type ChildLister[T any] interface {
	List(ctx context.Context, parentID string) ([]T, error)
}

// SprintSaver creates sprints for the "new sprint" action.
type SprintSaver interface {
	ChildLister[domain.Sprint]
	form.Saver[domain.Sprint]
}

// Composer is the dashboard state. It is not safe for concurrent use: all
// methods run on the event loop, remote calls run through the returned
// requests and saves.
type Composer struct {
	Projects   *store.Store[domain.Project]
	Sprints    *store.Store[domain.Sprint]
	Tasks      *store.Store[domain.Task]
	SprintForm *form.Session[domain.Sprint]

	projects ProjectLister
	sel      *selection.Controller
	guard    store.Guard

	tab          Tab
	period       metrics.Period
	sprintFilter string
}

// New wires a composer. Sprints and tasks reload together whenever the
// selected project changes.
func New(projects ProjectLister, sprints SprintSaver, tasks ChildLister[domain.Task], guard store.Guard) *Composer {
	c := &Composer{
		Projects: store.New[domain.Project](),
		Sprints:  store.New[domain.Sprint](),
		Tasks:    store.New[domain.Task](),
		projects: projects,
		sel:      selection.New(),
		guard:    guard,
		period:   metrics.Last90Days,
	}
	c.SprintForm = form.New[domain.Sprint](sprints, domain.SprintRequired,
		form.WithParentCheck(c.Projects.Contains))
	selection.Bind[domain.Sprint](c.sel, "sprints", sprints.List, c.Sprints)
	selection.Bind[domain.Task](c.sel, "tasks", tasks.List, c.Tasks)
	return c
}

func (c *Composer) Tab() Tab                         { return c.tab }
func (c *Composer) Period() metrics.Period           { return c.period }
func (c *Composer) SprintFilter() string             { return c.sprintFilter }
func (c *Composer) State() selection.State           { return c.sel.State() }
func (c *Composer) Project() string                  { return c.sel.Parent() }
func (c *Composer) Err() error                       { return c.sel.Err() }
func (c *Composer) Selection() *selection.Controller { return c.sel }

// View state setters. None of them refetch.
func (c *Composer) SetTab(t Tab)                    { c.tab = t }
func (c *Composer) CyclePeriod()                    { c.period = c.period.Next() }
func (c *Composer) SetPeriod(p metrics.Period)      { c.period = p }
func (c *Composer) SetSprintFilter(sprintID string) { c.sprintFilter = sprintID }

// FetchProjects lists projects. It touches no composer state.
func (c *Composer) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	return c.projects.List(ctx, "")
}

// ApplyProjects loads fetched projects. When nothing is selected yet, or the
// selected project disappeared, the first project is selected and its
// request returned.
func (c *Composer) ApplyProjects(list []domain.Project, err error) (*selection.Request, error) {
	if err != nil {
		return nil, err
	}
	if err := c.Projects.Load(list); err != nil {
		return nil, err
	}
	if cur := c.sel.Parent(); cur != "" && c.Projects.Contains(cur) {
		return nil, nil
	}
	first := ""
	if len(list) > 0 {
		first = list[0].ID
	}
	return c.SelectProject(first), nil
}

// SelectProject changes the selected project. An empty id clears sprints
// and tasks without a fetch.
func (c *Composer) SelectProject(id string) *selection.Request {
	if id != c.sel.Parent() {
		c.sprintFilter = ""
	}
	return c.sel.Select(id)
}

// Apply refetches the selected project's sprints and tasks.
func (c *Composer) Apply() *selection.Request {
	return c.sel.Refresh()
}

// Complete hands a finished request back to the selection controller.
func (c *Composer) Complete(res selection.Result) bool {
	return c.sel.Complete(res)
}

// Load fetches projects, then the selected project's children.
func (c *Composer) Load(ctx context.Context) error {
	req, err := c.ApplyProjects(c.FetchProjects(ctx))
	if err != nil {
		return err
	}
	if req == nil {
		req = c.Apply()
	}
	if req == nil {
		return nil
	}
	c.Complete(req.Run(ctx))
	return c.sel.Err()
}

// NewSprint opens the sprint form with the default draft for the selected
// project and begins its save. Without a selected project it fails with
// domain.ErrNoParentSelected and nothing is sent.
func (c *Composer) NewSprint(now time.Time) (*form.Save[domain.Sprint], error) {
	parent := c.sel.Parent()
	if parent == "" {
		return nil, domain.ErrNoParentSelected
	}
	c.SprintForm.OpenForAdd(domain.NewDefaultSprint(parent, c.Sprints.Len()+1, now))
	save, err := c.SprintForm.Begin()
	if err != nil {
		c.SprintForm.Cancel()
		return nil, err
	}
	return save, nil
}

// SprintSaved applies the outcome of a NewSprint save.
func (c *Composer) SprintSaved(save *form.Save[domain.Sprint], e domain.Sprint, err error) (domain.Sprint, error) {
	saved, err := c.SprintForm.Finish(save, e, err)
	if errors.Is(err, form.ErrStale) {
		return saved, err
	}
	if err != nil {
		c.SprintForm.Cancel()
		return saved, err
	}
	if save.ParentID() != c.sel.Parent() {
		return saved, nil
	}
	return saved, c.guard.Check("append sprint", c.Sprints.Append(saved))
}

// Summary computes the header cards for the current snapshots.
func (c *Composer) Summary(now time.Time) metrics.DashboardSummary {
	return metrics.Dashboard(c.Sprints.Snapshot(), c.period, now)
}

// OpenSprints lists sprints that are not completed, in server order.
func (c *Composer) OpenSprints() []domain.Sprint {
	return metrics.Filter(c.Sprints.Snapshot(), func(s domain.Sprint) bool {
		st := s.CurrentStatus()
		return st != domain.StatusUnknown && st != domain.StatusCompleted
	})
}

// Board groups the current tasks by status, honouring the sprint filter.
func (c *Composer) Board() []metrics.Column {
	return metrics.Board(c.Tasks.Snapshot(), c.sprintFilter)
}
