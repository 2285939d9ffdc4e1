package cli

import (
	"time"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/metrics"
	"github.com/alexanderramin/sprintboard/internal/screen"
)

// fieldSpec binds one entity field to a command-line flag and a form input.
type fieldSpec struct {
	field   string
	flag    string
	title   string
	options []string // fixed choices render as a select
	addOnly bool     // not editable once the entity exists
}

// kind describes one entity type to the generic commands and list views.
type kind[T domain.Record[T]] struct {
	name     string
	plural   string
	scoped   bool
	required []string
	opts     []form.Option
	fields   []fieldSpec

	collection func(Backend) screen.Collection[T]
	// defaults is the add-mode draft. parent is the selected project and
	// n the number of items already listed.
	defaults func(parent string, n int, user domain.User, now time.Time) T
	label    func(T) string
	summary  func([]T) string
	headers  []string
	row      func(T, time.Time) []string
	list     func([]T, time.Time) string
}

func (k kind[T]) newScreen(b Backend, app *App) *screen.Screen[T] {
	if k.scoped {
		return screen.NewScoped(k.name, k.collection(b), k.required, app.Guard(), k.opts...)
	}
	return screen.New(k.name, k.collection(b), k.required, app.Guard(), k.opts...)
}

var statusChoices = []string{
	string(domain.StatusPending),
	string(domain.StatusPlanned),
	string(domain.StatusInProgress),
	string(domain.StatusCompleted),
}

var projectKind = kind[domain.Project]{
	name:     "project",
	plural:   "projects",
	required: domain.ProjectRequired,
	fields: []fieldSpec{
		{field: "title", flag: "title", title: "Title"},
		{field: "description", flag: "description", title: "Description"},
		{field: "owner", flag: "owner", title: "Owner"},
		{field: "team", flag: "team", title: "Team (comma separated)"},
	},
	collection: func(b Backend) screen.Collection[domain.Project] { return b.Projects },
	defaults: func(_ string, _ int, user domain.User, now time.Time) domain.Project {
		return domain.Project{Owner: user.Name, CreatedAt: now.UTC().Format(time.RFC3339)}
	},
	label:   func(p domain.Project) string { return p.DisplayName() },
	headers: []string{"ID", "TITLE", "OWNER", "TEAM", "CREATED"},
	row: func(p domain.Project, _ time.Time) []string {
		return []string{
			formatter.TruncID(p.ID),
			p.DisplayName(),
			p.Owner,
			p.Field("team"),
			formatter.HumanDate(p.CreatedAt),
		}
	},
	list: func(p []domain.Project, _ time.Time) string { return formatter.FormatProjectList(p) },
}

var backlogKind = kind[domain.BacklogItem]{
	name:     "backlog item",
	plural:   "backlog items",
	scoped:   true,
	required: domain.BacklogRequired,
	opts:     []form.Option{form.WithAddRequired("_id")},
	fields: []fieldSpec{
		{field: "_id", flag: "id", title: "ID (e.g. PB-12)", addOnly: true},
		{field: "title", flag: "title", title: "Title"},
		{field: "description", flag: "description", title: "Description"},
		{field: "priority", flag: "priority", title: "Priority", options: []string{"Low", "Medium", "High"}},
		{field: "status", flag: "status", title: "Status", options: statusChoices},
		{field: "storyPoints", flag: "points", title: "Story points"},
	},
	collection: func(b Backend) screen.Collection[domain.BacklogItem] { return b.Backlog },
	defaults: func(parent string, _ int, _ domain.User, now time.Time) domain.BacklogItem {
		item := domain.NewBacklogItem()
		item.Project = parent
		item.Status = domain.StatusPending
		item.CreatedAt = now.Format(domain.DateLayout)
		return item
	},
	label: func(b domain.BacklogItem) string { return b.ID + " " + b.Title },
	summary: func(items []domain.BacklogItem) string {
		return formatter.FormatBacklogSummary(metrics.Backlog(items))
	},
	headers: []string{"ID", "TITLE", "PRIORITY", "STATUS", "POINTS"},
	row: func(b domain.BacklogItem, _ time.Time) []string {
		return []string{b.ID, b.Title, formatter.PriorityBadge(b.Priority), formatter.StatusPill(b.Status), formatter.Points(b.StoryPoints)}
	},
	list: func(items []domain.BacklogItem, _ time.Time) string { return formatter.FormatBacklogList(items) },
}

var sprintKind = kind[domain.Sprint]{
	name:     "sprint",
	plural:   "sprints",
	scoped:   true,
	required: domain.SprintRequired,
	fields: []fieldSpec{
		{field: "name", flag: "name", title: "Name"},
		{field: "startDate", flag: "start", title: "Start date (YYYY-MM-DD)"},
		{field: "endDate", flag: "end", title: "End date (YYYY-MM-DD)"},
		{field: "status", flag: "status", title: "Status", options: statusChoices},
		{field: "milestone", flag: "milestone", title: "Milestone"},
		{field: "capacity", flag: "capacity", title: "Capacity"},
		{field: "storyPoints", flag: "points", title: "Story points"},
		{field: "storyPointsClosed", flag: "closed", title: "Closed points"},
	},
	collection: func(b Backend) screen.Collection[domain.Sprint] { return b.Sprints },
	defaults: func(parent string, n int, _ domain.User, now time.Time) domain.Sprint {
		return domain.NewDefaultSprint(parent, n+1, now)
	},
	label: func(s domain.Sprint) string { return s.Label() },
	summary: func(items []domain.Sprint) string {
		return formatter.FormatSprintSummary(metrics.Sprints(items))
	},
	headers: []string{"NAME", "STATUS", "START", "DUE", "CAPACITY", "POINTS"},
	row: func(s domain.Sprint, now time.Time) []string {
		done := s.CurrentStatus() == domain.StatusCompleted
		return []string{
			s.Label(),
			formatter.StatusPill(s.Status),
			formatter.HumanDate(s.StartDate),
			formatter.DueStyled(s.Due(), done, now),
			formatter.Points(s.Capacity),
			formatter.Points(s.StoryPointsClosed) + "/" + formatter.Points(s.StoryPoints),
		}
	},
	list: formatter.FormatSprintList,
}

var taskKind = kind[domain.Task]{
	name:     "task",
	plural:   "tasks",
	scoped:   true,
	required: domain.TaskRequired,
	fields: []fieldSpec{
		{field: "title", flag: "title", title: "Title"},
		{field: "description", flag: "description", title: "Description"},
		{field: "status", flag: "status", title: "Status", options: statusChoices},
		{field: "sprint", flag: "sprint", title: "Sprint ID"},
		{field: "assignee", flag: "assignee", title: "Assignee (user ID)"},
		{field: "storyPoints", flag: "points", title: "Story points"},
	},
	collection: func(b Backend) screen.Collection[domain.Task] { return b.Tasks },
	defaults: func(parent string, _ int, _ domain.User, _ time.Time) domain.Task {
		return domain.Task{Project: parent, Status: domain.StatusPending}
	},
	label:   func(t domain.Task) string { return t.Title },
	headers: []string{"ID", "TITLE", "STATUS", "SPRINT", "POINTS"},
	row: func(t domain.Task, _ time.Time) []string {
		return []string{formatter.TruncID(t.ID), t.Title, formatter.StatusPill(t.Status), formatter.TruncID(t.Sprint), formatter.Points(t.StoryPoints)}
	},
	list: func(tasks []domain.Task, _ time.Time) string { return formatter.FormatTaskList("Tasks", tasks) },
}
