package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintboard/internal/dashboard"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/metrics"
)

// seededBackend holds two projects; Apollo has one running sprint with one
// task, Zeus has nothing.
func seededBackend() *fakeBackend {
	f := newFakeBackend()
	f.seedProjects("Apollo", "Zeus")
	f.sprints.Seed("p1", domain.Sprint{
		ID: "s1", Name: "Sprint 1", Milestone: "M1", Project: "p1",
		Status: domain.StatusInProgress, StartDate: "2024-03-01", EndDate: "2024-03-14",
		Capacity: 20, StoryPoints: 10, StoryPointsClosed: 4,
	})
	f.tasks.Seed("p1", domain.Task{ID: "t1", Title: "Wire it", Project: "p1", Sprint: "s1", Status: domain.StatusPending})
	f.backlog.Seed("p1", domain.BacklogItem{ID: "PB-1", Title: "First", Description: "d", Project: "p1", Priority: domain.PriorityHigh, Status: domain.StatusPending, CreatedAt: "2024-01-01"})
	f.backlog.Seed("p2", domain.BacklogItem{ID: "PB-2", Title: "Second", Description: "d", Project: "p2", Status: domain.StatusPending, CreatedAt: "2024-01-01"})
	return f
}

func isSelectionDone(msg tea.Msg) bool {
	_, ok := msg.(selectionDoneMsg)
	return ok
}

// --- Dashboard ---

func TestTUI_DashboardSelectsFirstProject(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))

	assert.Equal(t, []ViewID{ViewDashboard}, d.ViewStackIDs())
	assert.Equal(t, "p1", d.Dashboard().comp.Project())
	assert.Equal(t, "p1", d.State().ActiveProjectID)
	assert.Equal(t, "Apollo", d.State().ActiveProjectTitle)

	view := d.View()
	assert.Contains(t, view, "Apollo")
	assert.Contains(t, view, "M1")
	assert.Contains(t, view, "Open Sprints 1")
	assert.Contains(t, f.sprints.Calls(), "list:p1")
	assert.Contains(t, f.tasks.Calls(), "list:p1")
}

func TestTUI_DashboardTabsAndFilters(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))
	comp := d.Dashboard().comp

	d.PressTab()
	assert.Equal(t, dashboard.TabTasks, comp.Tab())
	view := d.View()
	assert.Contains(t, view, "TO DO")
	assert.Contains(t, view, "Wire it")

	d.PressKey('f')
	assert.Equal(t, "s1", comp.SprintFilter())
	assert.Contains(t, d.View(), "sprint: Sprint 1")

	d.PressKey('f')
	assert.Empty(t, comp.SprintFilter(), "the filter cycles back to all sprints")

	d.PressKey('p')
	assert.Equal(t, metrics.Last30Days, comp.Period())
	assert.Contains(t, d.View(), "Last 30 days")
}

func TestTUI_DashboardProjectSwitch(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))

	d.PressKey(']')
	assert.Equal(t, "p2", d.Dashboard().comp.Project())
	assert.Equal(t, "Zeus", d.State().ActiveProjectTitle)
	assert.Equal(t, 0, d.Dashboard().comp.Sprints.Len(), "Zeus has no sprints")
	assert.Contains(t, d.View(), "No open sprints.")

	d.PressKey('[')
	assert.Equal(t, "p1", d.Dashboard().comp.Project())
	assert.Equal(t, 1, d.Dashboard().comp.Sprints.Len())
}

func TestTUI_DashboardNewSprint(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))

	d.PressKey('n')

	require.Len(t, f.sprints.Items("p1"), 2)
	created := f.sprints.Items("p1")[1]
	assert.Equal(t, "Sprint #2", created.Name)
	assert.Equal(t, domain.StatusPlanned, created.Status)
	assert.Equal(t, 2, d.Dashboard().comp.Sprints.Len())
	assert.Contains(t, d.View(), "Created Sprint #2")
}

func TestTUI_DashboardNewSprintWithoutProject(t *testing.T) {
	f := newFakeBackend()
	d := NewTestDriver(t, tuiApp(t, f))

	assert.Contains(t, d.View(), "No project selected")
	d.PressKey('n')

	assert.Contains(t, d.View(), "select a project first")
	assert.Empty(t, f.sprints.Calls(), "nothing is sent without a project")
}

func TestTUI_DashboardLoadError(t *testing.T) {
	f := seededBackend()
	f.projects.ListErr = &domain.RemoteFailure{Op: "list projects", StatusCode: 401}
	d := NewTestDriver(t, tuiApp(t, f))

	assert.Contains(t, d.View(), "sprintboard login")
	assert.Empty(t, f.sprints.Calls())
}

// --- Navigation ---

func TestTUI_SectionNavigation(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))

	d.PressKey('2')
	assert.Equal(t, []ViewID{ViewDashboard, ViewProjects}, d.ViewStackIDs())
	view := d.View()
	assert.Contains(t, view, "Apollo")
	assert.Contains(t, view, "Zeus")

	d.PressKey('3')
	assert.Equal(t, []ViewID{ViewDashboard, ViewBacklog}, d.ViewStackIDs(), "sections replace each other")

	d.PressKey('4')
	assert.Equal(t, []ViewID{ViewDashboard, ViewSprints}, d.ViewStackIDs())
	assert.Contains(t, d.View(), "Sprint 1")

	d.PressEsc()
	assert.Equal(t, []ViewID{ViewDashboard}, d.ViewStackIDs())

	d.PressEsc()
	assert.Equal(t, []ViewID{ViewDashboard}, d.ViewStackIDs(), "the dashboard is never popped")

	d.PressKey('q')
	assert.True(t, d.IsQuitting())
}

func TestTUI_CtrlCQuits(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))
	d.PressKey('2')
	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
}

func TestTUI_ChildScreenFollowsDashboardProject(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))

	d.PressKey(']')
	d.PressKey('3')

	lv := listViewOf[domain.BacklogItem](t, d)
	assert.Equal(t, "p2", lv.screen.Parent())
	assert.Contains(t, d.View(), "Second")
	assert.NotContains(t, d.View(), "First")
}

func TestTUI_DashboardFollowsChildScreenProject(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))

	d.PressKey('3')
	d.PressKey(']')
	assert.Equal(t, "p2", d.State().ActiveProjectID)

	d.PressKey('1')
	assert.Equal(t, []ViewID{ViewDashboard}, d.ViewStackIDs())
	assert.Equal(t, "p2", d.Dashboard().comp.Project())
}

// --- List screens ---

func TestTUI_ProjectFilterCapturesKeys(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	d.PressKey('/')
	d.Type("zq")
	assert.False(t, d.IsQuitting(), "q is typed into the filter")
	assert.Equal(t, "zq", lv.filter)
	assert.Empty(t, lv.visibleItems())

	d.PressBackspace()
	require.Len(t, lv.visibleItems(), 1)
	assert.Equal(t, "Zeus", lv.visibleItems()[0].Title)

	d.PressEsc()
	assert.Equal(t, ViewProjects, d.ActiveViewID(), "esc leaves filter mode, not the screen")
	assert.Len(t, lv.visibleItems(), 2)
}

func TestTUI_AddFormOpensAndCancels(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	d.PressKey('a')
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.True(t, lv.screen.Form.IsOpen())
	assert.Contains(t, d.View(), "Title")

	d.PressEsc()
	assert.Equal(t, ViewProjects, d.ActiveViewID())
	assert.False(t, lv.screen.Form.IsOpen())
	assert.Contains(t, d.Notice(), "Cancelled.")
	assert.Len(t, f.projects.Items(""), 2)
}

func TestTUI_EditFormOpensOnCursor(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	d.PressDown()
	d.PressEnter()
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, "p2", lv.screen.Form.EditingID())
}

func TestTUI_SaveAppendsConfirmedEntity(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	require.NoError(t, lv.screen.OpenForAdd(projectKind.defaults("", 2, d.State().User, tuiNow)))
	require.NoError(t, lv.screen.Form.SetField("title", "Hermes"))
	require.NoError(t, lv.screen.Form.SetField("description", "wings"))
	d.Exec(lv.beginSave())

	require.Len(t, f.projects.Items(""), 3)
	assert.Equal(t, 3, lv.screen.Items.Len())
	assert.False(t, lv.screen.Form.IsOpen())
	view := d.View()
	assert.Contains(t, view, "Hermes")
	assert.Contains(t, view, "Saved project Hermes")
}

func TestTUI_InvalidDraftReopensForm(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	require.NoError(t, lv.screen.OpenForAdd(projectKind.defaults("", 2, d.State().User, tuiNow)))
	require.NoError(t, lv.screen.Form.SetField("title", "Hermes"))
	d.Exec(lv.beginSave())

	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "missing required fields: description")
	assert.NotContains(t, f.projects.Calls(), "create:", "invalid drafts never reach the server")
}

func TestTUI_FailedSaveKeepsDraft(t *testing.T) {
	f := seededBackend()
	f.projects.CreateErr = &domain.RemoteFailure{Op: "create project", StatusCode: 500, Message: "database is locked"}
	d := NewTestDriver(t, tuiApp(t, f))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	require.NoError(t, lv.screen.OpenForAdd(projectKind.defaults("", 2, d.State().User, tuiNow)))
	require.NoError(t, lv.screen.Form.SetField("title", "Hermes"))
	require.NoError(t, lv.screen.Form.SetField("description", "wings"))
	d.Exec(lv.beginSave())

	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "database is locked")
	draft, ok := lv.screen.Form.Draft()
	require.True(t, ok)
	assert.Equal(t, "Hermes", draft.Title)
	assert.Equal(t, 2, lv.screen.Items.Len(), "nothing is added before the server confirms")
}

func TestTUI_DeleteRemovesAfterConfirmation(t *testing.T) {
	f := seededBackend()
	d := NewTestDriver(t, tuiApp(t, f))
	d.PressKey('2')
	lv := listViewOf[domain.Project](t, d)

	d.PressKey('d')
	require.Equal(t, ViewForm, d.ActiveViewID(), "delete asks first")
	d.PressEsc()
	assert.Len(t, f.projects.Items(""), 2)

	d.Exec(lv.beginDelete("p2"))
	assert.Len(t, f.projects.Items(""), 1)
	assert.Equal(t, 1, lv.screen.Items.Len())
	assert.Contains(t, d.View(), "Deleted project")
}

func TestTUI_ClearProjectBlocksAdd(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededBackend()))
	d.PressKey('3')
	lv := listViewOf[domain.BacklogItem](t, d)
	require.Equal(t, 1, lv.screen.Items.Len())

	d.PressKey('c')
	assert.Empty(t, lv.screen.Parent())
	assert.Equal(t, 0, lv.screen.Items.Len())
	assert.Empty(t, d.State().ActiveProjectID)
	assert.Contains(t, d.View(), "Select a project")

	d.PressKey('a')
	assert.Equal(t, ViewBacklog, d.ActiveViewID())
	assert.Contains(t, d.View(), "select a project first")
}

func TestTUI_OutOfOrderSelectionKeepsLatest(t *testing.T) {
	f := seededBackend()
	f.projects.Seed("", domain.Project{ID: "p3", Title: "Hera", Description: "h", Owner: "Ana", CreatedAt: "2024-01-01T00:00:00Z"})
	d := NewTestDriver(t, tuiApp(t, f))
	d.PressKey('3')
	lv := listViewOf[domain.BacklogItem](t, d)
	require.Equal(t, "p1", lv.screen.Parent())

	d.Hold(isSelectionDone)
	d.PressKey(']') // p2
	d.PressKey(']') // p3
	require.Len(t, d.Pending(), 2)
	assert.True(t, lv.loading)

	// The newer reply lands first, then the stale one.
	d.Deliver(1)
	d.Deliver(0)
	d.Resume()

	assert.Equal(t, "p3", lv.screen.Parent())
	assert.False(t, lv.loading)
	assert.Equal(t, 0, lv.screen.Items.Len(), "Hera has no backlog")
	assert.NotContains(t, d.View(), "Second", "the stale reply for Zeus is dropped")
}
