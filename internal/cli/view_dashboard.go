package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/dashboard"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/selection"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── messages ─────────────────────────────────────────────────────────────────

// dashProjectsMsg carries the project list fetched for one dashboard.
type dashProjectsMsg struct {
	comp *dashboard.Composer
	list []domain.Project
	err  error
}

// sprintSavedMsg carries the server's answer to the "new sprint" action.
type sprintSavedMsg struct {
	comp   *dashboard.Composer
	save   *form.Save[domain.Sprint]
	entity domain.Sprint
	err    error
}

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the home screen of the TUI: summary cards for the
// selected project, then either its open sprints or its task board.
type dashboardView struct {
	state *SharedState
	comp  *dashboard.Composer

	loadingProjects bool
	err             error
	flash           string
}

func newDashboardView(state *SharedState) *dashboardView {
	b := state.Backend
	return &dashboardView{
		state:           state,
		comp:            dashboard.New(b.Projects, b.Sprints, b.Tasks, state.App.Guard()),
		loadingProjects: true,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Dashboard" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", v.comp.Tab().Next().String())),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "project")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "period")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "sprint filter")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new sprint")),
		key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "apply")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.fetchProjects()
}

// ── data loading ─────────────────────────────────────────────────────────────

func (v *dashboardView) fetchProjects() tea.Cmd {
	v.loadingProjects = true
	comp, ctx := v.comp, v.state.Ctx
	return func() tea.Msg {
		list, err := comp.FetchProjects(ctx)
		return dashProjectsMsg{comp: comp, list: list, err: err}
	}
}

func (v *dashboardView) selectProject(id string) tea.Cmd {
	req := v.comp.SelectProject(id)
	v.syncActiveProject()
	return runSelection(v.state, v.comp.Selection(), req)
}

// syncActiveProject publishes the dashboard's project to the other screens.
func (v *dashboardView) syncActiveProject() {
	p, ok := v.comp.Projects.Get(v.comp.Project())
	if !ok {
		v.state.ClearProjectContext()
		return
	}
	v.state.SetActiveProject(p)
}

// cycleProject moves the selection by delta through the loaded projects.
func (v *dashboardView) cycleProject(delta int) tea.Cmd {
	projects := v.comp.Projects.Snapshot()
	if len(projects) == 0 {
		return nil
	}
	idx := -1
	for i, p := range projects {
		if p.ID == v.comp.Project() {
			idx = i
			break
		}
	}
	next := (idx + delta + len(projects)) % len(projects)
	if idx < 0 && delta < 0 {
		next = len(projects) - 1
	}
	return v.selectProject(projects[next].ID)
}

// cycleSprintFilter steps the task board through "all sprints" and then
// each loaded sprint.
func (v *dashboardView) cycleSprintFilter() {
	ids := []string{""}
	for _, s := range v.comp.Sprints.Snapshot() {
		ids = append(ids, s.ID)
	}
	cur := v.comp.SprintFilter()
	for i, id := range ids {
		if id == cur {
			v.comp.SetSprintFilter(ids[(i+1)%len(ids)])
			return
		}
	}
	v.comp.SetSprintFilter("")
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashProjectsMsg:
		if msg.comp != v.comp {
			return v, nil
		}
		v.loadingProjects = false
		if msg.err == nil && v.state.ActiveProjectID != "" && v.state.ActiveProjectID != v.comp.Project() {
			if err := v.comp.Projects.Load(msg.list); err != nil {
				v.err = err
				return v, nil
			}
			if v.comp.Projects.Contains(v.state.ActiveProjectID) {
				v.err = nil
				return v, v.selectProject(v.state.ActiveProjectID)
			}
		}
		req, err := v.comp.ApplyProjects(msg.list, msg.err)
		v.err = err
		if err != nil {
			return v, nil
		}
		v.syncActiveProject()
		if req == nil {
			req = v.comp.Apply()
		}
		return v, runSelection(v.state, v.comp.Selection(), req)

	case selectionDoneMsg:
		if msg.sel != v.comp.Selection() || !v.comp.Complete(msg.res) {
			return v, nil
		}
		v.err = v.comp.Err()
		return v, nil

	case sprintSavedMsg:
		if msg.comp != v.comp {
			return v, nil
		}
		s, err := v.comp.SprintSaved(msg.save, msg.entity, msg.err)
		switch {
		case errors.Is(err, form.ErrStale):
		case err != nil:
			v.err = err
		default:
			v.err = nil
			v.flash = formatter.Success("Created " + s.Label())
		}
		return v, nil

	case refreshViewMsg:
		return v, v.fetchProjects()

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *dashboardView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.flash = ""
	switch msg.String() {
	case "tab":
		v.comp.SetTab(v.comp.Tab().Next())
	case "p":
		v.comp.CyclePeriod()
	case "f":
		v.cycleSprintFilter()
	case "[":
		return v, v.cycleProject(-1)
	case "]":
		return v, v.cycleProject(1)
	case "enter", "a":
		return v, runSelection(v.state, v.comp.Selection(), v.comp.Apply())
	case "r":
		return v, v.fetchProjects()
	case "n":
		return v, v.newSprint()
	}
	return v, nil
}

func (v *dashboardView) newSprint() tea.Cmd {
	save, err := v.comp.NewSprint(v.state.Now())
	if err != nil {
		v.err = err
		return nil
	}
	v.err = nil
	comp, ctx := v.comp, v.state.Ctx
	return func() tea.Msg {
		e, err := save.Run(ctx)
		return sprintSavedMsg{comp: comp, save: save, entity: e, err: err}
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *dashboardView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if v.loadingProjects && v.comp.Projects.Len() == 0 {
		b.WriteString("  " + formatter.Dim("Loading dashboard...") + "\n")
		return b.String()
	}

	b.WriteString("  " + v.renderProjectLine() + "\n\n")

	switch {
	case v.comp.Project() == "":
		b.WriteString("  " + formatter.Dim("No project selected. Create one on the Projects screen (2).") + "\n")
	case v.comp.State() == selection.Loading && v.comp.Sprints.Len() == 0 && v.comp.Tasks.Len() == 0:
		b.WriteString("  " + formatter.Dim("Loading sprints and tasks...") + "\n")
	default:
		now := v.state.Now()
		b.WriteString(indent(formatter.FormatDashboardSummary(v.comp.Summary(now), v.comp.Period())) + "\n\n")
		b.WriteString("  " + v.renderTabs() + "\n\n")
		if v.comp.Tab() == dashboard.TabTasks {
			b.WriteString(indent(formatter.FormatBoard(v.comp.Board())))
		} else {
			b.WriteString(indent(formatter.FormatOpenSprints(v.comp.OpenSprints(), now)))
		}
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render("Error: "+UserMessage(v.err)) + "\n")
	}
	if v.flash != "" {
		b.WriteString("\n  " + v.flash + "\n")
	}
	return b.String()
}

func (v *dashboardView) renderProjectLine() string {
	label := formatter.Dim("Project:") + " "
	p, ok := v.comp.Projects.Get(v.comp.Project())
	if !ok {
		return label + formatter.Dim("none")
	}
	line := label + formatter.StyleGreen.Render(p.DisplayName())
	if v.comp.State() == selection.Loading {
		line += "  " + formatter.Dim("loading...")
	}
	return line + "  " + formatter.Dim(v.comp.Period().String())
}

func (v *dashboardView) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(formatter.ColorFg).Bold(true).Underline(true)
	var parts []string
	for _, t := range []dashboard.Tab{dashboard.TabSprints, dashboard.TabTasks} {
		if t == v.comp.Tab() {
			parts = append(parts, active.Render(t.String()))
		} else {
			parts = append(parts, formatter.Dim(t.String()))
		}
	}
	tabs := strings.Join(parts, "   ")
	if v.comp.Tab() == dashboard.TabTasks && v.comp.SprintFilter() != "" {
		name := v.comp.SprintFilter()
		if s, ok := v.comp.Sprints.Get(name); ok {
			name = s.Label()
		}
		tabs += "   " + formatter.Dim(fmt.Sprintf("sprint: %s", name))
	}
	return tabs
}

// indent prefixes every non-empty line with two spaces.
func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}
