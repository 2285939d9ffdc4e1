package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/screen"
	"github.com/alexanderramin/sprintboard/internal/selection"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// ── messages ─────────────────────────────────────────────────────────────────

// itemsFetchedMsg carries a root collection fetched for one screen.
type itemsFetchedMsg[T domain.Record[T]] struct {
	screen *screen.Screen[T]
	list   []T
	err    error
}

// projectChoicesMsg carries the projects a child screen can pick from.
type projectChoicesMsg struct {
	target any
	list   []domain.Project
	err    error
}

// selectionDoneMsg carries a finished dependent fetch back to the
// controller that issued it.
type selectionDoneMsg struct {
	sel *selection.Controller
	res selection.Result
}

// savedMsg carries the server's answer to a form save.
type savedMsg[T domain.Record[T]] struct {
	screen *screen.Screen[T]
	save   *form.Save[T]
	entity T
	err    error
}

// deletedMsg carries the server's answer to a delete.
type deletedMsg[T domain.Record[T]] struct {
	screen *screen.Screen[T]
	del    screen.Deletion
	err    error
}

func runSelection(st *SharedState, sel *selection.Controller, req *selection.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	ctx := st.Ctx
	return func() tea.Msg {
		return selectionDoneMsg{sel: sel, res: req.Run(ctx)}
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

// listView is the CRUD screen of one entity kind. Child kinds show a
// project switcher above the list; their items follow the picked project.
type listView[T domain.Record[T]] struct {
	state  *SharedState
	id     ViewID
	title  string
	kind   kind[T]
	screen *screen.Screen[T]

	cursor  int
	loading bool
	err     error
	flash   string

	// Filtering
	filtering bool
	filter    string

	// Project switcher for child kinds
	projects   []domain.Project
	projectIdx int
}

func newListView[T domain.Record[T]](state *SharedState, id ViewID, title string, k kind[T]) *listView[T] {
	return &listView[T]{
		state:      state,
		id:         id,
		title:      title,
		kind:       k,
		screen:     k.newScreen(state.Backend, state.App),
		loading:    true,
		projectIdx: -1,
	}
}

func newProjectListView(state *SharedState) *listView[domain.Project] {
	return newListView(state, ViewProjects, "Projects", projectKind)
}

func newBacklogView(state *SharedState) *listView[domain.BacklogItem] {
	return newListView(state, ViewBacklog, "Product Backlog", backlogKind)
}

func newSprintListView(state *SharedState) *listView[domain.Sprint] {
	return newListView(state, ViewSprints, "Sprint Backlog", sprintKind)
}

func (v *listView[T]) ID() ViewID          { return v.id }
func (v *listView[T]) Title() string       { return v.title }
func (v *listView[T]) CapturesInput() bool { return v.filtering }

func (v *listView[T]) ShortHelp() []key.Binding {
	help := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
	if v.kind.scoped {
		help = append(help,
			key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "project")),
			key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear project")),
		)
	}
	return help
}

func (v *listView[T]) Init() tea.Cmd {
	if v.kind.scoped {
		return v.fetchProjects()
	}
	return v.fetchItems()
}

// ── data loading ─────────────────────────────────────────────────────────────

func (v *listView[T]) fetchItems() tea.Cmd {
	s, ctx := v.screen, v.state.Ctx
	return func() tea.Msg {
		list, err := s.Fetch(ctx)
		return itemsFetchedMsg[T]{screen: s, list: list, err: err}
	}
}

func (v *listView[T]) fetchProjects() tea.Cmd {
	projects, ctx := v.state.Backend.Projects, v.state.Ctx
	return func() tea.Msg {
		list, err := projects.List(ctx, "")
		return projectChoicesMsg{target: v, list: list, err: err}
	}
}

// selectProject switches the child list to projects[idx]; -1 clears it.
func (v *listView[T]) selectProject(idx int) tea.Cmd {
	v.projectIdx = idx
	v.cursor = 0
	sel := v.screen.Selection()
	if idx < 0 || idx >= len(v.projects) {
		v.projectIdx = -1
		v.loading = false
		sel.Select("")
		v.state.ClearProjectContext()
		return nil
	}
	p := v.projects[idx]
	v.state.SetActiveProject(p)
	req := sel.Select(p.ID)
	v.loading = req != nil
	return runSelection(v.state, sel, req)
}

func (v *listView[T]) refresh() tea.Cmd {
	if !v.kind.scoped {
		v.loading = true
		return v.fetchItems()
	}
	sel := v.screen.Selection()
	req := sel.Refresh()
	v.loading = req != nil
	return runSelection(v.state, sel, req)
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *listView[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsFetchedMsg[T]:
		if msg.screen != v.screen {
			return v, nil
		}
		v.loading = false
		v.err = v.screen.Apply(msg.list, msg.err)
		v.clampCursor()
		return v, nil

	case projectChoicesMsg:
		if msg.target != v {
			return v, nil
		}
		if msg.err != nil {
			v.loading = false
			v.err = msg.err
			return v, nil
		}
		v.projects = msg.list
		return v, v.selectProject(v.initialProject())

	case selectionDoneMsg:
		if msg.sel != v.screen.Selection() || !msg.sel.Complete(msg.res) {
			return v, nil
		}
		v.loading = false
		v.err = msg.sel.Err()
		v.clampCursor()
		return v, nil

	case savedMsg[T]:
		if msg.screen != v.screen {
			return v, nil
		}
		return v, v.saved(msg)

	case deletedMsg[T]:
		if msg.screen != v.screen {
			return v, nil
		}
		v.err = v.screen.ApplyDelete(msg.del, msg.err)
		if v.err == nil {
			v.flash = formatter.Success("Deleted " + v.kind.name)
		}
		v.clampCursor()
		return v, nil

	case refreshViewMsg:
		return v, v.refresh()

	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

// initialProject prefers the project picked elsewhere in the session.
func (v *listView[T]) initialProject() int {
	if len(v.projects) == 0 {
		return -1
	}
	for i, p := range v.projects {
		if p.ID == v.state.ActiveProjectID {
			return i
		}
	}
	return 0
}

func (v *listView[T]) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := v.visibleItems()
	v.flash = ""

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case "a":
		return v, v.openAdd()
	case "enter", "e":
		if v.cursor < len(visible) {
			return v, v.openEdit(visible[v.cursor].EntityID())
		}
	case "d":
		if v.cursor < len(visible) {
			return v, v.confirmDelete(visible[v.cursor])
		}
	case "r":
		return v, v.refresh()
	case "/":
		v.filtering = true
		v.filter = ""
	}

	if v.kind.scoped && len(v.projects) > 0 {
		switch msg.String() {
		case "[":
			return v, v.selectProject((v.projectIdx - 1 + len(v.projects)) % len(v.projects))
		case "]":
			return v, v.selectProject((v.projectIdx + 1) % len(v.projects))
		case "c":
			return v, v.selectProject(-1)
		}
	}
	return v, nil
}

func (v *listView[T]) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter = ""
		v.cursor = 0
		return v, nil
	case tea.KeyEnter:
		v.filtering = false
		return v, nil
	case tea.KeyBackspace:
		if len(v.filter) > 0 {
			v.filter = v.filter[:len(v.filter)-1]
			v.cursor = 0
		}
	default:
		if len(msg.String()) == 1 {
			v.filter += msg.String()
			v.cursor = 0
		}
	}
	return v, nil
}

// ── form, save and delete ────────────────────────────────────────────────────

func (v *listView[T]) openAdd() tea.Cmd {
	draft := v.kind.defaults(v.screen.Parent(), v.screen.Items.Len(), v.state.User, v.state.Now())
	if err := v.screen.OpenForAdd(draft); err != nil {
		v.err = err
		return nil
	}
	return v.openForm(nil)
}

func (v *listView[T]) openEdit(id string) tea.Cmd {
	if err := v.screen.OpenForEdit(id); err != nil {
		v.err = err
		return nil
	}
	return v.openForm(nil)
}

// openForm shows the session's draft in a form. prev is the failure of
// the previous attempt, shown above the fields.
func (v *listView[T]) openForm(prev error) tea.Cmd {
	draft, ok := v.screen.Form.Draft()
	if !ok {
		return nil
	}
	adding := v.screen.Form.Mode() == form.Adding
	f, vals := entityForm(v.kind, draft, adding)

	title := "Edit " + v.kind.name
	if adding {
		title = "New " + v.kind.name
	}
	wv := newWizardView(v.state, title, f, func() tea.Cmd {
		if err := applyFormValues(vals, v.screen.Form); err != nil {
			return v.openForm(err)
		}
		return v.beginSave()
	}).onCancel(v.screen.Form.Cancel).withError(prev)
	return pushView(wv)
}

// beginSave validates the draft and sends it. A draft that fails
// validation goes back to the form unchanged.
func (v *listView[T]) beginSave() tea.Cmd {
	save, err := v.screen.Form.Begin()
	if err != nil {
		return v.openForm(err)
	}
	s, ctx := v.screen, v.state.Ctx
	return func() tea.Msg {
		e, err := save.Run(ctx)
		return savedMsg[T]{screen: s, save: save, entity: e, err: err}
	}
}

func (v *listView[T]) saved(msg savedMsg[T]) tea.Cmd {
	e, err := v.screen.Saved(msg.save, msg.entity, msg.err)
	switch {
	case errors.Is(err, form.ErrStale):
		return nil
	case errors.Is(err, domain.ErrSaveFailed):
		return v.openForm(err)
	case err != nil:
		v.err = err
		return nil
	}
	v.err = nil
	v.flash = formatter.Success("Saved " + v.kind.name + " " + v.kind.label(e))
	return nil
}

func (v *listView[T]) confirmDelete(e T) tea.Cmd {
	confirmed := false
	f := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s %s?", v.kind.name, v.kind.label(e))).
			Value(&confirmed),
	)).WithTheme(sprintboardHuhTheme()).WithShowHelp(false)

	id := e.EntityID()
	return pushView(newWizardView(v.state, "Delete "+v.kind.name, f, func() tea.Cmd {
		if !confirmed {
			return nil
		}
		return v.beginDelete(id)
	}))
}

func (v *listView[T]) beginDelete(id string) tea.Cmd {
	d, err := v.screen.BeginDelete(id)
	if err != nil {
		v.err = err
		return nil
	}
	s, ctx := v.screen, v.state.Ctx
	return func() tea.Msg {
		return deletedMsg[T]{screen: s, del: d, err: s.RemoteDelete(ctx, d)}
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *listView[T]) visibleItems() []T {
	items := v.screen.Items.Snapshot()
	if v.filter == "" {
		return items
	}
	lf := strings.ToLower(v.filter)
	var filtered []T
	for _, it := range items {
		if strings.Contains(strings.ToLower(v.kind.label(it)), lf) ||
			strings.Contains(strings.ToLower(it.EntityID()), lf) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

func (v *listView[T]) clampCursor() {
	if n := len(v.visibleItems()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *listView[T]) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if v.kind.scoped {
		b.WriteString("  " + v.renderProjectSwitcher() + "\n\n")
	}
	if v.kind.summary != nil {
		b.WriteString("  " + v.kind.summary(v.screen.Items.Snapshot()) + "\n\n")
	}
	if v.filtering || v.filter != "" {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.filter)
		if v.filtering {
			b.WriteString("█")
		}
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString("  " + formatter.Dim("Loading "+v.kind.plural+"...") + "\n")
	case v.kind.scoped && v.screen.Parent() == "":
		b.WriteString("  " + formatter.Dim("Select a project to see its "+v.kind.plural+".") + "\n")
	default:
		b.WriteString(v.renderTable())
	}

	if v.err != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render("Error: "+UserMessage(v.err)) + "\n")
	}
	if v.flash != "" {
		b.WriteString("\n  " + v.flash + "\n")
	}
	return b.String()
}

func (v *listView[T]) renderProjectSwitcher() string {
	label := formatter.Dim("Project:") + " "
	if v.projectIdx < 0 || v.projectIdx >= len(v.projects) {
		if len(v.projects) == 0 && !v.loading {
			return label + formatter.Dim("no projects yet")
		}
		return label + formatter.Dim("none selected")
	}
	p := v.projects[v.projectIdx]
	return label + formatter.Dim("‹ ") + formatter.StyleGreen.Render(p.DisplayName()) + formatter.Dim(" ›") +
		formatter.Dim(fmt.Sprintf("  (%d/%d)", v.projectIdx+1, len(v.projects)))
}

func (v *listView[T]) renderTable() string {
	visible := v.visibleItems()
	if len(visible) == 0 {
		return "  " + formatter.Dim("No "+v.kind.plural+" found.") + "\n"
	}

	now := v.state.Now()
	headers := append([]string{""}, v.kind.headers...)
	rows := make([][]string, 0, len(visible))
	for i, it := range visible {
		cursor := " "
		cells := v.kind.row(it, now)
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸")
		}
		rows = append(rows, append([]string{cursor}, cells...))
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(formatter.RenderTable(headers, rows), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
