package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack whose bottom is always the dashboard.
//
// Remote calls run as tea.Cmds off the event loop. Their completion
// messages are broadcast to every view on the stack and applied in
// Update, so all state changes happen on the event loop one at a time.
// Each view recognises its own completions by the screen or controller
// they carry.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	// One-line notice in the status bar, cleared by the next key press.
	notice string
}

func newAppModel(ctx context.Context, app *App) (appModel, error) {
	b, err := app.Backend()
	if err != nil {
		return appModel{}, err
	}
	state := &SharedState{
		App:     app,
		Backend: b,
		User:    app.User(),
		Ctx:     ctx,
	}
	m := appModel{state: state}

	// Start with the dashboard as the home view.
	m.viewStack = []View{newDashboardView(state)}
	return m, nil
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Navigation messages from views
	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case cmdOutputMsg:
		m.notice = msg.output
		return m, nil

	case wizardCompleteMsg:
		// Atomically pop the wizard view and execute the follow-up command.
		if v := m.activeView(); v != nil && v.ID() == ViewForm && len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	// Remote completions, refreshes and component ticks go to every view.
	return m, m.broadcast(msg)
}

// broadcast delivers msg to all views in the stack, bottom to top.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	m.notice = ""

	// If active view captures input (form, filter), forward directly.
	// This bypasses global keybindings so 'q', digits and Esc reach it.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.String() == "1":
		return m, m.openSection(ViewDashboard)
	case msg.String() == "2":
		return m, m.openSection(ViewProjects)
	case msg.String() == "3":
		return m, m.openSection(ViewBacklog)
	case msg.String() == "4":
		return m, m.openSection(ViewSprints)

	case msg.Type == tea.KeyEsc:
		// Pop view stack (go back)
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

// openSection shows one of the top-level screens directly above the
// dashboard. Reopening the visible section is a no-op; returning to the
// dashboard refreshes it so it follows the project picked elsewhere.
func (m *appModel) openSection(id ViewID) tea.Cmd {
	if v := m.activeView(); v != nil && v.ID() == id {
		return nil
	}
	m.viewStack = m.viewStack[:1]
	var v View
	switch id {
	case ViewDashboard:
		return func() tea.Msg { return refreshViewMsg{} }
	case ViewProjects:
		v = newProjectListView(m.state)
	case ViewBacklog:
		v = newBacklogView(m.state)
	case ViewSprints:
		v = newSprintListView(m.state)
	default:
		return nil
	}
	m.viewStack = append(m.viewStack, v)
	return v.Init()
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("sprintboard")

	// Breadcrumb from view stack
	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	breadcrumb := ""
	if len(crumbs) > 0 {
		breadcrumb = " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	header := title + breadcrumb
	if m.state.ActiveProjectID != "" {
		proj := formatter.StyleGreen.Render(m.state.ActiveProjectTitle)
		header += "  " + formatter.Dim("[") + proj + formatter.Dim("]")
	}
	if m.state.User.Name != "" {
		header += "  " + formatter.Dim(m.state.User.Name)
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if m.notice != "" {
		hints = append(hints, m.notice)
	}
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if !viewCapturesInput(m.activeView()) {
		if len(m.viewStack) > 1 {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim("1-4: screens"), formatter.Dim("q: quit"))
	}

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events (bypassing global keybindings like q/Esc).
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	if v.ID() == ViewForm {
		return true
	}
	c, ok := v.(inputCapturer)
	return ok && c.CapturesInput()
}
