package cli

import (
	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// wizardView wraps a huh.Form as a View on the navigation stack.
// When the form completes, it sends a wizardCompleteMsg with the
// done callback's result. Esc runs cancel instead.
type wizardView struct {
	state    *SharedState
	form     *huh.Form
	titleStr string
	errText  string
	done     func() tea.Cmd
	cancel   func()
	finished bool
}

func newWizardView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *wizardView {
	return &wizardView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

// onCancel registers the callback run when Esc abandons the form.
func (v *wizardView) onCancel(fn func()) *wizardView {
	v.cancel = fn
	return v
}

// withError shows a failure from the previous attempt above the form.
func (v *wizardView) withError(err error) *wizardView {
	if err != nil {
		v.errText = UserMessage(err)
	}
	return v
}

func (v *wizardView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.finished {
		return v, nil
	}
	// Escape cancels the wizard.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		v.finished = true
		if v.cancel != nil {
			v.cancel()
		}
		return v, func() tea.Msg {
			return wizardCompleteMsg{nextCmd: notify(formatter.Dim("Cancelled."))}
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.finished = true
		var doneCmd tea.Cmd
		if v.done != nil {
			doneCmd = v.done()
		}
		return v, func() tea.Msg {
			return wizardCompleteMsg{nextCmd: doneCmd}
		}
	}

	return v, cmd
}

func (v *wizardView) View() string {
	out := "\n"
	if v.errText != "" {
		out += "  " + formatter.Error(v.errText) + "\n\n"
	}
	return out + v.form.View()
}

func (v *wizardView) ID() ViewID    { return ViewForm }
func (v *wizardView) Title() string { return v.titleStr }
func (v *wizardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
