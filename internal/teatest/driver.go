// Package teatest drives bubbletea models synchronously in tests.
//
// The Driver stands in for tea.Program: it calls Update directly and runs
// the returned Cmds on the test goroutine, depth first, until nothing is
// left. Messages can be held back and delivered later in any order, which
// lets tests reproduce remote replies that arrive out of order.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxSteps bounds the number of Cmds one drain may run.
const MaxSteps = 500

// cmdTimeout is how long a Cmd may block before it is dropped. In-memory
// fakes answer in microseconds; cursor blink Cmds block for about 530ms.
const cmdTimeout = 100 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records a tea.QuitMsg. The runtime would swallow it, so the
	// model may never see it.
	Quitting bool

	hold    func(tea.Msg) bool
	pending []tea.Msg
}

// Option configures a Driver in New.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model. Init is not run until DrainInit.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init Cmd to completion.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init())
}

// Send delivers msg and runs whatever it leads to. Nothing is delivered
// after a quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.run(d.update(msg))
}

// Exec runs cmd as the runtime would.
func (d *Driver) Exec(cmd tea.Cmd) {
	d.T.Helper()
	d.run(cmd)
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Hold captures every produced message matching match instead of
// delivering it. Captured messages wait in Pending until Deliver.
func (d *Driver) Hold(match func(tea.Msg) bool) {
	d.hold = match
}

// Resume stops capturing. Messages already pending stay pending.
func (d *Driver) Resume() {
	d.hold = nil
}

// Pending returns the captured messages in capture order.
func (d *Driver) Pending() []tea.Msg {
	return append([]tea.Msg(nil), d.pending...)
}

// Deliver removes the i-th pending message and sends it.
func (d *Driver) Deliver(i int) {
	d.T.Helper()
	if i < 0 || i >= len(d.pending) {
		d.T.Fatalf("teatest: no pending message %d (have %d)", i, len(d.pending))
	}
	msg := d.pending[i]
	d.pending = append(d.pending[:i], d.pending[i+1:]...)
	d.Send(msg)
}

// ── keys ─────────────────────────────────────────────────────────────────────

func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
}

func (d *Driver) PressBackspace() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyBackspace})
}

// ── draining ─────────────────────────────────────────────────────────────────

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	return cmd
}

// run executes cmd and everything it produces. Follow-up Cmds go to the
// front of the work list so a message's consequences settle before its
// batch siblings run.
func (d *Driver) run(cmd tea.Cmd) {
	d.T.Helper()
	work := []tea.Cmd{cmd}
	for steps := 0; len(work) > 0; steps++ {
		if steps == MaxSteps {
			d.T.Logf("teatest: gave up after %d commands", MaxSteps)
			return
		}
		next := work[0]
		work = work[1:]
		if next == nil {
			continue
		}

		msg := call(next)
		switch m := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			work = append(append([]tea.Cmd(nil), m...), work...)
			continue
		case tea.QuitMsg:
			d.Quitting = true
			d.update(m)
			return
		}
		if isBlink(msg) {
			continue
		}
		if d.hold != nil && d.hold(msg) {
			d.pending = append(d.pending, msg)
			continue
		}
		work = append([]tea.Cmd{d.update(msg)}, work...)
	}
}

// call runs cmd off the test goroutine and gives up after cmdTimeout.
func call(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages of bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
