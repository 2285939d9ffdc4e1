package teatest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replyMsg struct{ n int }

// recorder appends every reply it sees and answers "x" with two replies.
type recorder struct {
	seen []int
}

func (r *recorder) Init() tea.Cmd { return nil }

func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		r.seen = append(r.seen, msg.n)
	case tea.KeyMsg:
		switch msg.String() {
		case "x":
			return r, tea.Batch(
				func() tea.Msg { return replyMsg{1} },
				func() tea.Msg { return replyMsg{2} },
			)
		case "q":
			return r, tea.Quit
		}
	}
	return r, nil
}

func (r *recorder) View() string { return "" }

func isReply(msg tea.Msg) bool {
	_, ok := msg.(replyMsg)
	return ok
}

func TestDriver_DrainsBatches(t *testing.T) {
	r := &recorder{}
	d := New(t, r)

	d.PressKey('x')
	assert.Equal(t, []int{1, 2}, r.seen)
}

func TestDriver_HoldAndDeliverOutOfOrder(t *testing.T) {
	r := &recorder{}
	d := New(t, r)

	d.Hold(isReply)
	d.PressKey('x')
	assert.Empty(t, r.seen)
	require.Len(t, d.Pending(), 2)

	d.Deliver(1)
	d.Deliver(0)
	assert.Equal(t, []int{2, 1}, r.seen)
	assert.Empty(t, d.Pending())

	d.Resume()
	d.PressKey('x')
	assert.Equal(t, []int{2, 1, 1, 2}, r.seen)
}

func TestDriver_Quit(t *testing.T) {
	d := New(t, &recorder{})
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d.PressKey('x')
	assert.Empty(t, d.Model.(*recorder).seen, "nothing is delivered after quit")
}
