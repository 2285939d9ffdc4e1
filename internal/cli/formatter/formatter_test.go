package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/metrics"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestDueStyled(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-15 (In 2w)", stripANSI(DueStyled("2024-03-15", false, now)))
	assert.Equal(t, "2024-03-02 (Tomorrow)", stripANSI(DueStyled("2024-03-02T10:00:00Z", true, now)))
	assert.Equal(t, "--", stripANSI(DueStyled("", false, now)))
	assert.Equal(t, "soon", DueStyled("soon", false, now))
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "Sep 30, 2022", HumanDate("2022-09-30T08:00:00Z"))
	assert.Equal(t, "--", HumanDate(""))
	assert.Equal(t, "yesterday-ish", HumanDate("yesterday-ish"))
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status   domain.Status
		contains string
	}{
		{"Pending", "Pending"},
		{"in progress", "In Progress"},
		{"Done", "Completed"},
		{"Blocked", "Blocked"},
		{"", "--"},
	}
	for _, tt := range tests {
		assert.Contains(t, stripANSI(StatusPill(tt.status)), tt.contains)
	}
}

func TestPriorityBadge(t *testing.T) {
	assert.Equal(t, "▲ High", stripANSI(PriorityBadge(domain.PriorityHigh)))
	assert.Equal(t, "▼ Low", stripANSI(PriorityBadge(domain.PriorityLow)))
	assert.Equal(t, "--", stripANSI(PriorityBadge(domain.PriorityUnset)))
}

func TestRenderPoints(t *testing.T) {
	assert.Equal(t, "[██░░░░░░] 5/20 pts", stripANSI(RenderPoints(5, 20, 8)))
	assert.Equal(t, "[████] 30/20 pts", stripANSI(RenderPoints(30, 20, 4)))
	assert.Equal(t, "[░░] 3/0 pts", stripANSI(RenderPoints(3, 0, 1)))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{Bold("long cell"), "x"}, {"s", "y"}}))
	assert.Equal(t, "A          B\n─────────  ─\nlong cell  x\ns          y\n", out)
}

func TestFormatBacklogList_ShowsCards(t *testing.T) {
	items := []domain.BacklogItem{
		{ID: "PB-1", Title: "a", Status: "Pending", Priority: domain.PriorityHigh},
		{ID: "PB-2", Title: "b", Status: "InProgress", Priority: domain.PriorityLow},
	}
	out := stripANSI(FormatBacklogList(items))
	assert.Contains(t, out, "Open 2")
	assert.Contains(t, out, "High Priority 1")
	assert.Contains(t, out, "In Progress 1")
	assert.Contains(t, out, "Total 2")
	assert.Contains(t, out, "PB-2")
}

func TestFormatDashboardSummary(t *testing.T) {
	sum := metrics.DashboardSummary{
		OpenSprints: 2,
		StoryPoints: 30,
		Velocity:    12.5,
		Current:     &metrics.Progress{Sprint: domain.Sprint{Name: "S4"}, Closed: 5, Planned: 20},
	}
	out := stripANSI(FormatDashboardSummary(sum, metrics.Last30Days))
	assert.Contains(t, out, "Open Sprints 2")
	assert.Contains(t, out, "Velocity (last 30 days) 12.5")
	assert.Contains(t, out, "S4")
	assert.Contains(t, out, "5/20 pts")

	out = stripANSI(FormatDashboardSummary(metrics.DashboardSummary{}, metrics.Last7Days))
	assert.Contains(t, out, "No sprint in progress.")
}

func TestFormatBoard(t *testing.T) {
	cols := metrics.Board([]domain.Task{
		{Title: "write", Status: "Pending", StoryPoints: 3},
		{Title: "ship", Status: "Completed"},
	}, "")
	out := stripANSI(FormatBoard(cols))
	assert.Contains(t, out, "TO DO (1)\n  • write [3]\n")
	assert.Contains(t, out, "IN PROGRESS (0)\n  empty\n")
	assert.Contains(t, out, "DONE (1)\n  • ship\n")
}
