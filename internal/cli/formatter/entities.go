package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/metrics"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders projects inside a bordered box.
func FormatProjectList(projects []domain.Project) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Add one with: sprintboard project add"))
	}
	headers := []string{"ID", "TITLE", "OWNER", "TEAM", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		team := Dim("--")
		if len(p.Team) > 0 {
			team = strings.Join(p.Team, ", ")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.DisplayName()),
			p.Owner,
			team,
			HumanDate(p.CreatedAt),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatBacklogList renders backlog items with their summary cards.
func FormatBacklogList(items []domain.BacklogItem) string {
	var b strings.Builder
	b.WriteString(FormatBacklogSummary(metrics.Backlog(items)))
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString(Dim("Backlog is empty."))
		return RenderBox("Product Backlog", b.String())
	}
	headers := []string{"ID", "TITLE", "PRIORITY", "STATUS", "POINTS", "CREATED"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			StyleGreen.Render(it.ID),
			Bold(it.Title),
			PriorityBadge(it.Priority),
			StatusPill(it.Status),
			Points(it.StoryPoints),
			HumanDate(it.CreatedAt),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox("Product Backlog", b.String())
}

// FormatBacklogSummary renders the open, high priority, in progress and
// total cards on one line.
func FormatBacklogSummary(s metrics.BacklogSummary) string {
	return cards(
		card("Open", s.Open, StyleBlue),
		card("High Priority", s.HighPriority, StyleRed),
		card("In Progress", s.InProgress, StyleGreen),
		card("Total", s.Total, StyleFg),
	)
}

// FormatSprintList renders the sprint backlog with its summary cards.
func FormatSprintList(sprints []domain.Sprint, now time.Time) string {
	var b strings.Builder
	b.WriteString(FormatSprintSummary(metrics.Sprints(sprints)))
	b.WriteString("\n\n")
	if len(sprints) == 0 {
		b.WriteString(Dim("No sprints for this project."))
		return RenderBox("Sprints", b.String())
	}
	headers := []string{"ID", "NAME", "STATUS", "START", "END"}
	rows := make([][]string, 0, len(sprints))
	for _, s := range sprints {
		done := s.CurrentStatus() == domain.StatusCompleted
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Label()),
			StatusPill(s.Status),
			domain.FormatDate(s.StartDate),
			DueStyled(s.EndDate, done, now),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox("Sprints", b.String())
}

// FormatSprintSummary renders the current, completed and total cards.
func FormatSprintSummary(s metrics.SprintSummary) string {
	return cards(
		card("Current", s.Current, StyleGreen),
		card("Completed", s.Completed, StyleDim),
		card("Total", s.Total, StyleFg),
	)
}

// FormatTaskList renders tasks as a table.
func FormatTaskList(title string, tasks []domain.Task) string {
	if len(tasks) == 0 {
		return RenderBox(title, Dim("No tasks."))
	}
	headers := []string{"ID", "TITLE", "STATUS", "SPRINT", "ASSIGNEE", "POINTS"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		sprint := Dim("--")
		if t.Sprint != "" {
			sprint = TruncID(t.Sprint)
		}
		assignee := Dim("--")
		if t.Assignee != "" {
			assignee = TruncID(t.Assignee)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Title),
			StatusPill(t.Status),
			sprint,
			assignee,
			Points(t.StoryPoints),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatDashboardSummary renders the dashboard header cards and the current
// sprint's progress bar.
func FormatDashboardSummary(s metrics.DashboardSummary, period metrics.Period) string {
	var b strings.Builder
	b.WriteString(cards(
		card("Open Sprints", s.OpenSprints, StyleBlue),
		card("Story Points", s.StoryPoints, StyleYellow),
		StyleDim.Render("Velocity ("+strings.ToLower(period.String())+") ")+
			StyleGreen.Render(fmt.Sprintf("%.1f", s.Velocity)),
	))
	b.WriteString("\n")
	if s.Current == nil {
		b.WriteString(Dim("No sprint in progress."))
		return b.String()
	}
	fmt.Fprintf(&b, "%s %s  %s",
		Dim("Current:"), Bold(s.Current.Sprint.Label()),
		RenderPoints(s.Current.Closed, s.Current.Planned, 20))
	return b.String()
}

// FormatOpenSprints renders the dashboard's open sprint table.
func FormatOpenSprints(sprints []domain.Sprint, now time.Time) string {
	if len(sprints) == 0 {
		return Dim("No open sprints.")
	}
	headers := []string{"MILESTONE", "STATUS", "DUE", "CAPACITY", "POINTS", "CLOSED"}
	rows := make([][]string, 0, len(sprints))
	for _, s := range sprints {
		milestone := s.Milestone
		if milestone == "" {
			milestone = s.Label()
		}
		rows = append(rows, []string{
			Bold(milestone),
			StatusPill(s.Status),
			DueStyled(s.Due(), false, now),
			Points(s.Capacity),
			Points(s.StoryPoints),
			Points(s.StoryPointsClosed),
		})
	}
	return RenderTable(headers, rows)
}

// FormatBoard renders the task board lanes one after another.
func FormatBoard(cols []metrics.Column) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(strings.ToUpper(col.Title)), Dim(fmt.Sprintf("(%d)", len(col.Tasks))))
		if len(col.Tasks) == 0 {
			b.WriteString("  " + Dim("empty") + "\n")
			continue
		}
		for _, t := range col.Tasks {
			line := "  • " + t.Title
			if t.StoryPoints > 0 {
				line += " " + Dim(fmt.Sprintf("[%d]", t.StoryPoints))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// FormatUser renders whoami output.
func FormatUser(u domain.User, apiURL string, expires *time.Time) string {
	lines := []string{
		Dim("User:    ") + Bold(u.Name) + " " + Dim("<"+u.Email+">"),
		Dim("ID:      ") + u.ID,
		Dim("Server:  ") + apiURL,
	}
	if expires != nil {
		lines = append(lines, Dim("Expires: ")+expires.Local().Format("Jan 2, 2006 15:04"))
	}
	return strings.Join(lines, "\n")
}

func card(label string, n int, style lipgloss.Style) string {
	return StyleDim.Render(label+" ") + style.Render(fmt.Sprintf("%d", n))
}

func cards(parts ...string) string {
	return strings.Join(parts, Dim("  │  "))
}
