package metrics

import (
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// BacklogSummary backs the product backlog summary cards.
type BacklogSummary struct {
	Open         int
	HighPriority int
	InProgress   int
	Total        int
}

func Backlog(items []domain.BacklogItem) BacklogSummary {
	return BacklogSummary{
		Open:         Open(items),
		HighPriority: HighPriority(items),
		InProgress:   InProgress(items),
		Total:        Total(items),
	}
}

// SprintSummary backs the sprint backlog summary cards.
type SprintSummary struct {
	Current   int
	Completed int
	Total     int
}

func Sprints(items []domain.Sprint) SprintSummary {
	return SprintSummary{
		Current:   InProgress(items),
		Completed: Completed(items),
		Total:     Total(items),
	}
}

// Period is the dashboard's look-back window in days.
type Period int

const (
	Last90Days Period = 90
	Last30Days Period = 30
	Last7Days  Period = 7
)

// Periods lists the selectable windows in display order.
var Periods = []Period{Last90Days, Last30Days, Last7Days}

func (p Period) String() string {
	switch p {
	case Last90Days:
		return "Last 90 days"
	case Last30Days:
		return "Last 30 days"
	case Last7Days:
		return "Last 7 days"
	}
	return "Custom"
}

// Next cycles through Periods.
func (p Period) Next() Period {
	for i, q := range Periods {
		if q == p {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return Periods[0]
}

// Contains reports whether t falls within the window ending at now.
func (p Period) Contains(t, now time.Time) bool {
	start := now.AddDate(0, 0, -int(p))
	return !t.Before(start) && !t.After(now)
}

// Progress is the closed/planned story points of one sprint.
type Progress struct {
	Sprint  domain.Sprint
	Closed  int
	Planned int
}

// Ratio is Closed/Planned clamped to [0,1]; zero when nothing is planned.
func (p Progress) Ratio() float64 {
	if p.Planned <= 0 {
		return 0
	}
	r := float64(p.Closed) / float64(p.Planned)
	if r > 1 {
		return 1
	}
	return r
}

// DashboardSummary backs the dashboard header cards.
type DashboardSummary struct {
	OpenSprints int
	// StoryPoints is the planned points across open sprints.
	StoryPoints int
	// Velocity is the mean closed points of sprints completed in the period.
	Velocity float64
	// Current is the first in-progress sprint, nil if none.
	Current *Progress
}

func Dashboard(sprints []domain.Sprint, period Period, now time.Time) DashboardSummary {
	open := Filter(sprints, func(s domain.Sprint) bool {
		st := s.CurrentStatus()
		return st != domain.StatusUnknown && st != domain.StatusCompleted
	})
	sum := DashboardSummary{
		OpenSprints: len(open),
		StoryPoints: Sum(open, domain.Sprint.Points),
		Velocity:    Velocity(sprints, period, now),
	}
	for _, s := range sprints {
		if s.CurrentStatus() == domain.StatusInProgress {
			sum.Current = &Progress{Sprint: s, Closed: s.StoryPointsClosed, Planned: s.StoryPoints}
			break
		}
	}
	return sum
}

// Velocity averages closed story points over completed sprints whose due
// date falls inside the period. Sprints without a parseable date are skipped.
func Velocity(sprints []domain.Sprint, period Period, now time.Time) float64 {
	done := Filter(sprints, func(s domain.Sprint) bool {
		if s.CurrentStatus() != domain.StatusCompleted {
			return false
		}
		due, ok := domain.ParseDate(s.Due())
		return ok && period.Contains(due, now)
	})
	if len(done) == 0 {
		return 0
	}
	return float64(Sum(done, domain.Sprint.ClosedPoints)) / float64(len(done))
}
