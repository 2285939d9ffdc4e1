package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App     *App
	Backend Backend
	User    domain.User

	// Ctx bounds every remote call started by a view.
	Ctx context.Context

	// Active project context, shared by the dashboard and the child screens
	ActiveProjectID    string
	ActiveProjectTitle string

	// Terminal dimensions
	Width  int
	Height int
}

// SetActiveProject records the project the user last picked.
func (s *SharedState) SetActiveProject(p domain.Project) {
	s.ActiveProjectID = p.ID
	s.ActiveProjectTitle = p.DisplayName()
}

// ClearProjectContext resets the active project.
func (s *SharedState) ClearProjectContext() {
	s.ActiveProjectID = ""
	s.ActiveProjectTitle = ""
}

func (s *SharedState) Now() time.Time {
	return s.App.Now()
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
