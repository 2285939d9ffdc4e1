package cli

import (
	"errors"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/charmbracelet/huh"
)

// errCancelled ends a command whose interactive form was aborted.
var errCancelled = errors.New("cancelled")

// UserMessage reduces err to the single line shown to the user. Remote
// failures already carry a safe message; everything else is shown as is.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, errCancelled):
		return "cancelled"
	case errors.Is(err, domain.ErrNoParentSelected):
		return "select a project first (--project)"
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}
