package store

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/rs/zerolog"
)

// Guard decides what happens when a store operation reports DuplicateID or
// NotFound after a confirmed remote change. Such a violation means the cache
// and the server have drifted apart. In strict mode it panics; otherwise it
// is logged and swallowed so the user can keep working.
type Guard struct {
	Strict bool
	Logger zerolog.Logger
}

// Check returns err unchanged unless it is an invariant violation.
func (g Guard) Check(op string, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrDuplicateID) && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if g.Strict {
		panic(fmt.Sprintf("store invariant violated during %s: %v", op, err))
	}
	g.Logger.Warn().Err(err).Str("op", op).Msg("store out of sync with server")
	return nil
}
