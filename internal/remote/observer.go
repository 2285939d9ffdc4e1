package remote

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CallEvent describes one finished API call.
type CallEvent struct {
	Op       string
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// Observer receives an event after every API call.
type Observer interface {
	ObserveCall(ctx context.Context, event CallEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveCall(context.Context, CallEvent) {}

type logObserver struct {
	logger zerolog.Logger
}

// NewLogObserver logs calls at debug level and failures at warn level with
// their underlying cause.
func NewLogObserver(logger zerolog.Logger) Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) ObserveCall(_ context.Context, ev CallEvent) {
	e := o.logger.Debug()
	if ev.Err != nil {
		e = o.logger.Warn().Err(ev.Err).AnErr("cause", unwrapAll(ev.Err))
	}
	e.Str("op", ev.Op).
		Str("method", ev.Method).
		Str("path", ev.Path).
		Int("status", ev.Status).
		Dur("duration", ev.Duration).
		Msg("remote_call")
}

func unwrapAll(err error) error {
	for {
		next, ok := err.(interface{ Unwrap() error })
		if !ok || next.Unwrap() == nil {
			return err
		}
		err = next.Unwrap()
	}
}
