// Package form holds the add/edit state of one entity form.
//
// A Session is independent of any store. Submitting is split in three steps
// so the remote call can run off the event loop: Begin validates and
// snapshots the draft, Save.Run talks to the server, and Finish applies the
// outcome back on the event loop. Submit chains the three for synchronous
// callers.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Mode is the session state.
type Mode int

const (
	Closed Mode = iota
	Adding
	Editing
)

func (m Mode) String() string {
	switch m {
	case Adding:
		return "adding"
	case Editing:
		return "editing"
	}
	return "closed"
}

// ErrStale is returned by Finish for a save that was superseded by Cancel
// or by reopening the form. Callers drop such results.
var ErrStale = errors.New("form session superseded")

// Saver is the remote side of a form: create in add mode, update in edit mode.
type Saver[T any] interface {
	Create(ctx context.Context, parentID string, draft T) (T, error)
	Update(ctx context.Context, parentID, id string, draft T) (T, error)
}

// Option configures a Session.
type Option func(*options)

type options struct {
	parentExists func(id string) bool
	addRequired  []string
}

// WithParentCheck rejects drafts whose parent reference does not resolve.
func WithParentCheck(exists func(id string) bool) Option {
	return func(o *options) { o.parentExists = exists }
}

// WithAddRequired adds fields that are only required when adding, such as a
// user-supplied id.
func WithAddRequired(fields ...string) Option {
	return func(o *options) { o.addRequired = append(o.addRequired, fields...) }
}

// Session is the state of one entity form.
type Session[T domain.Record[T]] struct {
	saver    Saver[T]
	required []string
	opts     options

	mode   Mode
	draft  T
	editID string
	gen    uint64
}

// New creates a closed session validating against required.
func New[T domain.Record[T]](saver Saver[T], required []string, opts ...Option) *Session[T] {
	s := &Session[T]{saver: saver, required: required}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

func (s *Session[T]) Mode() Mode   { return s.mode }
func (s *Session[T]) IsOpen() bool { return s.mode != Closed }

// Draft returns the current draft and whether the session is open.
func (s *Session[T]) Draft() (T, bool) {
	return s.draft, s.IsOpen()
}

// EditingID is the id of the entity being edited, or "" in add mode.
func (s *Session[T]) EditingID() string { return s.editID }

// OpenForAdd opens the form with a draft seeded from defaults.
func (s *Session[T]) OpenForAdd(defaults T) {
	s.gen++
	s.mode = Adding
	s.draft = defaults
	s.editID = ""
}

// OpenForEdit opens the form with a copy of e.
func (s *Session[T]) OpenForEdit(e T) {
	s.gen++
	s.mode = Editing
	s.draft = e
	s.editID = e.EntityID()
}

// SetField assigns one draft field. It does nothing when the session is
// closed. A malformed value leaves the draft unchanged.
func (s *Session[T]) SetField(name, value string) error {
	if s.mode == Closed {
		return nil
	}
	next, err := s.draft.WithField(name, value)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// Cancel closes the session and discards the draft.
func (s *Session[T]) Cancel() {
	s.gen++
	s.mode = Closed
	var zero T
	s.draft = zero
	s.editID = ""
}

// Begin validates the draft. On success it returns a Save holding a
// snapshot of the draft; the session stays open until Finish.
func (s *Session[T]) Begin() (*Save[T], error) {
	if s.mode == Closed {
		return nil, domain.ErrFormClosed
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	save := &Save[T]{
		saver: s.saver,
		mode:  s.mode,
		draft: s.draft,
		id:    s.editID,
		gen:   s.gen,
	}
	if child, ok := any(s.draft).(domain.Child); ok {
		save.parentID = child.ParentID()
	}
	return save, nil
}

func (s *Session[T]) validate() error {
	required := s.required
	if s.mode == Adding && len(s.opts.addRequired) > 0 {
		required = append(append([]string(nil), s.required...), s.opts.addRequired...)
	}
	err := domain.Validate(s.draft, required)
	var ve *domain.ValidationError
	if err != nil && !errors.As(err, &ve) {
		return err
	}
	if s.opts.parentExists != nil {
		if child, ok := any(s.draft).(domain.Child); ok {
			if pid := child.ParentID(); pid != "" && !s.opts.parentExists(pid) {
				if ve == nil {
					ve = &domain.ValidationError{}
				}
				ve.Invalid = append(ve.Invalid, child.ParentField())
			}
		}
	}
	if ve != nil {
		return ve
	}
	return nil
}

// Finish applies the outcome of save.Run. On success the session closes and
// the server's entity is returned. On failure the session stays open with
// the draft intact and the error wraps domain.ErrSaveFailed.
func (s *Session[T]) Finish(save *Save[T], e T, err error) (T, error) {
	var zero T
	if save == nil || save.gen != s.gen || s.mode == Closed {
		return zero, ErrStale
	}
	if err != nil {
		return zero, fmt.Errorf("%w: %w", domain.ErrSaveFailed, err)
	}
	s.mode = Closed
	s.draft = zero
	s.editID = ""
	s.gen++
	return e, nil
}

// Submit validates, saves and finishes in one synchronous call.
func (s *Session[T]) Submit(ctx context.Context) (T, error) {
	save, err := s.Begin()
	if err != nil {
		var zero T
		return zero, err
	}
	e, err := save.Run(ctx)
	return s.Finish(save, e, err)
}

// Save is a validated draft on its way to the server.
type Save[T any] struct {
	saver    Saver[T]
	mode     Mode
	parentID string
	id       string
	draft    T
	gen      uint64
}

func (p *Save[T]) Mode() Mode       { return p.mode }
func (p *Save[T]) ParentID() string { return p.parentID }

// ID is the id of the edited entity; empty when adding.
func (p *Save[T]) ID() string { return p.id }
func (p *Save[T]) Draft() T   { return p.draft }

// Run performs the remote call. It does not touch the session.
func (p *Save[T]) Run(ctx context.Context) (T, error) {
	if p.mode == Editing {
		return p.saver.Update(ctx, p.parentID, p.id, p.draft)
	}
	return p.saver.Create(ctx, p.parentID, p.draft)
}
