// Package screen glues one entity store, its form session and the remote
// collection together. Stores change only after the server confirms a
// create, update or delete.
package screen

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/selection"
	"github.com/alexanderramin/sprintboard/internal/store"
)

// Collection is the remote side of one entity kind.
type Collection[T any] interface {
	form.Saver[T]
	List(ctx context.Context, parentID string) ([]T, error)
	Delete(ctx context.Context, parentID, id string) error
}

// Screen is the CRUD state of one list view. Root kinds (projects) are
// fetched directly; child kinds are fetched through a selection controller
// keyed by the parent project.
type Screen[T domain.Record[T]] struct {
	Name  string
	Items *store.Store[T]
	Form  *form.Session[T]

	remote Collection[T]
	guard  store.Guard
	sel    *selection.Controller
}

// New creates a screen for a root entity kind.
func New[T domain.Record[T]](name string, remote Collection[T], required []string, guard store.Guard, opts ...form.Option) *Screen[T] {
	return &Screen[T]{
		Name:   name,
		Items:  store.New[T](),
		Form:   form.New[T](remote, required, opts...),
		remote: remote,
		guard:  guard,
	}
}

// NewScoped creates a screen whose items are listed per selected parent.
func NewScoped[T domain.Record[T]](name string, remote Collection[T], required []string, guard store.Guard, opts ...form.Option) *Screen[T] {
	s := New(name, remote, required, guard, opts...)
	s.sel = selection.New()
	selection.Bind[T](s.sel, name, remote.List, s.Items)
	return s
}

// Scoped reports whether the screen lists items per parent.
func (s *Screen[T]) Scoped() bool { return s.sel != nil }

// Selection is the parent selection controller, nil for root kinds.
func (s *Screen[T]) Selection() *selection.Controller { return s.sel }

// Parent is the selected parent id; always empty for root kinds.
func (s *Screen[T]) Parent() string {
	if s.sel == nil {
		return ""
	}
	return s.sel.Parent()
}

// Fetch lists a root collection. It touches no screen state.
func (s *Screen[T]) Fetch(ctx context.Context) ([]T, error) {
	return s.remote.List(ctx, "")
}

// Apply loads the outcome of Fetch. On error the current items are kept.
func (s *Screen[T]) Apply(list []T, err error) error {
	if err != nil {
		return err
	}
	return s.Items.Load(list)
}

// Load fetches the items: the whole collection for root kinds, the current
// parent's children otherwise.
func (s *Screen[T]) Load(ctx context.Context) error {
	if s.sel != nil {
		return s.sel.RefreshAndWait(ctx)
	}
	return s.Apply(s.Fetch(ctx))
}

// OpenForAdd opens the form for a new item. Child kinds get the selected
// parent filled in when defaults leave it empty, and fail with
// domain.ErrNoParentSelected when there is none.
func (s *Screen[T]) OpenForAdd(defaults T) error {
	if s.sel != nil {
		child, ok := any(defaults).(domain.Child)
		if ok && child.ParentID() == "" {
			if s.sel.Parent() == "" {
				return domain.ErrNoParentSelected
			}
			d, err := defaults.WithField(child.ParentField(), s.sel.Parent())
			if err != nil {
				return err
			}
			defaults = d
		}
	}
	s.Form.OpenForAdd(defaults)
	return nil
}

// OpenForEdit opens the form on the stored item with the given id.
func (s *Screen[T]) OpenForEdit(id string) error {
	e, ok := s.Items.Get(id)
	if !ok {
		return domain.ErrNotFound
	}
	s.Form.OpenForEdit(e)
	return nil
}

// Saved finishes a form save and, when it succeeded, applies the server's
// entity to the store. A child saved under a parent that is no longer
// selected is confirmed but not added to the visible list.
func (s *Screen[T]) Saved(save *form.Save[T], e T, err error) (T, error) {
	saved, err := s.Form.Finish(save, e, err)
	if err != nil {
		return saved, err
	}
	if s.sel != nil && save.ParentID() != s.sel.Parent() {
		return saved, nil
	}
	if save.Mode() == form.Editing {
		return saved, s.guard.Check("replace "+s.Name, s.Items.Replace(save.ID(), saved))
	}
	return saved, s.guard.Check("append "+s.Name, s.Items.Append(saved))
}

// Submit validates, saves and applies in one synchronous call.
func (s *Screen[T]) Submit(ctx context.Context) (T, error) {
	save, err := s.Form.Begin()
	if err != nil {
		var zero T
		return zero, err
	}
	e, err := save.Run(ctx)
	return s.Saved(save, e, err)
}

// Deletion is a confirmed-by-user delete on its way to the server.
type Deletion struct {
	ParentID string
	ID       string
}

// BeginDelete prepares the removal of a stored item.
func (s *Screen[T]) BeginDelete(id string) (Deletion, error) {
	if s.sel != nil && s.sel.Parent() == "" {
		return Deletion{}, domain.ErrNoParentSelected
	}
	if !s.Items.Contains(id) {
		return Deletion{}, domain.ErrNotFound
	}
	return Deletion{ParentID: s.Parent(), ID: id}, nil
}

// RemoteDelete performs the remote call. It touches no screen state.
func (s *Screen[T]) RemoteDelete(ctx context.Context, d Deletion) error {
	return s.remote.Delete(ctx, d.ParentID, d.ID)
}

// ApplyDelete removes the item once the server confirmed the delete.
func (s *Screen[T]) ApplyDelete(d Deletion, err error) error {
	if err != nil {
		return err
	}
	if s.sel != nil && d.ParentID != s.sel.Parent() {
		return nil
	}
	return s.guard.Check("remove "+s.Name, s.Items.Remove(d.ID))
}

// Delete removes an item on the server and then from the store.
func (s *Screen[T]) Delete(ctx context.Context, id string) error {
	d, err := s.BeginDelete(id)
	if err != nil {
		return err
	}
	return s.ApplyDelete(d, s.RemoteDelete(ctx, d))
}
