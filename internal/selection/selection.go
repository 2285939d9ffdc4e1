// Package selection tracks the selected parent entity (a project) and keeps
// the dependent stores (sprints, tasks, backlog) loaded for it.
//
// The controller itself never blocks. Select and Refresh return a Request
// that the caller runs off the event loop; the Result is handed back through
// Complete on the event loop. Every request carries a generation number and
// Complete drops results whose generation is no longer current, so only the
// most recently issued fetch can change state.
package selection

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/store"
)

// State is the controller's lifecycle state.
type State int

const (
	NoSelection State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case NoSelection:
		return "no selection"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ListFunc fetches the children of a parent.
type ListFunc[T any] func(ctx context.Context, parentID string) ([]T, error)

// dependent erases the element type of a bound store.
type dependent interface {
	label() string
	fetch(ctx context.Context, parentID string) (any, error)
	check(data any) error
	apply(data any) error
	clear()
}

type binding[T domain.Entity] struct {
	name  string
	list  ListFunc[T]
	store *store.Store[T]
}

func (b *binding[T]) label() string { return b.name }

func (b *binding[T]) fetch(ctx context.Context, parentID string) (any, error) {
	return b.list(ctx, parentID)
}

func (b *binding[T]) check(data any) error {
	return store.CheckUnique(data.([]T))
}

func (b *binding[T]) apply(data any) error {
	return b.store.Load(data.([]T))
}

func (b *binding[T]) clear() { b.store.Clear() }

// Controller coordinates one parent selection with its dependent stores.
type Controller struct {
	state  State
	parent string
	gen    uint64
	err    error
	deps   []dependent
}

// New returns a controller in the NoSelection state.
func New() *Controller {
	return &Controller{}
}

// Bind registers a dependent store that is reloaded on every selection.
func Bind[T domain.Entity](c *Controller, name string, list ListFunc[T], st *store.Store[T]) {
	c.deps = append(c.deps, &binding[T]{name: name, list: list, store: st})
}

func (c *Controller) State() State   { return c.state }
func (c *Controller) Parent() string { return c.parent }

// Err is the error that moved the controller to Failed, if any.
func (c *Controller) Err() error { return c.err }

// Select changes the selected parent. An empty id clears every dependent
// store without a fetch. Selecting the parent that is already Ready or
// Loading is a no-op and returns nil.
func (c *Controller) Select(parentID string) *Request {
	if parentID == "" {
		c.gen++
		c.state = NoSelection
		c.parent = ""
		c.err = nil
		for _, d := range c.deps {
			d.clear()
		}
		return nil
	}
	if parentID == c.parent && (c.state == Ready || c.state == Loading) {
		return nil
	}
	c.parent = parentID
	return c.issue()
}

// Refresh refetches the current parent regardless of state.
// It returns nil when nothing is selected.
func (c *Controller) Refresh() *Request {
	if c.parent == "" {
		return nil
	}
	return c.issue()
}

func (c *Controller) issue() *Request {
	c.gen++
	c.state = Loading
	c.err = nil
	deps := make([]dependent, len(c.deps))
	copy(deps, c.deps)
	return &Request{Parent: c.parent, gen: c.gen, deps: deps}
}

// Complete applies a finished request. It returns false when the result
// belonged to a superseded request and was dropped.
//
// On failure the dependent stores keep their previous contents. Results are
// all-or-nothing: a single failing dependent fails the whole request.
func (c *Controller) Complete(res Result) bool {
	if res.gen != c.gen || res.Parent != c.parent {
		return false
	}
	if res.Err != nil {
		c.fail(res.Err)
		return true
	}
	for i, d := range res.deps {
		if err := d.check(res.data[i]); err != nil {
			c.fail(fmt.Errorf("%s: %w", d.label(), err))
			return true
		}
	}
	for i, d := range res.deps {
		if err := d.apply(res.data[i]); err != nil {
			c.fail(fmt.Errorf("%s: %w", d.label(), err))
			return true
		}
	}
	c.state = Ready
	c.err = nil
	return true
}

func (c *Controller) fail(err error) {
	c.state = Failed
	c.err = err
}

// SelectAndWait is Select followed by a synchronous Run and Complete.
func (c *Controller) SelectAndWait(ctx context.Context, parentID string) error {
	return c.wait(ctx, c.Select(parentID))
}

// RefreshAndWait is Refresh followed by a synchronous Run and Complete.
func (c *Controller) RefreshAndWait(ctx context.Context) error {
	return c.wait(ctx, c.Refresh())
}

func (c *Controller) wait(ctx context.Context, req *Request) error {
	if req == nil {
		return c.err
	}
	c.Complete(req.Run(ctx))
	return c.err
}

// Request is an issued fetch for one parent.
type Request struct {
	Parent string
	gen    uint64
	deps   []dependent
}

// Run fetches every dependent concurrently. It touches no controller state
// and may run on any goroutine.
func (r *Request) Run(ctx context.Context) Result {
	res := Result{Parent: r.Parent, gen: r.gen, deps: r.deps, data: make([]any, len(r.deps))}
	errs := make([]error, len(r.deps))

	var wg sync.WaitGroup
	for i, d := range r.deps {
		wg.Add(1)
		go func(i int, d dependent) {
			defer wg.Done()
			res.data[i], errs[i] = d.fetch(ctx, r.Parent)
		}(i, d)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			res.Err = err
			res.data = nil
			break
		}
	}
	return res
}

// Result is the outcome of a Request, to be passed to Complete.
type Result struct {
	Parent string
	Err    error
	gen    uint64
	deps   []dependent
	data   []any
}
