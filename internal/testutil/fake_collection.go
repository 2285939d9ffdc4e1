package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// FakeCollection is an in-memory remote collection keyed by parent id.
// Root collections (projects) use the empty parent.
type FakeCollection[T domain.Record[T]] struct {
	mu     sync.Mutex
	prefix string
	items  map[string][]T
	nextID int
	calls  []string

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeCollection creates an empty fake whose generated ids start with prefix.
func NewFakeCollection[T domain.Record[T]](prefix string) *FakeCollection[T] {
	return &FakeCollection[T]{prefix: prefix, items: make(map[string][]T)}
}

// Seed adds entities under parentID without recording a call.
func (f *FakeCollection[T]) Seed(parentID string, entities ...T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[parentID] = append(f.items[parentID], entities...)
}

// Calls returns the recorded operations, e.g. "list:p1" or "create:p1".
func (f *FakeCollection[T]) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Items returns the server-side entities under parentID.
func (f *FakeCollection[T]) Items(parentID string) []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items[parentID]...)
}

func (f *FakeCollection[T]) List(_ context.Context, parentID string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list:"+parentID)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]T(nil), f.items[parentID]...), nil
}

func (f *FakeCollection[T]) Create(_ context.Context, parentID string, draft T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+parentID)
	if f.CreateErr != nil {
		var zero T
		return zero, f.CreateErr
	}
	e := draft
	if e.EntityID() == "" {
		f.nextID++
		var err error
		e, err = e.WithField("_id", fmt.Sprintf("%s-%d", f.prefix, f.nextID))
		if err != nil {
			return e, err
		}
	}
	if e.Field("createdAt") == "" {
		if stamped, err := e.WithField("createdAt", "2024-01-01T00:00:00Z"); err == nil {
			e = stamped
		}
	}
	for _, existing := range f.items[parentID] {
		if existing.EntityID() == e.EntityID() {
			var zero T
			return zero, &domain.RemoteFailure{Op: "create", StatusCode: http.StatusConflict, Message: "id already exists"}
		}
	}
	f.items[parentID] = append(f.items[parentID], e)
	return e, nil
}

func (f *FakeCollection[T]) Update(_ context.Context, parentID, id string, draft T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update:"+parentID+"/"+id)
	var zero T
	if f.UpdateErr != nil {
		return zero, f.UpdateErr
	}
	list := f.items[parentID]
	for i := range list {
		if list[i].EntityID() == id {
			list[i] = draft
			return draft, nil
		}
	}
	return zero, &domain.RemoteFailure{Op: "update", StatusCode: http.StatusNotFound}
}

func (f *FakeCollection[T]) Delete(_ context.Context, parentID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+parentID+"/"+id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	list := f.items[parentID]
	for i := range list {
		if list[i].EntityID() == id {
			f.items[parentID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return &domain.RemoteFailure{Op: "delete", StatusCode: http.StatusNotFound}
}
