package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, title string) domain.BacklogItem {
	b := domain.NewBacklogItem()
	b.ID = id
	b.Title = title
	return b
}

func ids(list []domain.BacklogItem) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func loaded(t *testing.T, list ...domain.BacklogItem) *Store[domain.BacklogItem] {
	t.Helper()
	s := New[domain.BacklogItem]()
	require.NoError(t, s.Load(list))
	return s
}

func TestLoad_ReplacesCollection(t *testing.T) {
	s := loaded(t, item("a", "A"), item("b", "B"))
	require.NoError(t, s.Load([]domain.BacklogItem{item("c", "C")}))
	assert.Equal(t, []string{"c"}, ids(s.Snapshot()))
}

func TestLoad_RejectsDuplicatesAtomically(t *testing.T) {
	s := loaded(t, item("a", "A"))
	err := s.Load([]domain.BacklogItem{item("x", "X"), item("x", "X2")})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, []string{"a"}, ids(s.Snapshot()))
}

func TestLoad_DoesNotAliasCallerSlice(t *testing.T) {
	list := []domain.BacklogItem{item("a", "A")}
	s := loaded(t, list...)
	list[0].Title = "changed"
	got, _ := s.Get("a")
	assert.Equal(t, "A", got.Title)
}

func TestAppend(t *testing.T) {
	s := loaded(t, item("a", "A"))
	require.NoError(t, s.Append(item("b", "B")))
	assert.Equal(t, []string{"a", "b"}, ids(s.Snapshot()))
}

func TestAppend_DuplicateLeavesCollectionUnchanged(t *testing.T) {
	s := loaded(t, item("a", "A"), item("b", "B"))
	err := s.Append(item("a", "again"))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, []string{"a", "b"}, ids(s.Snapshot()))
	got, _ := s.Get("a")
	assert.Equal(t, "A", got.Title)
}

func TestReplace_KeepsPosition(t *testing.T) {
	s := loaded(t, item("a", "A"), item("b", "B"), item("c", "C"))
	require.NoError(t, s.Replace("b", item("b", "B2")))
	snap := s.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap))
	assert.Equal(t, "B2", snap[1].Title)
}

func TestReplace_NotFound(t *testing.T) {
	s := loaded(t, item("a", "A"))
	err := s.Replace("zzz", item("zzz", "Z"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"a"}, ids(s.Snapshot()))
}

func TestReplace_NewIDCollision(t *testing.T) {
	s := loaded(t, item("a", "A"), item("b", "B"))
	err := s.Replace("a", item("b", "clash"))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, []string{"a", "b"}, ids(s.Snapshot()))
}

func TestRemove(t *testing.T) {
	s := loaded(t, item("a", "A"), item("b", "B"), item("c", "C"))
	require.NoError(t, s.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Snapshot()))

	err := s.Remove("b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"a", "c"}, ids(s.Snapshot()))
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := loaded(t, item("a", "A"))
	snap := s.Snapshot()
	snap[0].Title = "mutated"
	got, _ := s.Get("a")
	assert.Equal(t, "A", got.Title)
}

func TestClear(t *testing.T) {
	s := loaded(t, item("a", "A"))
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Snapshot())
}

// TestStore_Invariants_RandomOperations drives random append/replace/remove
// sequences and checks that ids stay unique and untouched elements keep
// their relative order.
func TestStore_Invariants_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		s := New[domain.BacklogItem]()
		for step := 0; step < 30; step++ {
			before := ids(s.Snapshot())
			id := fmt.Sprintf("id-%d", rng.Intn(10))

			var target string
			var err error
			switch rng.Intn(3) {
			case 0:
				err = s.Append(item(id, "t"))
				target = id
			case 1:
				err = s.Replace(id, item(id, fmt.Sprintf("t%d", step)))
				target = id
			case 2:
				err = s.Remove(id)
				target = id
			}

			after := ids(s.Snapshot())
			if err != nil {
				assert.Equal(t, before, after, "trial %d step %d: failed op must not change the store", trial, step)
				continue
			}

			seen := map[string]bool{}
			for _, v := range after {
				assert.False(t, seen[v], "trial %d: duplicate id %q", trial, v)
				seen[v] = true
			}
			assert.Equal(t, without(before, target), without(after, target),
				"trial %d step %d: untouched elements must keep their order", trial, step)
		}
	}
}

func without(list []string, id string) []string {
	out := []string{}
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func TestGuard_PassesThroughOtherErrors(t *testing.T) {
	g := Guard{Logger: zerolog.Nop()}
	other := fmt.Errorf("boom")
	assert.Equal(t, other, g.Check("append", other))
	assert.NoError(t, g.Check("append", nil))
}

func TestGuard_LogsAndSwallowsViolations(t *testing.T) {
	var buf bytes.Buffer
	g := Guard{Logger: zerolog.New(&buf)}
	s := loaded(t, item("a", "A"))

	err := g.Check("append", s.Append(item("a", "A")))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "store out of sync")
}

func TestGuard_StrictPanics(t *testing.T) {
	g := Guard{Strict: true, Logger: zerolog.Nop()}
	s := loaded(t, item("a", "A"))
	assert.Panics(t, func() {
		_ = g.Check("remove", s.Remove("missing"))
	})
}
