// Package metrics computes summary figures from entity snapshots.
//
// Every function is pure and scans the whole snapshot it is given.
// Collections are small, so nothing is cached. Entities whose status or
// priority is unrecognized are left out of status- and priority-keyed
// counts but still count towards totals.
package metrics

import "github.com/alexanderramin/sprintboard/internal/domain"

// CountStatus counts entities whose canonical status equals s.
func CountStatus[T domain.HasStatus](items []T, s domain.Status) int {
	n := 0
	for _, it := range items {
		if it.CurrentStatus() == s {
			n++
		}
	}
	return n
}

// Open counts entities with a known status other than Completed.
func Open[T domain.HasStatus](items []T) int {
	n := 0
	for _, it := range items {
		if st := it.CurrentStatus(); st != domain.StatusUnknown && st != domain.StatusCompleted {
			n++
		}
	}
	return n
}

func InProgress[T domain.HasStatus](items []T) int {
	return CountStatus(items, domain.StatusInProgress)
}

func Completed[T domain.HasStatus](items []T) int {
	return CountStatus(items, domain.StatusCompleted)
}

// HighPriority counts entities with priority High.
func HighPriority[T domain.HasPriority](items []T) int {
	n := 0
	for _, it := range items {
		if it.PriorityLevel() == domain.PriorityHigh {
			n++
		}
	}
	return n
}

func Total[T any](items []T) int {
	return len(items)
}

// Sum adds up a numeric field across items.
func Sum[T any](items []T, field func(T) int) int {
	total := 0
	for _, it := range items {
		total += field(it)
	}
	return total
}

// Filter returns the items matching keep.
func Filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
