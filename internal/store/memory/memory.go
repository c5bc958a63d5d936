// Package memory is an in-process store used in development and tests.
package memory

import (
	"cmp"
	"fmt"
	"slices"

	"panelkit/internal/store/repositories"
)

// sortBy sorts items by the requested keys using the per-field comparators,
// falling back to fallback and finally to tie.
func sortBy[T any](items []T, order []repositories.Order, fields map[string]func(a, b T) int, fallback []repositories.Order, tie func(a, b T) int) error {
	if len(order) == 0 {
		order = fallback
	}
	cmps := make([]func(a, b T) int, 0, len(order))
	for _, o := range order {
		fn, ok := fields[o.Field]
		if !ok {
			return fmt.Errorf("unknown ordering field %q", o.Field)
		}
		if o.Desc {
			asc := fn
			fn = func(a, b T) int { return -asc(a, b) }
		}
		cmps = append(cmps, fn)
	}
	slices.SortStableFunc(items, func(a, b T) int {
		for _, fn := range cmps {
			if c := fn(a, b); c != 0 {
				return c
			}
		}
		return tie(a, b)
	})
	return nil
}

// window returns the [offset, offset+limit) slice of items.
func window[T any](items []T, q repositories.PageQuery) []T {
	if q.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	return items[q.Offset:end]
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func stringCmp(a, b string) int { return cmp.Compare(a, b) }
