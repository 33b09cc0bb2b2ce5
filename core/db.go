package core

import (
	"sort"
	"strings"
)

// Store is a data store holding every table in memory and persisting them somewhere.
type Store interface {
	// Reload discards the in-memory tables and reads them again from their source.
	Reload() error
	Close() error
}

type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrdering parses "field" (ascending) or "-field" (descending).
func ParseOrdering(s string) Ordering {
	s = CleanString(s, true /* lower */)
	if strings.HasPrefix(s, "-") {
		return Ordering{Field: s[1:], Ascending: false}
	}
	return Ordering{Field: s, Ascending: true}
}

// SortBy stably sorts items with less, honouring ord.Ascending.
func SortBy[T any](items []T, ord Ordering, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if ord.Ascending {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}
