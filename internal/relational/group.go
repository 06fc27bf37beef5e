package relational

import (
	"cmp"
	"slices"
)

// Group is the rows sharing one key
type Group[K comparable, T any] struct {
	Key  K
	Rows []T
}

// GroupBy partitions rows by key. Groups come out in first-seen key order
// and rows keep their input order within a group.
func GroupBy[T any, K comparable](rows []T, key func(T) K) []Group[K, T] {
	pos := make(map[K]int)
	var groups []Group[K, T]
	for _, r := range rows {
		k := key(r)
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// SortGroups orders groups by key
func SortGroups[K cmp.Ordered, T any](groups []Group[K, T]) {
	slices.SortFunc(groups, func(a, b Group[K, T]) int { return cmp.Compare(a.Key, b.Key) })
}

// CountDistinct counts the distinct values of field over rows. Zero values
// stand for missing cells and are not counted.
func CountDistinct[T any, V comparable](rows []T, field func(T) V) int {
	var zero V
	seen := make(map[V]struct{}, len(rows))
	for _, r := range rows {
		if v := field(r); v != zero {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Mean returns the arithmetic mean of values and false when there are none
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}
