package relational

// Pair is one matched row of a join
type Pair[L, R any] struct {
	Left  L
	Right R
}

// Index maps each key to every row carrying it, in input order
func Index[T any, K comparable](rows []T, key func(T) K) map[K][]T {
	idx := make(map[K][]T, len(rows))
	for _, r := range rows {
		k := key(r)
		idx[k] = append(idx[k], r)
	}
	return idx
}

// FirstBy keeps the first row seen for each key
func FirstBy[T any, K comparable](rows []T, key func(T) K) map[K]T {
	first := make(map[K]T, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, ok := first[k]; !ok {
			first[k] = r
		}
	}
	return first
}

// InnerJoin pairs every left row with every right row of equal key. Output
// follows left order, then right order within a key. The second result is
// the number of left rows that found no match.
func InnerJoin[L, R any, K comparable](left []L, right []R, lkey func(L) K, rkey func(R) K) ([]Pair[L, R], int) {
	idx := Index(right, rkey)
	out := make([]Pair[L, R], 0, len(left))
	dropped := 0
	for _, l := range left {
		matches := idx[lkey(l)]
		if len(matches) == 0 {
			dropped++
			continue
		}
		for _, r := range matches {
			out = append(out, Pair[L, R]{Left: l, Right: r})
		}
	}
	return out, dropped
}

// LeftJoin is InnerJoin that keeps unmatched left rows; ok is false for them
// and Right holds the zero value.
func LeftJoin[L, R any, K comparable](left []L, right []R, lkey func(L) K, rkey func(R) K) []LeftPair[L, R] {
	idx := Index(right, rkey)
	out := make([]LeftPair[L, R], 0, len(left))
	for _, l := range left {
		matches := idx[lkey(l)]
		if len(matches) == 0 {
			out = append(out, LeftPair[L, R]{Left: l})
			continue
		}
		for _, r := range matches {
			out = append(out, LeftPair[L, R]{Left: l, Right: r, OK: true})
		}
	}
	return out
}

// LeftPair is one row of a left join
type LeftPair[L, R any] struct {
	Left  L
	Right R
	OK    bool
}
