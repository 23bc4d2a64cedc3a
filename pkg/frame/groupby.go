package frame

import (
	"cmp"
	"slices"
)

// Groups partitions rows by a key. Keys are kept in ascending order and
// only keys observed in the data have a group.
type Groups[K cmp.Ordered, R any] struct {
	keys []K
	rows map[K][]R
}

// GroupBy partitions rows by literal equality of key(row). Within a group,
// rows keep their input order.
func GroupBy[R any, K cmp.Ordered](rows []R, key func(R) K) Groups[K, R] {
	g := Groups[K, R]{rows: make(map[K][]R)}
	for _, r := range rows {
		k := key(r)
		if _, ok := g.rows[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.rows[k] = append(g.rows[k], r)
	}
	slices.Sort(g.keys)
	return g
}

// Keys returns the group keys in ascending order.
func (g Groups[K, R]) Keys() []K { return slices.Clone(g.keys) }

// Len returns the number of groups.
func (g Groups[K, R]) Len() int { return len(g.keys) }

// Rows returns the rows of the group with key k.
func (g Groups[K, R]) Rows(k K) []R { return slices.Clone(g.rows[k]) }

// Sizes returns the number of rows in each group.
func (g Groups[K, R]) Sizes() Series[K, int] {
	var out Series[K, int]
	for _, k := range g.keys {
		out.set(k, len(g.rows[k]))
	}
	return out
}

// Mean averages value(row) within each group.
func Mean[K cmp.Ordered, R any, V Number](g Groups[K, R], value func(R) V) Series[K, float64] {
	var out Series[K, float64]
	for _, k := range g.keys {
		rows := g.rows[k]
		var sum float64
		for _, r := range rows {
			sum += float64(value(r))
		}
		out.set(k, sum/float64(len(rows)))
	}
	return out
}

// CountDistinct counts the distinct values of value(row) within each group.
func CountDistinct[K cmp.Ordered, R any, V comparable](g Groups[K, R], value func(R) V) Series[K, int] {
	var out Series[K, int]
	for _, k := range g.keys {
		seen := make(map[V]struct{})
		for _, r := range g.rows[k] {
			seen[value(r)] = struct{}{}
		}
		out.set(k, len(seen))
	}
	return out
}
