package frame

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Number is the set of value types a Series can hold.
type Number interface {
	~int | ~int64 | ~float64
}

// Series is an ordered mapping from keys to numeric values. The zero value
// is an empty series.
type Series[K comparable, V Number] struct {
	keys   []K
	values []V
	index  map[K]int
}

// Entry is a single key/value pair of a Series.
type Entry[K comparable, V Number] struct {
	Key   K
	Value V
}

// NewSeries builds a series from entries, keeping their order. A repeated
// key overwrites the earlier value in place.
func NewSeries[K comparable, V Number](entries ...Entry[K, V]) Series[K, V] {
	var s Series[K, V]
	for _, e := range entries {
		s.set(e.Key, e.Value)
	}
	return s
}

func (s *Series[K, V]) set(k K, v V) {
	if s.index == nil {
		s.index = make(map[K]int)
	}
	if i, ok := s.index[k]; ok {
		s.values[i] = v
		return
	}
	s.index[k] = len(s.keys)
	s.keys = append(s.keys, k)
	s.values = append(s.values, v)
}

// Len returns the number of keys.
func (s Series[K, V]) Len() int { return len(s.keys) }

// Keys returns the keys in order.
func (s Series[K, V]) Keys() []K { return slices.Clone(s.keys) }

// Values returns the values in key order.
func (s Series[K, V]) Values() []V { return slices.Clone(s.values) }

// Entries returns the key/value pairs in order.
func (s Series[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(s.keys))
	for i, k := range s.keys {
		out[i] = Entry[K, V]{Key: k, Value: s.values[i]}
	}
	return out
}

// Get returns the value stored for k.
func (s Series[K, V]) Get(k K) (V, bool) {
	i, ok := s.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return s.values[i], true
}

// Sum adds up all values.
func (s Series[K, V]) Sum() V {
	var total V
	for _, v := range s.values {
		total += v
	}
	return total
}

// MarshalJSON encodes the series as a JSON object in key order. Keys are
// formatted with fmt, so boolean and integer keys become "true" or "3".
// NaN and infinite values are encoded as null.
func (s Series[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNumber(float64(s.values[i]), s.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNumber(f float64, v any) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// ValueCounts returns the frequency of each distinct value. Entries are
// ordered by descending count; ties keep the order of first appearance.
func ValueCounts[K comparable](values []K) Series[K, int] {
	var counts Series[K, int]
	for _, v := range values {
		if i, ok := counts.index[v]; ok {
			counts.values[i]++
			continue
		}
		counts.set(v, 1)
	}

	order := make([]int, counts.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(counts.values[b], counts.values[a])
	})
	return counts.reorder(order)
}

// Normalize converts counts into fractions of their total.
func Normalize[K comparable](counts Series[K, int]) Series[K, float64] {
	total := counts.Sum()
	var out Series[K, float64]
	for i, k := range counts.keys {
		out.set(k, float64(counts.values[i])/float64(total))
	}
	return out
}

// SortByKey returns a copy of s ordered by ascending key.
func SortByKey[K cmp.Ordered, V Number](s Series[K, V]) Series[K, V] {
	order := make([]int, s.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(s.keys[a], s.keys[b])
	})
	return s.reorder(order)
}

func (s Series[K, V]) reorder(order []int) Series[K, V] {
	var out Series[K, V]
	for _, i := range order {
		out.set(s.keys[i], s.values[i])
	}
	return out
}
