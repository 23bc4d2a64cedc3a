package frame

// Fanout is one output row of Explode: the original row paired with one
// element of its list. Valid is false for the placeholder emitted for a row
// whose list is empty; Value is then the zero value.
type Fanout[R any, E any] struct {
	Row   R
	Value E
	Valid bool
}

// Explode emits one row per (row, list element) pair, in row order and then
// list order. A row with an empty list contributes a single placeholder.
func Explode[R any, E any](rows []R, list func(R) []E) []Fanout[R, E] {
	out := make([]Fanout[R, E], 0, len(rows))
	for _, r := range rows {
		elems := list(r)
		if len(elems) == 0 {
			out = append(out, Fanout[R, E]{Row: r})
			continue
		}
		for _, e := range elems {
			out = append(out, Fanout[R, E]{Row: r, Value: e, Valid: true})
		}
	}
	return out
}

// Values returns the list elements of a fan-out, skipping placeholders.
func Values[R any, E any](rows []Fanout[R, E]) []E {
	out := make([]E, 0, len(rows))
	for _, f := range rows {
		if f.Valid {
			out = append(out, f.Value)
		}
	}
	return out
}

// Key adapts a fan-out for use as the left side of InnerJoin.
func Key[R any, E comparable](f Fanout[R, E]) (E, bool) {
	return f.Value, f.Valid
}
