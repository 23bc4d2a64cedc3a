package frame

// Joined is one matched pair of an InnerJoin. Both sides stay addressable
// as Left and Right, so attributes with the same name never collide.
type Joined[L any, R any] struct {
	Left  L
	Right R
}

// InnerJoin emits every (left, right) pair whose keys compare equal. Output
// follows left order, then right order for multiple matches. Left rows for
// which leftKey reports false, and rows on either side without a match, are
// dropped.
func InnerJoin[L any, R any, K comparable](left []L, right []R, leftKey func(L) (K, bool), rightKey func(R) K) []Joined[L, R] {
	index := make(map[K][]int, len(right))
	for i, r := range right {
		k := rightKey(r)
		index[k] = append(index[k], i)
	}

	var out []Joined[L, R]
	for _, l := range left {
		k, ok := leftKey(l)
		if !ok {
			continue
		}
		for _, i := range index[k] {
			out = append(out, Joined[L, R]{Left: l, Right: right[i]})
		}
	}
	return out
}
