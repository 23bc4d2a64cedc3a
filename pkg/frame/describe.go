package frame

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a numeric column. A Summary with
// Count == 0 is empty and encodes as {}.
//
// Std is the sample standard deviation (n-1 denominator), so a single value
// has an undefined deviation: Std is NaN and encodes as null.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Describe computes count, mean, std, min, quartiles and max of values.
// Empty input yields the empty Summary.
func Describe[V Number](values []V) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	slices.Sort(xs)

	std := math.NaN()
	if len(xs) > 1 {
		std = stat.StdDev(xs, nil)
	}

	return Summary{
		Count: len(xs),
		Mean:  stat.Mean(xs, nil),
		Std:   std,
		Min:   xs[0],
		P25:   quantile(xs, 0.25),
		P50:   quantile(xs, 0.50),
		P75:   quantile(xs, 0.75),
		Max:   xs[len(xs)-1],
	}
}

// Empty reports whether the summary was computed over no values.
func (s Summary) Empty() bool { return s.Count == 0 }

// Fields returns the statistics in their conventional order, labelled the
// way they are encoded.
func (s Summary) Fields() []Entry[string, float64] {
	if s.Empty() {
		return nil
	}
	return []Entry[string, float64]{
		{Key: "count", Value: float64(s.Count)},
		{Key: "mean", Value: s.Mean},
		{Key: "std", Value: s.Std},
		{Key: "min", Value: s.Min},
		{Key: "25%", Value: s.P25},
		{Key: "50%", Value: s.P50},
		{Key: "75%", Value: s.P75},
		{Key: "max", Value: s.Max},
	}
}

// MarshalJSON encodes the summary as an ordered object.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNumber(f.Value, f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
