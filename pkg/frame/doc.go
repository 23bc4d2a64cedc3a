// Package frame provides the small set of tabular operations wildstat reports
// are composed from: frequency tables, descriptive statistics, grouped
// aggregates, list fan-out and equality joins.
//
// Rows are plain Go values and columns are accessor functions, so every
// operation is typed end to end:
//
//	fanout := frame.Explode(animals, func(a core.Animal) []int64 { return a.GuiderIDs })
//	counts := frame.ValueCounts(frame.Values(fanout))
//	summary := frame.Describe(counts.Values())
//
// No operation mutates its input, and every operation accepts empty input
// and returns an empty result rather than an error.
package frame
