package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type owner struct {
	id    int
	group string
	score int
	links []int
}

type target struct {
	id   int
	kind string
}

func TestExplode(t *testing.T) {
	rows := []owner{
		{id: 1, links: []int{10, 20}},
		{id: 2, links: nil},
		{id: 3, links: []int{30, 10, 20}},
	}

	got := Explode(rows, func(o owner) []int { return o.links })

	assert.Len(t, got, 6)
	var ids, values []int
	for _, f := range got {
		ids = append(ids, f.Row.id)
		values = append(values, f.Value)
	}
	assert.Equal(t, []int{1, 1, 2, 3, 3, 3}, ids)
	assert.Equal(t, []int{10, 20, 0, 30, 10, 20}, values)
	assert.False(t, got[2].Valid, "empty list yields a placeholder")

	assert.Equal(t, []int{10, 20, 30, 10, 20}, Values(got))
}

func TestExplode_NoEmptyListsPreservesCount(t *testing.T) {
	rows := []owner{{id: 1, links: []int{1}}, {id: 2, links: []int{2}}}
	got := Explode(rows, func(o owner) []int { return o.links })
	assert.Len(t, got, len(rows))
	assert.Empty(t, Explode[owner, int](nil, func(o owner) []int { return o.links }))
}

func TestGroupBy(t *testing.T) {
	rows := []owner{
		{id: 1, group: "M", score: 100},
		{id: 2, group: "F", score: 200},
		{id: 3, group: "M", score: 300},
		{id: 3, group: "M", score: 300},
	}

	g := GroupBy(rows, func(o owner) string { return o.group })

	assert.Equal(t, []string{"F", "M"}, g.Keys())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, len(rows), g.Sizes().Sum(), "partition sizes sum to row count")
	assert.Equal(t, []int{1, 3}, g.Sizes().Values())
	assert.Len(t, g.Rows("M"), 3)
	assert.Empty(t, g.Rows("X"))

	means := Mean(g, func(o owner) int { return o.score })
	assert.Equal(t, []string{"F", "M"}, means.Keys())
	assert.InDeltaSlice(t, []float64{200, 700.0 / 3}, means.Values(), 1e-9)

	distinct := CountDistinct(g, func(o owner) int { return o.id })
	assert.Equal(t, []int{1, 2}, distinct.Values())
}

func TestGroupBy_Empty(t *testing.T) {
	g := GroupBy[owner](nil, func(o owner) string { return o.group })

	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.Sizes().Len())
	assert.Equal(t, 0, Mean(g, func(o owner) int { return o.score }).Len())
}

func TestInnerJoin(t *testing.T) {
	owners := []owner{
		{id: 1, links: []int{20, 10}},
		{id: 2, links: nil},
		{id: 3, links: []int{99}},
	}
	targets := []target{
		{id: 10, kind: "a"},
		{id: 20, kind: "b"},
		{id: 20, kind: "c"},
		{id: 30, kind: "d"},
	}
	fan := Explode(owners, func(o owner) []int { return o.links })

	got := InnerJoin(fan, targets, Key[owner, int], func(t target) int { return t.id })

	var pairs [][2]any
	for _, j := range got {
		pairs = append(pairs, [2]any{j.Left.Row.id, j.Right.kind})
	}
	assert.Equal(t, [][2]any{
		{1, "b"},
		{1, "c"},
		{1, "a"},
	}, pairs, "left order then right order; placeholders and dangling keys dropped")
}

func TestInnerJoin_ZeroKeyPlaceholderNeverMatches(t *testing.T) {
	fan := Explode([]owner{{id: 1}}, func(o owner) []int { return o.links })
	got := InnerJoin(fan, []target{{id: 0}}, Key[owner, int], func(t target) int { return t.id })
	assert.Empty(t, got)
}
