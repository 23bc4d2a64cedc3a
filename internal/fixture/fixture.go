// Package fixture generates random but reproducible park data for demos and
// tests.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/leapstack-labs/wildstat/pkg/core"
)

// Species are the animal species fixtures draw from.
var Species = []string{"Lion", "Elephant", "Giraffe", "Zebra", "Rhino"}

// visitDateLayout matches how visit timestamps are stored as text.
const visitDateLayout = "2006-01-02 15:04:05.000000"

// Options controls fixture generation. Zero counts fall back to the
// defaults of 5 guiders, 10 animals and 20 guests; a negative count
// generates none.
type Options struct {
	Seed    uint64
	Guiders int
	Animals int
	Guests  int
	// Now is the reference time visits are drawn before. Zero means
	// time.Now().
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.Guiders == 0 {
		o.Guiders = 5
	}
	if o.Animals == 0 {
		o.Animals = 10
	}
	if o.Guests == 0 {
		o.Guests = 20
	}
	o.Guiders = max(o.Guiders, 0)
	o.Animals = max(o.Animals, 0)
	o.Guests = max(o.Guests, 0)
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Generate builds a snapshot from opts. The same options always produce the
// same snapshot contents.
//
// Guiders are 25 to 55 years old with 100 to 1000 service hours. Animals
// are 1 to 15 years old and linked to 1 to 3 distinct guiders. Guests visit
// within the 365 days before Now and are linked to 1 or 2 distinct guiders.
func Generate(opts Options) (*core.Snapshot, error) {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	guiders := make([]core.Guider, opts.Guiders)
	guiderIDs := make([]int64, opts.Guiders)
	for i := range guiders {
		id := int64(i + 1)
		guiderIDs[i] = id
		guiders[i] = core.Guider{
			ID:           id,
			Name:         fmt.Sprintf("Guider %d", id),
			Age:          between(rng, 25, 55),
			Gender:       pick(rng, []string{"M", "F"}),
			ServiceHours: between(rng, 100, 1000),
		}
	}

	animals := make([]core.Animal, opts.Animals)
	for i := range animals {
		id := int64(i + 1)
		animals[i] = core.Animal{
			ID:       id,
			Name:     fmt.Sprintf("Animal %d", id),
			Species:  pick(rng, Species),
			Age:      between(rng, 1, 15),
			IsNative: rng.IntN(2) == 1,
		}
	}

	guests := make([]core.Guest, opts.Guests)
	for i := range guests {
		id := int64(i + 1)
		visited := opts.Now.AddDate(0, 0, -between(rng, 0, 365))
		guests[i] = core.Guest{
			ID:        id,
			Name:      fmt.Sprintf("Guest %d", id),
			VisitDate: visited.Format(visitDateLayout),
			IsAdult:   rng.IntN(2) == 1,
		}
	}

	for i := range animals {
		animals[i].GuiderIDs = sample(rng, guiderIDs, between(rng, 1, 3))
	}
	for i := range guests {
		guests[i].GuiderIDs = sample(rng, guiderIDs, between(rng, 1, 2))
	}

	return core.NewSnapshot(animals, guests, guiders)
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

func pick[T any](rng *rand.Rand, choices []T) T {
	return choices[rng.IntN(len(choices))]
}

// sample draws k distinct ids without replacement, capped at len(ids), and
// returns them in ascending order.
func sample(rng *rand.Rand, ids []int64, k int) []int64 {
	k = min(k, len(ids))
	out := make([]int64, 0, k)
	for _, i := range rng.Perm(len(ids))[:k] {
		out = append(out, ids[i])
	}
	slices.Sort(out)
	return out
}
