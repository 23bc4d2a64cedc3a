package analytics

import (
	"github.com/leapstack-labs/wildstat/pkg/core"
	"github.com/leapstack-labs/wildstat/pkg/frame"
)

// ComputeBasicStats describes animal ages and guider service hours. When
// either animals or guiders are missing the whole report is empty, even if
// the other tables have rows.
func ComputeBasicStats(snap *core.Snapshot) BasicStats {
	animals, guiders := snap.Animals(), snap.Guiders()
	if len(animals) == 0 || len(guiders) == 0 {
		return BasicStats{}
	}

	ages := make([]int, len(animals))
	for i, a := range animals {
		ages[i] = a.Age
	}
	hours := make([]int, len(guiders))
	for i, g := range guiders {
		hours[i] = g.ServiceHours
	}

	_, guests, _ := snap.Counts()
	return BasicStats{
		AnimalsStats: frame.Describe(ages),
		GuidersStats: frame.Describe(hours),
		TotalAnimals: len(animals),
		TotalGuests:  guests,
		TotalGuiders: len(guiders),
	}
}

// ComputeAnimalDistribution counts animals by native flag and by species.
func ComputeAnimalDistribution(snap *core.Snapshot) AnimalDistribution {
	animals := snap.Animals()
	if len(animals) == 0 {
		return AnimalDistribution{}
	}

	native := make([]bool, len(animals))
	species := make([]string, len(animals))
	for i, a := range animals {
		native[i] = a.IsNative
		species[i] = a.Species
	}
	return AnimalDistribution{
		NativeVsImported:    frame.ValueCounts(native),
		SpeciesDistribution: frame.ValueCounts(species),
	}
}

// ComputeGuestAnalysis returns the adult/child ratio and the number of
// visits per calendar month in ascending month order. A visit date that
// cannot be parsed fails the report with a *ComputationError.
func ComputeGuestAnalysis(snap *core.Snapshot) (GuestAnalysis, error) {
	guests := snap.Guests()
	if len(guests) == 0 {
		return GuestAnalysis{}, nil
	}

	adult := make([]bool, len(guests))
	months := make([]int, len(guests))
	for i, g := range guests {
		adult[i] = g.IsAdult
		visited, err := core.ParseVisitDate(g.VisitDate)
		if err != nil {
			return GuestAnalysis{}, &ComputationError{Kind: KindGuests, Field: "visit_date", Err: err}
		}
		months[i] = int(visited.Month())
	}
	return GuestAnalysis{
		AdultChildRatio: frame.Normalize(frame.ValueCounts(adult)),
		VisitsByMonth:   frame.SortByKey(frame.ValueCounts(months)),
	}, nil
}

// ComputeGuiderAnalysis counts guiders by gender and averages service hours
// per gender.
func ComputeGuiderAnalysis(snap *core.Snapshot) GuiderAnalysis {
	guiders := snap.Guiders()
	if len(guiders) == 0 {
		return GuiderAnalysis{}
	}

	genders := make([]string, len(guiders))
	for i, g := range guiders {
		genders[i] = g.Gender
	}
	byGender := frame.GroupBy(guiders, func(g core.Guider) string { return g.Gender })
	return GuiderAnalysis{
		GenderDistribution:      frame.ValueCounts(genders),
		AvgServiceHoursByGender: frame.Mean(byGender, func(g core.Guider) int { return g.ServiceHours }),
	}
}

// ComputeComplexAnalysis fans animals and guests out over their guider
// lists and joins the fan-outs with the guiders. If any of the three tables
// is empty the report has its empty shape.
func ComputeComplexAnalysis(snap *core.Snapshot) ComplexAnalysis {
	animals, guests, guiders := snap.Animals(), snap.Guests(), snap.Guiders()
	if len(animals) == 0 || len(guests) == 0 || len(guiders) == 0 {
		return ComplexAnalysis{}
	}

	animalFanout := frame.Explode(animals, func(a core.Animal) []int64 { return a.GuiderIDs })
	guestFanout := frame.Explode(guests, func(g core.Guest) []int64 { return g.GuiderIDs })

	guiderID := func(g core.Guider) int64 { return g.ID }
	animalJoined := frame.InnerJoin(animalFanout, guiders, frame.Key[core.Animal, int64], guiderID)
	guestJoined := frame.InnerJoin(guestFanout, guiders, frame.Key[core.Guest, int64], guiderID)

	var out ComplexAnalysis
	out.GuiderWorkload = GuiderWorkload{
		AnimalsPerGuider: frame.Describe(frame.ValueCounts(frame.Values(animalFanout)).Values()),
		GuestsPerGuider:  frame.Describe(frame.ValueCounts(frame.Values(guestFanout)).Values()),
	}

	for _, j := range animalJoined {
		if j.Left.Row.IsNative {
			out.GuestAnimalInteractions.NativeAnimalGuiderPairs++
		}
	}
	for _, j := range guestJoined {
		if j.Left.Row.IsAdult {
			out.GuestAnimalInteractions.AdultGuestGuiderPairs++
		} else {
			out.GuestAnimalInteractions.ChildGuestGuiderPairs++
		}
	}

	type animalPair = frame.Joined[frame.Fanout[core.Animal, int64], core.Guider]
	type guestPair = frame.Joined[frame.Fanout[core.Guest, int64], core.Guider]
	gender := func(g core.Guider) string { return g.Gender }

	out.GuiderPerformance = GuiderPerformance{
		AvgAnimalsByGender: frame.CountDistinct(
			frame.GroupBy(animalJoined, func(p animalPair) string { return gender(p.Right) }),
			func(p animalPair) int64 { return p.Left.Row.ID },
		),
		AvgGuestsByGender: frame.CountDistinct(
			frame.GroupBy(guestJoined, func(p guestPair) string { return gender(p.Right) }),
			func(p guestPair) int64 { return p.Left.Row.ID },
		),
	}
	return out
}
