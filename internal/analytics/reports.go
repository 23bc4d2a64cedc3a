package analytics

import "github.com/leapstack-labs/wildstat/pkg/frame"

// Report is the result of one report builder.
type Report interface {
	Kind() Kind
}

// BasicStats summarizes animal ages and guider service hours.
type BasicStats struct {
	AnimalsStats frame.Summary `json:"animals_stats"`
	GuidersStats frame.Summary `json:"guiders_stats"`
	TotalAnimals int           `json:"total_animals"`
	TotalGuests  int           `json:"total_guests"`
	TotalGuiders int           `json:"total_guiders"`
}

// AnimalDistribution counts animals by origin and by species.
type AnimalDistribution struct {
	NativeVsImported    frame.Series[bool, int]   `json:"native_vs_imported"`
	SpeciesDistribution frame.Series[string, int] `json:"species_distribution"`
}

// GuestAnalysis holds the adult/child split and visits per calendar month.
type GuestAnalysis struct {
	AdultChildRatio frame.Series[bool, float64] `json:"adult_child_ratio"`
	VisitsByMonth   frame.Series[int, int]      `json:"visits_by_month"`
}

// GuiderAnalysis counts guiders by gender and averages their hours.
type GuiderAnalysis struct {
	GenderDistribution      frame.Series[string, int]     `json:"gender_distribution"`
	AvgServiceHoursByGender frame.Series[string, float64] `json:"avg_service_hours_by_gender"`
}

// ComplexAnalysis aggregates across the animal-guider and guest-guider
// relations.
type ComplexAnalysis struct {
	GuiderWorkload          GuiderWorkload    `json:"guider_workload"`
	GuestAnimalInteractions Interactions      `json:"guest_animal_interactions"`
	GuiderPerformance       GuiderPerformance `json:"guider_performance"`
}

// GuiderWorkload describes how many animals and guests each referenced
// guider is attached to.
type GuiderWorkload struct {
	AnimalsPerGuider frame.Summary `json:"animals_per_guider"`
	GuestsPerGuider  frame.Summary `json:"guests_per_guider"`
}

// Interactions counts joined relation pairs. Each count is taken over its
// own joined table; animal and guest pairs are never matched to each other.
type Interactions struct {
	NativeAnimalGuiderPairs int `json:"native_animal_guider_pairs"`
	AdultGuestGuiderPairs   int `json:"adult_guest_guider_pairs"`
	ChildGuestGuiderPairs   int `json:"child_guest_guider_pairs"`
}

// GuiderPerformance counts the distinct animals and guests linked to
// guiders of each gender. Only guiders with at least one link contribute.
type GuiderPerformance struct {
	AvgAnimalsByGender frame.Series[string, int] `json:"avg_animals_by_gender"`
	AvgGuestsByGender  frame.Series[string, int] `json:"avg_guests_by_gender"`
}

func (BasicStats) Kind() Kind         { return KindBasic }
func (AnimalDistribution) Kind() Kind { return KindAnimals }
func (GuestAnalysis) Kind() Kind      { return KindGuests }
func (GuiderAnalysis) Kind() Kind     { return KindGuiders }
func (ComplexAnalysis) Kind() Kind    { return KindComplex }

// Combined holds every report keyed by report name. Reports that were not
// computed are nil and omitted from the encoding.
type Combined struct {
	BasicStats         *BasicStats         `json:"basic_stats,omitempty"`
	AnimalDistribution *AnimalDistribution `json:"animal_distribution,omitempty"`
	GuestAnalysis      *GuestAnalysis      `json:"guest_analysis,omitempty"`
	GuiderAnalysis     *GuiderAnalysis     `json:"guider_analysis,omitempty"`
	ComplexAnalysis    *ComplexAnalysis    `json:"complex_analysis,omitempty"`
}

// Get returns the report of kind k, or nil if it is absent.
func (c *Combined) Get(k Kind) Report {
	switch k {
	case KindBasic:
		if c.BasicStats != nil {
			return *c.BasicStats
		}
	case KindAnimals:
		if c.AnimalDistribution != nil {
			return *c.AnimalDistribution
		}
	case KindGuests:
		if c.GuestAnalysis != nil {
			return *c.GuestAnalysis
		}
	case KindGuiders:
		if c.GuiderAnalysis != nil {
			return *c.GuiderAnalysis
		}
	case KindComplex:
		if c.ComplexAnalysis != nil {
			return *c.ComplexAnalysis
		}
	}
	return nil
}

// set stores r under its kind.
func (c *Combined) set(r Report) {
	switch v := r.(type) {
	case BasicStats:
		c.BasicStats = &v
	case AnimalDistribution:
		c.AnimalDistribution = &v
	case GuestAnalysis:
		c.GuestAnalysis = &v
	case GuiderAnalysis:
		c.GuiderAnalysis = &v
	case ComplexAnalysis:
		c.ComplexAnalysis = &v
	}
}

// Reports returns the present reports in combined-report order.
func (c *Combined) Reports() []Report {
	var out []Report
	for _, k := range kinds {
		if r := c.Get(k); r != nil {
			out = append(out, r)
		}
	}
	return out
}
