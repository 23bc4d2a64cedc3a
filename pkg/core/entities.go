package core

// Animal is an animal living in the park.
type Animal struct {
	// ID is unique within the animals collection
	ID int64 `json:"id"`
	// Name is the display name of the animal
	Name string `json:"name"`
	// Species is a free-form category (e.g., "Lion")
	Species string `json:"species"`
	// Age is the age in whole years
	Age int `json:"age"`
	// IsNative is true for native animals and false for imported ones
	IsNative bool `json:"is_native"`
	// GuiderIDs lists the related guiders, possibly empty
	GuiderIDs []int64 `json:"guider_ids"`
}

// Guest is a park visitor.
type Guest struct {
	// ID is unique within the guests collection
	ID int64 `json:"id"`
	// Name is the display name of the guest
	Name string `json:"name"`
	// VisitDate is the visit date as stored upstream. It is parsed with
	// ParseVisitDate only by the reports that need a calendar value.
	VisitDate string `json:"visit_date"`
	// IsAdult is true for adults and false for children
	IsAdult bool `json:"is_adult"`
	// GuiderIDs lists the related guiders, possibly empty
	GuiderIDs []int64 `json:"guider_ids"`
}

// Guider is a staff member who accompanies animals and guests.
type Guider struct {
	// ID is unique within the guiders collection
	ID int64 `json:"id"`
	// Name is the display name of the guider
	Name string `json:"name"`
	// Age is the age in whole years
	Age int `json:"age"`
	// Gender is a free-form category such as "M" or "F"
	Gender string `json:"gender"`
	// ServiceHours is the total number of hours served
	ServiceHours int `json:"service_hours"`
}

func (a Animal) clone() Animal {
	a.GuiderIDs = cloneIDs(a.GuiderIDs)
	return a
}

func (g Guest) clone() Guest {
	g.GuiderIDs = cloneIDs(g.GuiderIDs)
	return g
}

func cloneIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
