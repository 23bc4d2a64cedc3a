package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable, fully-loaded copy of the three entity tables
// together with their guider relations. Reports are pure functions of a
// Snapshot; observing newer data requires a new Snapshot.
type Snapshot struct {
	id       string
	loadedAt time.Time

	animals []Animal
	guests  []Guest
	guiders []Guider

	animalIndex map[int64]int
	guestIndex  map[int64]int
	guiderIndex map[int64]int
}

// ValidationError reports a broken snapshot invariant.
type ValidationError struct {
	Collection string
	ID         int64
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Collection, e.ID, e.Message)
}

// NewSnapshot builds a snapshot from the given collections. The input is
// deep-copied, so later changes to the caller's slices are not observed.
//
// Ids must be unique within each collection and ages and service hours must
// not be negative. Guider ids referenced by animals or guests are not checked
// against the guider collection; a dangling reference simply never joins.
func NewSnapshot(animals []Animal, guests []Guest, guiders []Guider) (*Snapshot, error) {
	s := &Snapshot{
		id:          uuid.New().String(),
		loadedAt:    time.Now().UTC(),
		animals:     make([]Animal, 0, len(animals)),
		guests:      make([]Guest, 0, len(guests)),
		guiders:     make([]Guider, 0, len(guiders)),
		animalIndex: make(map[int64]int, len(animals)),
		guestIndex:  make(map[int64]int, len(guests)),
		guiderIndex: make(map[int64]int, len(guiders)),
	}

	for _, a := range animals {
		if _, dup := s.animalIndex[a.ID]; dup {
			return nil, &ValidationError{Collection: "animal", ID: a.ID, Message: "duplicate id"}
		}
		if a.Age < 0 {
			return nil, &ValidationError{Collection: "animal", ID: a.ID, Message: "age must not be negative"}
		}
		s.animalIndex[a.ID] = len(s.animals)
		s.animals = append(s.animals, a.clone())
	}

	for _, g := range guests {
		if _, dup := s.guestIndex[g.ID]; dup {
			return nil, &ValidationError{Collection: "guest", ID: g.ID, Message: "duplicate id"}
		}
		s.guestIndex[g.ID] = len(s.guests)
		s.guests = append(s.guests, g.clone())
	}

	for _, g := range guiders {
		if _, dup := s.guiderIndex[g.ID]; dup {
			return nil, &ValidationError{Collection: "guider", ID: g.ID, Message: "duplicate id"}
		}
		if g.Age < 0 {
			return nil, &ValidationError{Collection: "guider", ID: g.ID, Message: "age must not be negative"}
		}
		if g.ServiceHours < 0 {
			return nil, &ValidationError{Collection: "guider", ID: g.ID, Message: "service hours must not be negative"}
		}
		s.guiderIndex[g.ID] = len(s.guiders)
		s.guiders = append(s.guiders, g)
	}

	return s, nil
}

// EmptySnapshot returns a snapshot with no rows in any collection.
func EmptySnapshot() *Snapshot {
	s, _ := NewSnapshot(nil, nil, nil)
	return s
}

// ID uniquely identifies this snapshot instance.
func (s *Snapshot) ID() string { return s.id }

// LoadedAt is the time the snapshot was assembled.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Animals returns a copy of the animals in load order.
func (s *Snapshot) Animals() []Animal {
	out := make([]Animal, len(s.animals))
	for i, a := range s.animals {
		out[i] = a.clone()
	}
	return out
}

// Guests returns a copy of the guests in load order.
func (s *Snapshot) Guests() []Guest {
	out := make([]Guest, len(s.guests))
	for i, g := range s.guests {
		out[i] = g.clone()
	}
	return out
}

// Guiders returns a copy of the guiders in load order.
func (s *Snapshot) Guiders() []Guider {
	out := make([]Guider, len(s.guiders))
	copy(out, s.guiders)
	return out
}

// Animal looks up an animal by id.
func (s *Snapshot) Animal(id int64) (Animal, bool) {
	i, ok := s.animalIndex[id]
	if !ok {
		return Animal{}, false
	}
	return s.animals[i].clone(), true
}

// Guest looks up a guest by id.
func (s *Snapshot) Guest(id int64) (Guest, bool) {
	i, ok := s.guestIndex[id]
	if !ok {
		return Guest{}, false
	}
	return s.guests[i].clone(), true
}

// Guider looks up a guider by id.
func (s *Snapshot) Guider(id int64) (Guider, bool) {
	i, ok := s.guiderIndex[id]
	if !ok {
		return Guider{}, false
	}
	return s.guiders[i], true
}

// Counts returns the number of animals, guests and guiders.
func (s *Snapshot) Counts() (animals, guests, guiders int) {
	return len(s.animals), len(s.guests), len(s.guiders)
}
