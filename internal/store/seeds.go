package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/wildstat/pkg/core"
)

// Seed file names inside a seeds directory.
const (
	SeedGuiders      = "guiders.csv"
	SeedAnimals      = "animals.csv"
	SeedGuests       = "guests.csv"
	SeedAnimalGuider = "animal_guider.csv"
	SeedGuestGuider  = "guest_guider.csv"
)

// SeedError reports a malformed value in a seed file. Line is 1-based and
// counts the header.
type SeedError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *SeedError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *SeedError) Unwrap() error { return e.Err }

// ReadSeeds reads a snapshot from the CSV files in dir. Each file starts
// with a header row and columns are matched by name, so their order is
// free. A missing file is an empty table.
func ReadSeeds(dir string) (*core.Snapshot, error) {
	guiders, err := readSeed(dir, SeedGuiders, []string{"id", "name", "age", "service_hours", "gender"},
		func(r record) (core.Guider, error) {
			var g core.Guider
			var err error
			if g.ID, err = r.asInt64("id"); err != nil {
				return g, err
			}
			g.Name = r.str("name")
			if g.Age, err = r.asInt("age"); err != nil {
				return g, err
			}
			if g.ServiceHours, err = r.asInt("service_hours"); err != nil {
				return g, err
			}
			g.Gender = r.str("gender")
			return g, nil
		})
	if err != nil {
		return nil, err
	}

	animals, err := readSeed(dir, SeedAnimals, []string{"id", "name", "species", "age", "is_native"},
		func(r record) (core.Animal, error) {
			var a core.Animal
			var err error
			if a.ID, err = r.asInt64("id"); err != nil {
				return a, err
			}
			a.Name = r.str("name")
			a.Species = r.str("species")
			if a.Age, err = r.asInt("age"); err != nil {
				return a, err
			}
			if a.IsNative, err = r.asBool("is_native"); err != nil {
				return a, err
			}
			return a, nil
		})
	if err != nil {
		return nil, err
	}

	guests, err := readSeed(dir, SeedGuests, []string{"id", "name", "visit_date", "is_adult"},
		func(r record) (core.Guest, error) {
			var g core.Guest
			var err error
			if g.ID, err = r.asInt64("id"); err != nil {
				return g, err
			}
			g.Name = r.str("name")
			g.VisitDate = r.str("visit_date")
			if g.IsAdult, err = r.asBool("is_adult"); err != nil {
				return g, err
			}
			return g, nil
		})
	if err != nil {
		return nil, err
	}

	animalLinks, err := readLinks(dir, SeedAnimalGuider, colAnimalID)
	if err != nil {
		return nil, err
	}
	guestLinks, err := readLinks(dir, SeedGuestGuider, colGuestID)
	if err != nil {
		return nil, err
	}

	for i := range animals {
		animals[i].GuiderIDs = animalLinks[animals[i].ID]
	}
	for i := range guests {
		guests[i].GuiderIDs = guestLinks[guests[i].ID]
	}

	snap, err := core.NewSnapshot(animals, guests, guiders)
	if err != nil {
		return nil, fmt.Errorf("seeds in %s: %w", dir, err)
	}
	return snap, nil
}

func readLinks(dir, file, ownerCol string) (map[int64][]int64, error) {
	pairs, err := readSeed(dir, file, []string{ownerCol, colGuiderID},
		func(r record) ([2]int64, error) {
			owner, err := r.asInt64(ownerCol)
			if err != nil {
				return [2]int64{}, err
			}
			guider, err := r.asInt64(colGuiderID)
			if err != nil {
				return [2]int64{}, err
			}
			return [2]int64{owner, guider}, nil
		})
	if err != nil {
		return nil, err
	}

	links := make(map[int64][]int64)
	for _, p := range pairs {
		links[p[0]] = append(links[p[0]], p[1])
	}
	return links, nil
}

// record is one data row of a seed file with its header index.
type record struct {
	file   string
	line   int
	index  map[string]int
	fields []string
}

func (r record) str(col string) string {
	return strings.TrimSpace(r.fields[r.index[col]])
}

func (r record) fail(col string, err error) error {
	return &SeedError{File: r.file, Line: r.line, Column: col, Err: err}
}

func (r record) asInt64(col string) (int64, error) {
	v, err := strconv.ParseInt(r.str(col), 10, 64)
	if err != nil {
		return 0, r.fail(col, fmt.Errorf("invalid integer %q", r.str(col)))
	}
	return v, nil
}

func (r record) asInt(col string) (int, error) {
	v, err := strconv.Atoi(r.str(col))
	if err != nil {
		return 0, r.fail(col, fmt.Errorf("invalid integer %q", r.str(col)))
	}
	return v, nil
}

func (r record) asBool(col string) (bool, error) {
	v, err := strconv.ParseBool(r.str(col))
	if err != nil {
		return false, r.fail(col, fmt.Errorf("invalid boolean %q", r.str(col)))
	}
	return v, nil
}

func readSeed[T any](dir, file string, required []string, parse func(record) (T, error)) ([]T, error) {
	f, err := os.Open(filepath.Join(dir, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &SeedError{File: file, Line: 1, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, &SeedError{File: file, Line: 1, Column: col, Err: errors.New("missing column")}
		}
	}

	var out []T
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SeedError{File: file, Line: line, Err: err}
		}
		v, err := parse(record{file: file, line: line, index: index, fields: fields})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
