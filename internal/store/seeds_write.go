package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/wildstat/pkg/core"
)

// WriteSeeds writes snap as the five seed files ReadSeeds understands,
// creating dir if needed. Existing files are overwritten.
func WriteSeeds(dir string, snap *core.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create seeds directory: %w", err)
	}

	itoa := func(v int64) string { return strconv.FormatInt(v, 10) }

	guiders := [][]string{{"id", "name", "age", "service_hours", "gender"}}
	for _, g := range snap.Guiders() {
		guiders = append(guiders, []string{itoa(g.ID), g.Name, strconv.Itoa(g.Age), strconv.Itoa(g.ServiceHours), g.Gender})
	}

	animals := [][]string{{"id", "name", "species", "age", "is_native"}}
	animalLinks := [][]string{{colAnimalID, colGuiderID}}
	for _, a := range snap.Animals() {
		animals = append(animals, []string{itoa(a.ID), a.Name, a.Species, strconv.Itoa(a.Age), strconv.FormatBool(a.IsNative)})
		for _, gid := range a.GuiderIDs {
			animalLinks = append(animalLinks, []string{itoa(a.ID), itoa(gid)})
		}
	}

	guests := [][]string{{"id", "name", "visit_date", "is_adult"}}
	guestLinks := [][]string{{colGuestID, colGuiderID}}
	for _, g := range snap.Guests() {
		guests = append(guests, []string{itoa(g.ID), g.Name, g.VisitDate, strconv.FormatBool(g.IsAdult)})
		for _, gid := range g.GuiderIDs {
			guestLinks = append(guestLinks, []string{itoa(g.ID), itoa(gid)})
		}
	}

	files := []struct {
		name string
		rows [][]string
	}{
		{SeedGuiders, guiders},
		{SeedAnimals, animals},
		{SeedGuests, guests},
		{SeedAnimalGuider, animalLinks},
		{SeedGuestGuider, guestLinks},
	}
	for _, f := range files {
		if err := writeCSV(filepath.Join(dir, f.name), f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
