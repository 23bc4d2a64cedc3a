package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestReadSeeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SeedGuiders, "id,name,age,service_hours,gender\n1,Mo,31,120,M\n2,Fay,44,640,F\n")
	// Column order is free.
	writeFile(t, dir, SeedAnimals, "name,id,species,is_native,age\nLeo,1,Lion,true,4\nElla,2,Elephant,0,10\n")
	writeFile(t, dir, SeedGuests, "id,name,visit_date,is_adult\n1,Ann,2024-01-05,1\n2,\"Ben, Jr.\",2024-02-11,false\n")
	writeFile(t, dir, SeedAnimalGuider, "animal_id,guider_id\n1,2\n1,1\n")
	writeFile(t, dir, SeedGuestGuider, "guest_id,guider_id\n2,1\n")

	snap, err := ReadSeeds(dir)
	require.NoError(t, err)

	animals := snap.Animals()
	require.Len(t, animals, 2)
	assert.Equal(t, "Leo", animals[0].Name)
	assert.True(t, animals[0].IsNative)
	assert.Equal(t, []int64{2, 1}, animals[0].GuiderIDs, "file order is kept")
	assert.Empty(t, animals[1].GuiderIDs)
	assert.False(t, animals[1].IsNative)

	guests := snap.Guests()
	require.Len(t, guests, 2)
	assert.Equal(t, "Ben, Jr.", guests[1].Name)
	assert.Equal(t, []int64{1}, guests[1].GuiderIDs)

	guider, ok := snap.Guider(2)
	require.True(t, ok)
	assert.Equal(t, 640, guider.ServiceHours)
}

func TestReadSeeds_MissingFilesAreEmpty(t *testing.T) {
	snap, err := ReadSeeds(t.TempDir())
	require.NoError(t, err)

	animals, guests, guiders := snap.Counts()
	assert.Zero(t, animals+guests+guiders)
}

func TestReadSeeds_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		line    int
		column  string
		errSub  string
	}{
		{
			name:    "bad integer",
			file:    SeedGuiders,
			content: "id,name,age,service_hours,gender\n1,Mo,thirty,120,M\n",
			line:    2,
			column:  "age",
			errSub:  `guiders.csv:2: column age: invalid integer "thirty"`,
		},
		{
			name:    "bad boolean",
			file:    SeedAnimals,
			content: "id,name,species,age,is_native\n1,Leo,Lion,4,true\n2,Ella,Elephant,10,maybe\n",
			line:    3,
			column:  "is_native",
			errSub:  `invalid boolean "maybe"`,
		},
		{
			name:    "missing column",
			file:    SeedGuests,
			content: "id,name,is_adult\n1,Ann,true\n",
			line:    1,
			column:  "visit_date",
			errSub:  "missing column",
		},
		{
			name:    "ragged row",
			file:    SeedAnimalGuider,
			content: "animal_id,guider_id\n1\n",
			line:    2,
			errSub:  "animal_guider.csv:2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := ReadSeeds(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)

			var seedErr *SeedError
			require.True(t, errors.As(err, &seedErr))
			assert.Equal(t, tt.file, seedErr.File)
			assert.Equal(t, tt.line, seedErr.Line)
			assert.Equal(t, tt.column, seedErr.Column)
		})
	}
}

func TestReadSeeds_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SeedGuiders, "id,name,age,service_hours,gender\n1,Mo,31,120,M\n1,Fay,44,640,F\n")

	_, err := ReadSeeds(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestWriteSeeds_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "seeds")
	want := sampleSnapshot(t)

	require.NoError(t, WriteSeeds(dir, want))

	got, err := ReadSeeds(dir)
	require.NoError(t, err)
	assert.Equal(t, want.Animals(), got.Animals())
	assert.Equal(t, want.Guests(), got.Guests())
	assert.Equal(t, want.Guiders(), got.Guiders())
}
