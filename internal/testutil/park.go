package testutil

import (
	"testing"

	"github.com/leapstack-labs/wildstat/pkg/core"
)

// SmallPark returns a two-guider park with links in both relations and one
// unlinked animal.
func SmallPark(t testing.TB) *core.Snapshot {
	t.Helper()
	snap, err := core.NewSnapshot(
		[]core.Animal{
			{ID: 1, Name: "Leo", Species: "Lion", Age: 4, IsNative: true, GuiderIDs: []int64{1, 2}},
			{ID: 2, Name: "Ella", Species: "Elephant", Age: 10, IsNative: false, GuiderIDs: []int64{}},
		},
		[]core.Guest{
			{ID: 1, Name: "Ann", VisitDate: "2024-01-05", IsAdult: true, GuiderIDs: []int64{2}},
			{ID: 2, Name: "Ben", VisitDate: "2024-02-11 09:30:00", IsAdult: false, GuiderIDs: []int64{1, 2}},
		},
		[]core.Guider{
			{ID: 1, Name: "Mo", Age: 31, Gender: "M", ServiceHours: 120},
			{ID: 2, Name: "Fay", Age: 44, Gender: "F", ServiceHours: 640},
		},
	)
	if err != nil {
		t.Fatalf("build park: %v", err)
	}
	return snap
}
