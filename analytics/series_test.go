package analytics

import (
	"testing"
)

func TestComputeSeriesStats_Ordering(t *testing.T) {
	series := []SeriesPoint{
		point(40, 4.50, 1, 1),
		point(30, 5.25, 1, 1),
		point(20, 4.00, 1, 2),
		point(10, 6.00, 1, 1),
	}

	stats, ok := ComputeSeriesStats(series)
	if !ok {
		t.Fatal("non-empty series must produce stats")
	}
	if !stats.Last.Equal(dec(6.00)) {
		t.Fatalf("last must be the newest point, got %s", stats.Last)
	}
	if !stats.Min.Equal(dec(4.00)) || !stats.Max.Equal(dec(6.00)) {
		t.Fatalf("min/max wrong: %s / %s", stats.Min, stats.Max)
	}
	// invariant: min <= avg <= max for any series of length >= 2
	if stats.Avg.LessThan(stats.Min) || stats.Avg.GreaterThan(stats.Max) {
		t.Fatalf("avg %s outside [%s, %s]", stats.Avg, stats.Min, stats.Max)
	}
}

func TestComputeSeriesStats_SingleObservation(t *testing.T) {
	series := []SeriesPoint{point(5, 3.33, 1, 1)}

	stats, ok := ComputeSeriesStats(series)
	if !ok {
		t.Fatal("one point is a valid series")
	}
	if !stats.Avg.Equal(stats.Min) || !stats.Min.Equal(stats.Max) || !stats.Max.Equal(dec(3.33)) {
		t.Fatalf("single point must collapse avg=min=max, got %+v", stats)
	}
}

func TestComputeSeriesStats_EmptySeries(t *testing.T) {
	if _, ok := ComputeSeriesStats(nil); ok {
		t.Fatal("empty series must report no stats, not zeros")
	}
}
