package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReliabilityScore_ZeroInvoices(t *testing.T) {
	cfg := DefaultConfig()
	if got := reliabilityScore(0, 0, 0, cfg); got != nil {
		t.Fatalf("zero invoices in the window must yield nil reliability, got %s", got)
	}
}

func TestReliabilityScore(t *testing.T) {
	cfg := DefaultConfig()

	got := reliabilityScore(10, 2, 1, cfg)
	if got == nil {
		t.Fatal("invoices present must yield a reliability score")
	}
	// 100 - (2/10)*50 - (1/10)*50 = 85
	if !got.Equal(dec(85.0)) {
		t.Fatalf("expected 85.0, got %s", got)
	}

	if clean := reliabilityScore(5, 0, 0, cfg); clean == nil || !clean.Equal(dec(100.0)) {
		t.Fatalf("clean record scores 100, got %v", clean)
	}
	if worst := reliabilityScore(2, 2, 2, cfg); worst == nil || !worst.IsZero() {
		t.Fatalf("fully shorted and disputed clamps to 0, got %v", worst)
	}
}

func TestCombineScores(t *testing.T) {
	cfg := DefaultConfig()
	reliability := dec(90.0)
	stability := dec(70.0)

	overall := combineScores(&reliability, &stability, cfg)
	if overall == nil {
		t.Fatal("both components present must yield an overall score")
	}
	// 90*0.6 + 70*0.4 = 82
	if !overall.Equal(dec(82.0)) {
		t.Fatalf("expected 82.0, got %s", overall)
	}
}

func TestCombineScores_MissingComponents(t *testing.T) {
	cfg := DefaultConfig()
	reliability := dec(90.0)

	if overall := combineScores(&reliability, nil, cfg); overall == nil || !overall.Equal(reliability) {
		t.Fatalf("single component must pass through unweighted, got %v", overall)
	}
	if overall := combineScores(nil, nil, cfg); overall != nil {
		t.Fatalf("no components means no overall score, got %s", overall)
	}
}

func TestClampScore(t *testing.T) {
	if got := clampScore(decimal.NewFromInt(-20)); !got.IsZero() {
		t.Fatalf("negative scores clamp to 0, got %s", got)
	}
	if got := clampScore(decimal.NewFromInt(140)); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("scores clamp to 100, got %s", got)
	}
	if got := clampScore(decimal.NewFromInt(55)); !got.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("in-range scores pass through, got %s", got)
	}
}
