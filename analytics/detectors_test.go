package analytics

import (
	"testing"
	"time"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. Detectors are pure over
// (product, series, now); that purity is what makes the engine's compute
// phase safe to parallelize, so it is validated directly here.

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func point(daysAgo int, price float64, qty float64, vendorId int) SeriesPoint {
	return SeriesPoint{
		Date:     testNow.AddDate(0, 0, -daysAgo),
		Price:    dec(price),
		Quantity: dec(qty),
		VendorId: vendorId,
	}
}

func TestDetectPriceIncrease_FlagsAboveThreshold(t *testing.T) {
	product := &models.Product{ID: 1, Name: "whole milk gal"}
	series := []SeriesPoint{
		point(30, 5.00, 10, 1),
		point(20, 5.00, 10, 1),
		point(10, 5.00, 10, 1),
		point(1, 6.00, 10, 1),
	}

	rec := DetectPriceIncrease(product, series, DefaultConfig(), testNow)
	if rec == nil {
		t.Fatal("expected a finding: 20% increase over a 10% threshold")
	}
	if rec.Type != models.RecommendationTypePriceIncrease {
		t.Fatalf("wrong type %s", rec.Type)
	}
	if rec.VendorId != 1 {
		t.Fatalf("expected vendor 1, got %d", rec.VendorId)
	}
	if !rec.ChangePercent.Equal(dec(20.0)) {
		t.Fatalf("expected 20.0%% change, got %s", rec.ChangePercent)
	}
	if !rec.ComparisonPrice.Equal(dec(5.00)) {
		t.Fatalf("expected baseline 5.00, got %s", rec.ComparisonPrice)
	}
}

func TestDetectPriceIncrease_BelowThresholdIsQuiet(t *testing.T) {
	product := &models.Product{ID: 1, Name: "whole milk gal"}
	series := []SeriesPoint{
		point(30, 5.00, 10, 1),
		point(20, 5.00, 10, 1),
		point(1, 5.20, 10, 1),
	}

	if rec := DetectPriceIncrease(product, series, DefaultConfig(), testNow); rec != nil {
		t.Fatalf("4%% increase must not trip a 10%% threshold, got %+v", rec)
	}
}

func TestDetectPriceIncrease_SinglePointIsInsufficient(t *testing.T) {
	product := &models.Product{ID: 1, Name: "whole milk gal"}
	series := []SeriesPoint{point(1, 6.00, 10, 1)}

	if rec := DetectPriceIncrease(product, series, DefaultConfig(), testNow); rec != nil {
		t.Fatal("one observation has no baseline; expected no finding")
	}
}

func TestDetectCheaperVendor_NamesTheCheaperVendor(t *testing.T) {
	// vendor 1 sells at $10 (3 buys, most recent), vendor 2 at $9 (1 buy)
	product := &models.Product{ID: 7, Name: "paper towels 12pk"}
	series := []SeriesPoint{
		point(40, 9.00, 5, 2),
		point(30, 10.00, 5, 1),
		point(15, 10.00, 5, 1),
		point(2, 10.00, 5, 1),
	}

	rec := DetectCheaperVendor(product, series, DefaultConfig(), testNow)
	if rec == nil {
		t.Fatal("expected a cheaper-vendor finding")
	}
	if rec.VendorId != 1 {
		t.Fatalf("current vendor should be 1, got %d", rec.VendorId)
	}
	if rec.AlternateVendorId == nil || *rec.AlternateVendorId != 2 {
		t.Fatalf("expected alternate vendor 2, got %v", rec.AlternateVendorId)
	}
	if !rec.SavingsAmount.Equal(dec(1.00)) {
		t.Fatalf("expected $1.00/unit savings, got %s", rec.SavingsAmount)
	}
}

func TestDetectCheaperVendor_CurrentCheapestIsQuiet(t *testing.T) {
	product := &models.Product{ID: 7, Name: "paper towels 12pk"}
	series := []SeriesPoint{
		point(30, 10.00, 5, 2),
		point(2, 9.00, 5, 1), // current vendor already cheapest
	}

	if rec := DetectCheaperVendor(product, series, DefaultConfig(), testNow); rec != nil {
		t.Fatalf("must never recommend switching away from the cheapest vendor, got %+v", rec)
	}
}

func TestDetectCheaperVendor_TieBreakPrefersMoreObservationsThenStatusQuo(t *testing.T) {
	product := &models.Product{ID: 7, Name: "paper towels 12pk"}

	// equal average price, current vendor has more observations: no finding
	series := []SeriesPoint{
		point(40, 9.00, 5, 2),
		point(30, 9.00, 5, 1),
		point(15, 9.00, 5, 1),
		point(2, 9.00, 5, 1),
	}
	if rec := DetectCheaperVendor(product, series, DefaultConfig(), testNow); rec != nil {
		t.Fatalf("tie resolved to current vendor must be quiet, got %+v", rec)
	}

	// fully tied (same avg, same count): status quo wins, no finding
	series = []SeriesPoint{
		point(40, 9.00, 5, 2),
		point(2, 9.00, 5, 1),
	}
	if rec := DetectCheaperVendor(product, series, DefaultConfig(), testNow); rec != nil {
		t.Fatalf("full tie must be quiet, got %+v", rec)
	}
}

func TestDetectCheaperVendor_SingleVendorIsQuiet(t *testing.T) {
	product := &models.Product{ID: 7, Name: "paper towels 12pk"}
	series := []SeriesPoint{
		point(30, 10.00, 5, 1),
		point(2, 12.00, 5, 1),
	}
	if rec := DetectCheaperVendor(product, series, DefaultConfig(), testNow); rec != nil {
		t.Fatal("one vendor cannot produce a switch recommendation")
	}
}

func TestDetectRegionalPrice(t *testing.T) {
	last := dec(10.00)
	product := &models.Product{ID: 3, Name: "orange juice 64oz", LastPrice: &last, LastVendorId: 4}

	fresh := testNow.AddDate(0, 0, -5)
	stale := testNow.AddDate(0, 0, -120)
	competitors := []*models.CompetitorPrice{
		{StoreId: 1, Price: dec(8.00), ObservedDate: fresh},
		{StoreId: 2, Price: dec(9.50), ObservedDate: fresh},
		{StoreId: 3, Price: dec(1.00), ObservedDate: stale}, // too old, ignored
	}

	rec := DetectRegionalPrice(product, competitors, DefaultConfig(), testNow)
	if rec == nil {
		t.Fatal("expected a regional-price finding: $8 vs $10 is a 20% undercut")
	}
	if !rec.ComparisonPrice.Equal(dec(8.00)) {
		t.Fatalf("stale row must not win; got comparison %s", rec.ComparisonPrice)
	}
	if rec.CompetitorCount == nil || *rec.CompetitorCount != 2 {
		t.Fatalf("expected 2 fresh stores, got %v", rec.CompetitorCount)
	}
	if !rec.ChangePercent.Equal(dec(20.0)) {
		t.Fatalf("expected 20.0%% savings, got %s", rec.ChangePercent)
	}
}

func TestDetectRegionalPrice_WithinThresholdIsQuiet(t *testing.T) {
	last := dec(10.00)
	product := &models.Product{ID: 3, Name: "orange juice 64oz", LastPrice: &last}
	competitors := []*models.CompetitorPrice{
		{StoreId: 1, Price: dec(9.50), ObservedDate: testNow.AddDate(0, 0, -5)},
	}
	if rec := DetectRegionalPrice(product, competitors, DefaultConfig(), testNow); rec != nil {
		t.Fatal("5% undercut is inside the 10% threshold; expected no finding")
	}
}

func TestDetectRegionalPrice_NoBuyPriceIsQuiet(t *testing.T) {
	product := &models.Product{ID: 3, Name: "orange juice 64oz"}
	competitors := []*models.CompetitorPrice{
		{StoreId: 1, Price: dec(1.00), ObservedDate: testNow},
	}
	if rec := DetectRegionalPrice(product, competitors, DefaultConfig(), testNow); rec != nil {
		t.Fatal("no observed buy price means no comparison")
	}
}

func TestDetectVolumeAnomaly(t *testing.T) {
	product := &models.Product{ID: 9, Name: "ice bags"}
	cfg := DefaultConfig() // 90-day lookback, 45-day half windows, ratio 2.0

	up := []SeriesPoint{
		point(80, 5.00, 10, 1), // baseline window
		point(30, 5.00, 25, 1), // recent window
	}
	rec := DetectVolumeAnomaly(product, up, cfg, testNow)
	if rec == nil || rec.Trend == nil || *rec.Trend != models.TrendDirectionUp {
		t.Fatalf("2.5x volume must flag an upward trend, got %+v", rec)
	}
	if !rec.SavingsAmount.IsZero() {
		t.Fatalf("volume anomalies are informational; savings must be 0, got %s", rec.SavingsAmount)
	}

	down := []SeriesPoint{
		point(80, 5.00, 25, 1),
		point(30, 5.00, 10, 1),
	}
	rec = DetectVolumeAnomaly(product, down, cfg, testNow)
	if rec == nil || rec.Trend == nil || *rec.Trend != models.TrendDirectionDown {
		t.Fatalf("volume at 0.4x must flag a downward trend, got %+v", rec)
	}

	steady := []SeriesPoint{
		point(80, 5.00, 10, 1),
		point(30, 5.00, 12, 1),
	}
	if rec := DetectVolumeAnomaly(product, steady, cfg, testNow); rec != nil {
		t.Fatalf("1.2x is normal variation, got %+v", rec)
	}
}

func TestDetectorsAreDeterministic(t *testing.T) {
	product := &models.Product{ID: 7, Name: "paper towels 12pk"}
	series := []SeriesPoint{
		point(40, 9.00, 5, 2),
		point(30, 10.00, 5, 1),
		point(2, 10.00, 5, 1),
	}
	cfg := DefaultConfig()

	first := DetectCheaperVendor(product, series, cfg, testNow)
	second := DetectCheaperVendor(product, series, cfg, testNow)
	if first == nil || second == nil {
		t.Fatal("expected findings on both runs")
	}
	if *first.AlternateVendorId != *second.AlternateVendorId ||
		!first.SavingsAmount.Equal(*second.SavingsAmount) ||
		first.Headline != second.Headline {
		t.Fatalf("same inputs produced different drafts:\n%+v\n%+v", first, second)
	}
}

func TestValidateDraftRejectsIncompletePayloads(t *testing.T) {
	bad := &models.Recommendation{
		Type:      models.RecommendationTypeCheaperVendor,
		ProductId: 1,
	}
	if err := validateDraft(bad); err == nil {
		t.Fatal("cheaper_vendor without alternate vendor must be rejected")
	}

	unknown := &models.Recommendation{Type: "mystery", ProductId: 1}
	if err := validateDraft(unknown); err == nil {
		t.Fatal("unknown recommendation type must be rejected")
	}
}
