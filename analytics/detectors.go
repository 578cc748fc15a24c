package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

// Detectors are pure: same product, series, competitor rows, and now
// always produce the same drafts. All time arithmetic uses the passed-in
// now; nothing here reads the wall clock or touches the database.

var oneHundred = decimal.NewFromInt(100)

// DetectPriceIncrease compares the newest observation to the trailing
// baseline average over every earlier point. Needs at least two points;
// fewer is insufficient data, not a finding.
func DetectPriceIncrease(product *models.Product, series []SeriesPoint, cfg Config, now time.Time) *models.Recommendation {
	if len(series) < 2 {
		return nil
	}

	recent := series[len(series)-1]
	baseline := decimal.Zero
	for _, pt := range series[:len(series)-1] {
		baseline = baseline.Add(pt.Price)
	}
	baseline = baseline.Div(decimal.NewFromInt(int64(len(series) - 1)))
	if !baseline.IsPositive() {
		return nil
	}

	change := recent.Price.Sub(baseline).Div(baseline)
	if change.LessThan(cfg.PriceIncreaseThreshold) {
		return nil
	}

	// savings estimate: the overpay per unit times trailing volume
	volume := decimal.Zero
	cutoff := now.AddDate(0, 0, -cfg.LookbackDays)
	for _, pt := range series {
		if !pt.Date.Before(cutoff) {
			volume = volume.Add(pt.Quantity)
		}
	}
	savings := recent.Price.Sub(baseline).Mul(volume).Round(2)
	changePct := change.Mul(oneHundred).Round(1)
	baselineRounded := baseline.Round(2)

	return &models.Recommendation{
		Type:            models.RecommendationTypePriceIncrease,
		ProductId:       product.ID,
		VendorId:        recent.VendorId,
		Priority:        priorityForSavings(savings),
		Headline:        fmt.Sprintf("%s is up %s%% over its usual price", product.Name, changePct),
		Detail:          fmt.Sprintf("Latest price %s vs trailing average %s. Consider negotiating or switching vendors.", recent.Price, baselineRounded),
		CurrentPrice:    &recent.Price,
		ComparisonPrice: &baselineRounded,
		ChangePercent:   &changePct,
		SavingsAmount:   &savings,
	}
}

type vendorPriceSummary struct {
	vendorId     int
	avgPrice     decimal.Decimal
	observations int
	lastDate     time.Time
}

// DetectCheaperVendor ranks vendors by average price within the lookback
// window. If the current vendor (most recent purchase) is not the
// cheapest, the finding names the cheaper one. Ties go to the vendor
// with more observations, then to the current vendor, which means no
// finding at all.
func DetectCheaperVendor(product *models.Product, series []SeriesPoint, cfg Config, now time.Time) *models.Recommendation {
	cutoff := now.AddDate(0, 0, -cfg.LookbackDays)

	byVendor := make(map[int]*vendorPriceSummary)
	var currentVendor int
	var currentDate time.Time
	for _, pt := range series {
		if pt.Date.Before(cutoff) {
			continue
		}
		s, ok := byVendor[pt.VendorId]
		if !ok {
			s = &vendorPriceSummary{vendorId: pt.VendorId}
			byVendor[pt.VendorId] = s
		}
		s.avgPrice = s.avgPrice.Add(pt.Price)
		s.observations++
		if pt.Date.After(s.lastDate) {
			s.lastDate = pt.Date
		}
		if pt.Date.After(currentDate) || currentVendor == 0 {
			currentDate = pt.Date
			currentVendor = pt.VendorId
		}
	}
	if len(byVendor) < 2 {
		return nil
	}

	summaries := make([]*vendorPriceSummary, 0, len(byVendor))
	for _, s := range byVendor {
		s.avgPrice = s.avgPrice.Div(decimal.NewFromInt(int64(s.observations))).Round(2)
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.avgPrice.Equal(b.avgPrice) {
			return a.avgPrice.LessThan(b.avgPrice)
		}
		if a.observations != b.observations {
			return a.observations > b.observations
		}
		// fully tied: prefer the status quo, then stable id order
		if a.vendorId == currentVendor {
			return true
		}
		if b.vendorId == currentVendor {
			return false
		}
		return a.vendorId < b.vendorId
	})

	cheapest := summaries[0]
	if cheapest.vendorId == currentVendor {
		return nil
	}

	var current *vendorPriceSummary
	for _, s := range summaries {
		if s.vendorId == currentVendor {
			current = s
			break
		}
	}
	if current == nil || !current.avgPrice.GreaterThan(cheapest.avgPrice) {
		return nil
	}

	gap := current.avgPrice.Sub(cheapest.avgPrice).Round(2)
	gapPct := gap.Div(current.avgPrice).Mul(oneHundred).Round(1)
	alternate := cheapest.vendorId

	return &models.Recommendation{
		Type:              models.RecommendationTypeCheaperVendor,
		ProductId:         product.ID,
		VendorId:          currentVendor,
		Priority:          priorityForSavings(gap),
		Headline:          fmt.Sprintf("%s is available %s%% cheaper from another vendor", product.Name, gapPct),
		Detail:            fmt.Sprintf("Current vendor averages %s; a cheaper vendor averages %s (saves %s per unit).", current.avgPrice, cheapest.avgPrice, gap),
		CurrentPrice:      &current.avgPrice,
		ComparisonPrice:   &cheapest.avgPrice,
		ChangePercent:     &gapPct,
		AlternateVendorId: &alternate,
		SavingsAmount:     &gap,
	}
}

// DetectRegionalPrice compares what we pay against current competitor
// survey rows matched by normalized name. Flags only when the best
// competitor price undercuts ours by more than the threshold.
func DetectRegionalPrice(product *models.Product, competitors []*models.CompetitorPrice, cfg Config, now time.Time) *models.Recommendation {
	if product.LastPrice == nil || !product.LastPrice.IsPositive() || len(competitors) == 0 {
		return nil
	}

	cutoff := now.AddDate(0, 0, -cfg.CompetitorMaxAgeDays)
	best := decimal.Zero
	fresh := 0
	for _, row := range competitors {
		if row.ObservedDate.Before(cutoff) {
			continue
		}
		fresh++
		if best.IsZero() || row.Price.LessThan(best) {
			best = row.Price
		}
	}
	if fresh == 0 {
		return nil
	}

	ourPrice := *product.LastPrice
	ceiling := ourPrice.Mul(decimal.NewFromInt(1).Sub(cfg.RegionalPriceThreshold))
	if !best.LessThan(ceiling) {
		return nil
	}

	savings := ourPrice.Sub(best).Round(2)
	savingsPct := savings.Div(ourPrice).Mul(oneHundred).Round(1)

	return &models.Recommendation{
		Type:            models.RecommendationTypeRegionalPrice,
		ProductId:       product.ID,
		VendorId:        product.LastVendorId,
		Priority:        priorityForSavings(savings),
		Headline:        fmt.Sprintf("%s sells for %s%% less nearby", product.Name, savingsPct),
		Detail:          fmt.Sprintf("We last paid %s; the best price seen at %d nearby stores is %s.", ourPrice, fresh, best),
		CurrentPrice:    &ourPrice,
		ComparisonPrice: &best,
		ChangePercent:   &savingsPct,
		SavingsAmount:   &savings,
		CompetitorCount: &fresh,
	}
}

// DetectVolumeAnomaly compares purchase volume in the recent half-window
// against the prior half-window of equal length. Informational only:
// savings is zero and the draft carries a trend direction for display.
func DetectVolumeAnomaly(product *models.Product, series []SeriesPoint, cfg Config, now time.Time) *models.Recommendation {
	window := cfg.LookbackDays / 2
	if window <= 0 {
		return nil
	}
	recentStart := now.AddDate(0, 0, -window)
	baselineStart := now.AddDate(0, 0, -2*window)

	recent := decimal.Zero
	baseline := decimal.Zero
	for _, pt := range series {
		switch {
		case !pt.Date.Before(recentStart):
			recent = recent.Add(pt.Quantity)
		case !pt.Date.Before(baselineStart):
			baseline = baseline.Add(pt.Quantity)
		}
	}
	if !baseline.IsPositive() || !recent.IsPositive() {
		return nil
	}

	ratio := recent.Div(baseline)
	var trend models.TrendDirection
	switch {
	case ratio.GreaterThanOrEqual(cfg.VolumeAnomalyRatio):
		trend = models.TrendDirectionUp
	case ratio.LessThanOrEqual(decimal.NewFromInt(1).Div(cfg.VolumeAnomalyRatio)):
		trend = models.TrendDirectionDown
	default:
		return nil
	}

	zero := decimal.Zero
	recentRounded := recent.Round(3)
	baselineRounded := baseline.Round(3)
	direction := "up"
	if trend == models.TrendDirectionDown {
		direction = "down"
	}

	return &models.Recommendation{
		Type:            models.RecommendationTypeVolumeAnomaly,
		ProductId:       product.ID,
		VendorId:        0,
		Priority:        models.RecommendationPriorityLow,
		Headline:        fmt.Sprintf("Purchase volume for %s is sharply %s", product.Name, direction),
		Detail:          fmt.Sprintf("Bought %s in the last %d days vs %s in the %d days before.", recentRounded, window, baselineRounded, window),
		SavingsAmount:   &zero,
		RecentQuantity:  &recentRounded,
		TypicalQuantity: &baselineRounded,
		Trend:           &trend,
	}
}

func priorityForSavings(savings decimal.Decimal) models.RecommendationPriority {
	switch {
	case savings.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return models.RecommendationPriorityHigh
	case savings.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return models.RecommendationPriorityMedium
	default:
		return models.RecommendationPriorityLow
	}
}
