package analytics

import (
	"context"
	"math"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

// VendorScorecard is derived on read, never persisted. Reliability is
// nil when the vendor had no invoices in the window; no data is not the
// same as a perfect record. PriceStability is nil when no product has
// two observations to measure variance over.
type VendorScorecard struct {
	VendorId        int              `json:"vendor_id"`
	VendorName      string           `json:"vendor_name"`
	PeriodDays      int              `json:"period_days"`
	Reliability     *decimal.Decimal `json:"reliability"`
	PriceStability  *decimal.Decimal `json:"price_stability"`
	Overall         *decimal.Decimal `json:"overall"`
	TotalInvoices   int              `json:"total_invoices"`
	TotalSpent      decimal.Decimal  `json:"total_spent"`
	ProductCount    int              `json:"product_count"`
	ActiveContracts int              `json:"active_contracts"`
	ShortageCount   int              `json:"shortage_count"`
	DisputedCount   int              `json:"disputed_count"`
	PriceIncreases  int              `json:"price_increases"`
}

func ComposeVendorScorecard(ctx context.Context, vendorId int, periodDays int, cfg Config, now time.Time) (*VendorScorecard, error) {
	if periodDays <= 0 {
		periodDays = cfg.LookbackDays
	}
	since := now.AddDate(0, 0, -periodDays)

	vendor, err := models.GetVendor(ctx, vendorId)
	if err != nil {
		return nil, err
	}

	card := &VendorScorecard{
		VendorId:   vendorId,
		VendorName: vendor.Name,
		PeriodDays: periodDays,
	}

	db := config.GetDB()

	type invoiceRollup struct {
		Total     int
		Spent     decimal.NullDecimal
		Shortages int
		Disputed  int
	}
	var rollup invoiceRollup
	err = db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select(`COUNT(*) total,
			SUM(total) spent,
			SUM(CASE WHEN has_shortage THEN 1 ELSE 0 END) shortages,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) disputed`,
			models.InvoiceStatusDisputed).
		Where("vendor_id = ? AND invoice_date >= ?", vendorId, since).
		Scan(&rollup).Error
	if err != nil {
		return nil, err
	}
	card.TotalInvoices = rollup.Total
	card.ShortageCount = rollup.Shortages
	card.DisputedCount = rollup.Disputed
	if rollup.Spent.Valid {
		card.TotalSpent = rollup.Spent.Decimal
	}

	var productCount int64
	err = db.WithContext(ctx).
		Model(&models.PriceObservation{}).
		Where("vendor_id = ? AND observed_date >= ?", vendorId, since).
		Distinct("product_id").
		Count(&productCount).Error
	if err != nil {
		return nil, err
	}
	card.ProductCount = int(productCount)

	var activeContracts int64
	err = db.WithContext(ctx).
		Model(&models.PriceContract{}).
		Where("vendor_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)", vendorId, now, now).
		Count(&activeContracts).Error
	if err != nil {
		return nil, err
	}
	card.ActiveContracts = int(activeContracts)

	var increases int64
	err = db.WithContext(ctx).
		Model(&models.PriceAlert{}).
		Where("vendor_id = ? AND alert_type = ? AND created_at >= ?", vendorId, models.PriceAlertTypeIncrease, since).
		Count(&increases).Error
	if err != nil {
		return nil, err
	}
	card.PriceIncreases = int(increases)

	card.Reliability = reliabilityScore(card.TotalInvoices, card.ShortageCount, card.DisputedCount, cfg)

	stability, err := priceStability(ctx, vendorId, since)
	if err != nil {
		return nil, err
	}
	card.PriceStability = stability

	card.Overall = combineScores(card.Reliability, card.PriceStability, cfg)
	return card, nil
}

// reliabilityScore penalizes shortage and dispute rates against a
// perfect 100. Zero invoices in the window means no score at all, not
// a perfect or failing one.
func reliabilityScore(totalInvoices, shortages, disputes int, cfg Config) *decimal.Decimal {
	if totalInvoices <= 0 {
		return nil
	}
	invoices := decimal.NewFromInt(int64(totalInvoices))
	shortageRate := decimal.NewFromInt(int64(shortages)).Div(invoices)
	disputeRate := decimal.NewFromInt(int64(disputes)).Div(invoices)
	score := decimal.NewFromInt(100).
		Sub(shortageRate.Mul(cfg.ShortageWeight)).
		Sub(disputeRate.Mul(cfg.DisputeWeight))
	score = clampScore(score)
	return &score
}

// priceStability scores the inverse coefficient of variation of the
// vendor's prices, averaged per product so expensive and cheap items
// weigh equally. Needs at least one product with two observations.
func priceStability(ctx context.Context, vendorId int, since time.Time) (*decimal.Decimal, error) {
	db := config.GetDB()
	var observations []*models.PriceObservation
	err := db.WithContext(ctx).
		Where("vendor_id = ? AND observed_date >= ?", vendorId, since).
		Order("product_id, observed_date").
		Find(&observations).Error
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int][]float64)
	for _, obs := range observations {
		price, _ := obs.Price.Float64()
		byProduct[obs.ProductId] = append(byProduct[obs.ProductId], price)
	}

	var cvSum float64
	measured := 0
	for _, prices := range byProduct {
		if len(prices) < 2 {
			continue
		}
		mean := 0.0
		for _, p := range prices {
			mean += p
		}
		mean /= float64(len(prices))
		if mean <= 0 {
			continue
		}
		variance := 0.0
		for _, p := range prices {
			variance += (p - mean) * (p - mean)
		}
		variance /= float64(len(prices))
		cvSum += math.Sqrt(variance) / mean
		measured++
	}
	if measured == 0 {
		return nil, nil
	}

	avgCV := cvSum / float64(measured)
	score := clampScore(decimal.NewFromFloat(100 * (1 - avgCV)).Round(1))
	return &score, nil
}

// combineScores weights whatever components exist, renormalizing when
// one is missing; both missing means no overall score.
func combineScores(reliability, stability *decimal.Decimal, cfg Config) *decimal.Decimal {
	switch {
	case reliability != nil && stability != nil:
		overall := reliability.Mul(cfg.ReliabilityWeight).
			Add(stability.Mul(cfg.StabilityWeight)).Round(1)
		return &overall
	case reliability != nil:
		rounded := reliability.Round(1)
		return &rounded
	case stability != nil:
		rounded := stability.Round(1)
		return &rounded
	default:
		return nil
	}
}

func clampScore(score decimal.Decimal) decimal.Decimal {
	if score.IsNegative() {
		return decimal.Zero
	}
	if score.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return score
}
