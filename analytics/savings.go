package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

// SavingsOpportunity pairs what we last paid for a product with the
// best current competitor price for the same normalized name. Unlike
// the regional_price detector this listing has no threshold: any
// positive gap shows up, sorted largest first.
type SavingsOpportunity struct {
	ProductId       int             `json:"product_id"`
	ProductName     string          `json:"product_name"`
	OurPrice        decimal.Decimal `json:"our_price"`
	BestPrice       decimal.Decimal `json:"best_price"`
	BestStoreId     int             `json:"best_store_id"`
	SavingsAmount   decimal.Decimal `json:"savings_amount"`
	SavingsPercent  decimal.Decimal `json:"savings_percent"`
	CompetitorCount int             `json:"competitor_count"`
}

// competitorSavings computes one product's opportunity, or nil when the
// product has no buy price, no fresh survey rows, or nobody beats us.
func competitorSavings(product *models.Product, competitors []*models.CompetitorPrice, cfg Config, now time.Time) *SavingsOpportunity {
	if product.LastPrice == nil || !product.LastPrice.IsPositive() {
		return nil
	}

	cutoff := now.AddDate(0, 0, -cfg.CompetitorMaxAgeDays)
	best := decimal.Zero
	bestStore := 0
	fresh := 0
	for _, row := range competitors {
		if row.ObservedDate.Before(cutoff) {
			continue
		}
		fresh++
		if best.IsZero() || row.Price.LessThan(best) {
			best = row.Price
			bestStore = row.StoreId
		}
	}
	if fresh == 0 {
		return nil
	}

	ourPrice := *product.LastPrice
	if !best.LessThan(ourPrice) {
		return nil
	}

	savings := ourPrice.Sub(best).Round(2)
	return &SavingsOpportunity{
		ProductId:       product.ID,
		ProductName:     product.Name,
		OurPrice:        ourPrice,
		BestPrice:       best,
		BestStoreId:     bestStore,
		SavingsAmount:   savings,
		SavingsPercent:  savings.Div(ourPrice).Mul(oneHundred).Round(1),
		CompetitorCount: fresh,
	}
}

// GetSavingsOpportunities walks the catalog and matches each product to
// its fresh competitor survey rows by normalized name.
func GetSavingsOpportunities(ctx context.Context, cfg Config, now time.Time) ([]SavingsOpportunity, error) {
	products, err := models.GetProducts(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	cutoff := now.AddDate(0, 0, -cfg.CompetitorMaxAgeDays)

	var results []SavingsOpportunity
	for _, product := range products {
		if product.LastPrice == nil {
			continue
		}
		competitors, err := models.LatestCompetitorPrices(ctx, product.NormalizedName, cutoff)
		if err != nil {
			return nil, err
		}
		if opp := competitorSavings(product, competitors, cfg, now); opp != nil {
			results = append(results, *opp)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].SavingsAmount.Equal(results[j].SavingsAmount) {
			return results[i].SavingsAmount.GreaterThan(results[j].SavingsAmount)
		}
		return results[i].ProductId < results[j].ProductId
	})
	return results, nil
}
