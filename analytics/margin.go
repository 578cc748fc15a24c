package analytics

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

type MarginStatus string

const (
	MarginStatusOk            MarginStatus = "ok"
	MarginStatusBelow         MarginStatus = "below"
	MarginStatusNotApplicable MarginStatus = "not_applicable"
)

// MarginResult distinguishes "no sell price set" (nil MarginPercent,
// not_applicable) from a computed zero margin.
type MarginResult struct {
	ProductId     int              `json:"product_id"`
	ProductName   string           `json:"product_name"`
	MarginPercent *decimal.Decimal `json:"margin_percent"`
	TargetMargin  decimal.Decimal  `json:"target_margin"`
	Status        MarginStatus     `json:"status"`
}

// ComputeMargin: revenue per case is sell price times units per case;
// cost is the latest buy price. Margin is (revenue - cost) / revenue,
// rounded to one decimal.
func ComputeMargin(product *models.Product, cfg Config) MarginResult {
	result := MarginResult{
		ProductId:    product.ID,
		ProductName:  product.Name,
		TargetMargin: cfg.DefaultTargetMargin,
		Status:       MarginStatusNotApplicable,
	}
	if product.TargetMargin != nil {
		result.TargetMargin = *product.TargetMargin
	}
	if product.SellPrice == nil || product.LastPrice == nil {
		return result
	}

	units := product.UnitsPerCase
	if units <= 0 {
		units = 1
	}
	revenue := product.SellPrice.Mul(decimal.NewFromInt(int64(units)))
	if !revenue.IsPositive() {
		return result
	}

	margin := revenue.Sub(*product.LastPrice).Div(revenue).Mul(oneHundred).Round(1)
	result.MarginPercent = &margin
	if margin.LessThan(result.TargetMargin) {
		result.Status = MarginStatusBelow
	} else {
		result.Status = MarginStatusOk
	}
	return result
}

// GetMarginReport computes margins across every product with a sell
// price; belowOnly filters to products under target.
func GetMarginReport(ctx context.Context, cfg Config, belowOnly bool) ([]MarginResult, error) {
	products, err := models.GetProducts(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	var results []MarginResult
	for _, product := range products {
		result := ComputeMargin(product, cfg)
		if result.Status == MarginStatusNotApplicable {
			continue
		}
		if belowOnly && result.Status != MarginStatusBelow {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

type ContractComplianceResult struct {
	Contract     *models.PriceContract `json:"contract"`
	ProductName  string                `json:"product_name"`
	VendorName   string                `json:"vendor_name"`
	CurrentPrice *decimal.Decimal      `json:"current_price"`
	IsViolated   bool                  `json:"is_violated"`
	OveragePct   *decimal.Decimal      `json:"overage_pct"`
}

// CheckContractCompliance compares each contract active on the given
// date against the latest observed price from that vendor. A contract
// with no observation yet reports a nil current price and is never
// flagged; absence of evidence is not a violation.
func CheckContractCompliance(ctx context.Context, now time.Time) ([]ContractComplianceResult, error) {
	contracts, err := models.GetPriceContracts(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	var results []ContractComplianceResult
	for _, contract := range contracts {
		if contract.StartDate.After(now) {
			continue
		}
		if contract.EndDate != nil && contract.EndDate.Before(now) {
			continue
		}

		result := ContractComplianceResult{Contract: contract}
		if product, err := models.GetProduct(ctx, contract.ProductId); err == nil {
			result.ProductName = product.Name
		}
		if vendor, err := models.GetVendor(ctx, contract.VendorId); err == nil {
			result.VendorName = vendor.Name
		}

		vendorId := contract.VendorId
		series, err := GetSeries(ctx, contract.ProductId, &vendorId, nil)
		if err != nil {
			return nil, err
		}
		if len(series) > 0 {
			current := series[len(series)-1].Price
			result.CurrentPrice = &current
			if current.GreaterThan(contract.ContractedPrice) {
				result.IsViolated = true
				overage := current.Sub(contract.ContractedPrice).
					Div(contract.ContractedPrice).Mul(oneHundred).Round(1)
				result.OveragePct = &overage
			}
		}
		results = append(results, result)
	}
	return results, nil
}
