package reports

import (
	"context"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

// SeasonalPriceResponse is one product-month cell: the average paid price
// for that calendar month across all years of history. Months where the
// average sits well below the overall average are the cheap season.
type SeasonalPriceResponse struct {
	ProductId    int             `json:"ProductId"`
	ProductName  *string         `json:"ProductName,omitempty"`
	Month        int             `json:"Month"`
	AvgPrice     decimal.Decimal `json:"AvgPrice"`
	OverallAvg   decimal.Decimal `json:"OverallAvg"`
	SampleCount  int             `json:"SampleCount"`
	DeltaPercent decimal.Decimal `json:"DeltaPercent"`
}

func GetSeasonalPriceReport(ctx context.Context, productId *int, minSamples int) ([]*SeasonalPriceResponse, error) {
	if minSamples <= 0 {
		minSamples = 2
	}
	sqlT := `
WITH MonthlyAvg AS (
    SELECT
        o.product_id,
        MONTH(o.observed_date) mth,
        AVG(o.price) avg_price,
        COUNT(o.id) sample_count
    FROM
        product_vendor_prices o
    {{- if .productId }}
    WHERE o.product_id = @productId
    {{- end }}
    GROUP BY
        o.product_id, MONTH(o.observed_date)
),
OverallAvg AS (
    SELECT product_id, AVG(avg_price) overall_avg
    FROM MonthlyAvg
    GROUP BY product_id
)
SELECT
    m.product_id,
    p.name product_name,
    m.mth month,
    m.avg_price,
    o.overall_avg,
    m.sample_count,
    (m.avg_price - o.overall_avg) / o.overall_avg * 100 delta_percent
FROM
    MonthlyAvg m
    JOIN OverallAvg o ON o.product_id = m.product_id
    JOIN products p ON p.id = m.product_id
WHERE
    m.sample_count >= @minSamples
    AND o.overall_avg > 0
ORDER BY m.product_id, m.mth;
	`
	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"productId": utils.DereferencePtr(productId, 0) > 0,
	})
	if err != nil {
		return nil, err
	}
	var results []*SeasonalPriceResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"productId":  productId,
		"minSamples": minSamples,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
