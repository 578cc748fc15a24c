package reports

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

// DeadStockResponse lists products that used to be ordered regularly but
// have gone quiet: last order older than the cutoff, with enough history
// to rule out one-off buys.
type DeadStockResponse struct {
	ProductId       int              `json:"ProductId"`
	ProductName     *string          `json:"ProductName,omitempty"`
	CategoryName    *string          `json:"CategoryName,omitempty"`
	LastOrderedDate *time.Time       `json:"LastOrderedDate"`
	DaysSinceOrder  int              `json:"DaysSinceOrder"`
	OrderCount      int              `json:"OrderCount"`
	LastPrice       *decimal.Decimal `json:"LastPrice"`
}

func GetDeadStockReport(ctx context.Context, asOf time.Time, quietDays, minOrders int) ([]*DeadStockResponse, error) {
	if quietDays <= 0 {
		quietDays = 60
	}
	if minOrders <= 0 {
		minOrders = 3
	}
	sqlT := `
SELECT
    p.id product_id,
    p.name product_name,
    categories.name category_name,
    MAX(o.observed_date) last_ordered_date,
    DATEDIFF(@asOf, MAX(o.observed_date)) days_since_order,
    COUNT(DISTINCT o.observed_date) order_count,
    p.last_price
FROM
    products p
    JOIN product_vendor_prices o ON o.product_id = p.id
    LEFT JOIN categories ON categories.id = p.category_id
GROUP BY
    p.id, p.name, categories.name, p.last_price
HAVING
    COUNT(DISTINCT o.observed_date) >= @minOrders
    AND MAX(o.observed_date) < DATE_SUB(@asOf, INTERVAL @quietDays DAY)
ORDER BY days_since_order DESC;
	`
	sql, err := utils.ExecTemplate(sqlT, nil)
	if err != nil {
		return nil, err
	}
	var results []*DeadStockResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"asOf":      asOf,
		"quietDays": quietDays,
		"minOrders": minOrders,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
