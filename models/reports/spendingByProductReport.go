package reports

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

type SpendingByProductResponse struct {
	ProductId     int             `json:"ProductId"`
	ProductName   *string         `json:"ProductName,omitempty"`
	CategoryName  *string         `json:"CategoryName,omitempty"`
	OrderCount    int             `json:"OrderCount"`
	TotalQuantity decimal.Decimal `json:"TotalQuantity"`
	TotalSpend    decimal.Decimal `json:"TotalSpend"`
	AvgUnitPrice  decimal.Decimal `json:"AvgUnitPrice"`
}

func GetSpendingByProductReport(ctx context.Context, fromDate, toDate time.Time, categoryId *int, limit int) ([]*SpendingByProductResponse, error) {
	sqlT := `
SELECT
    p.id product_id,
    p.name product_name,
    categories.name category_name,
    COUNT(o.id) order_count,
    SUM(o.quantity) total_quantity,
    SUM(o.price * o.quantity) total_spend,
    SUM(o.price * o.quantity) / SUM(o.quantity) avg_unit_price
FROM
    product_vendor_prices o
    JOIN products p ON p.id = o.product_id
    LEFT JOIN categories ON categories.id = p.category_id
WHERE
    o.observed_date BETWEEN @fromDate AND @toDate
    {{- if .categoryId }} AND p.category_id = @categoryId {{- end }}
GROUP BY
    p.id, p.name, categories.name
ORDER BY total_spend DESC
LIMIT @limit;
	`
	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"categoryId": utils.DereferencePtr(categoryId, 0) > 0,
	})
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*SpendingByProductResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate":   fromDate,
		"toDate":     toDate,
		"categoryId": categoryId,
		"limit":      limit,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
