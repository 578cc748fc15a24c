package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/shopspring/decimal"
)

type ReorderUrgency string

const (
	ReorderUrgencyInsufficientData ReorderUrgency = "insufficient_data"
	ReorderUrgencyOk               ReorderUrgency = "ok"
	ReorderUrgencyDueSoon          ReorderUrgency = "due_soon"
	ReorderUrgencyOverdue          ReorderUrgency = "overdue"
)

type ReorderEstimate struct {
	ProductId       int             `json:"product_id"`
	ProductName     string          `json:"product_name"`
	AvgIntervalDays decimal.Decimal `json:"avg_interval_days"`
	LastOrderDate   *time.Time      `json:"last_order_date"`
	DaysSinceOrder  int             `json:"days_since_order"`
	DaysOverdue     int             `json:"days_overdue"`
	Urgency         ReorderUrgency  `json:"urgency"`
}

// EstimateReorder infers a product's ordering cadence from its distinct
// order dates. Multiple lines on one day count once; the mean of the
// consecutive gaps is the expected interval. Fewer than two distinct
// dates cannot produce a cadence, so urgency stays insufficient_data
// and nothing downstream suggests a reorder.
func EstimateReorder(productId int, productName string, orderDates []time.Time, cfg Config, now time.Time) ReorderEstimate {
	days := distinctDays(orderDates)

	estimate := ReorderEstimate{
		ProductId:   productId,
		ProductName: productName,
		Urgency:     ReorderUrgencyInsufficientData,
	}
	if len(days) == 0 {
		return estimate
	}

	last := days[len(days)-1]
	estimate.LastOrderDate = &last
	estimate.DaysSinceOrder = daysBetween(last, now)
	if len(days) < 2 {
		return estimate
	}

	totalGap := 0
	for i := 1; i < len(days); i++ {
		totalGap += daysBetween(days[i-1], days[i])
	}
	avgInterval := decimal.NewFromInt(int64(totalGap)).
		Div(decimal.NewFromInt(int64(len(days) - 1))).Round(1)
	estimate.AvgIntervalDays = avgInterval

	expected := avgInterval.Mul(cfg.OverdueMultiplier)
	sinceLast := decimal.NewFromInt(int64(estimate.DaysSinceOrder))
	switch {
	case sinceLast.GreaterThan(expected):
		estimate.Urgency = ReorderUrgencyOverdue
		estimate.DaysOverdue = int(sinceLast.Sub(avgInterval).IntPart())
	case sinceLast.GreaterThanOrEqual(expected.Sub(decimal.NewFromInt(int64(cfg.DueSoonGraceDays)))):
		estimate.Urgency = ReorderUrgencyDueSoon
	default:
		estimate.Urgency = ReorderUrgencyOk
	}
	return estimate
}

// GetReorderSuggestions runs the estimator across the catalog and
// returns products that are due soon or overdue, most overdue first.
func GetReorderSuggestions(ctx context.Context, cfg Config, now time.Time) ([]ReorderEstimate, error) {
	products, err := models.GetProducts(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	var suggestions []ReorderEstimate
	for _, product := range products {
		dates, err := models.GetOrderDates(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		estimate := EstimateReorder(product.ID, product.Name, dates, cfg, now)
		if estimate.Urgency == ReorderUrgencyOverdue || estimate.Urgency == ReorderUrgencyDueSoon {
			suggestions = append(suggestions, estimate)
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].DaysOverdue > suggestions[j].DaysOverdue
	})
	return suggestions, nil
}

// distinctDays truncates to calendar days, dedupes, and sorts ascending.
func distinctDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	var days []time.Time
	for _, d := range dates {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
