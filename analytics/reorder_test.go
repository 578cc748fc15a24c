package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(daysAgo int) time.Time {
	return testNow.AddDate(0, 0, -daysAgo)
}

func TestEstimateReorder_SingleOrderDateIsInsufficient(t *testing.T) {
	estimate := EstimateReorder(1, "flour 25lb", []time.Time{day(5)}, DefaultConfig(), testNow)
	if estimate.Urgency != ReorderUrgencyInsufficientData {
		t.Fatalf("one order date can never be overdue or due_soon, got %s", estimate.Urgency)
	}
	if estimate.LastOrderDate == nil {
		t.Fatal("last order date should still be reported")
	}
}

func TestEstimateReorder_NoHistory(t *testing.T) {
	estimate := EstimateReorder(1, "flour 25lb", nil, DefaultConfig(), testNow)
	if estimate.Urgency != ReorderUrgencyInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", estimate.Urgency)
	}
	if estimate.LastOrderDate != nil {
		t.Fatal("no orders means no last order date")
	}
}

func TestEstimateReorder_Overdue(t *testing.T) {
	// ordered every 7 days, last order 10 days ago
	dates := []time.Time{day(24), day(17), day(10)}
	estimate := EstimateReorder(1, "flour 25lb", dates, DefaultConfig(), testNow)

	if !estimate.AvgIntervalDays.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected 7-day cadence, got %s", estimate.AvgIntervalDays)
	}
	if estimate.Urgency != ReorderUrgencyOverdue {
		t.Fatalf("10 days since order on a 7-day cadence is overdue, got %s", estimate.Urgency)
	}
	if estimate.DaysOverdue != 3 {
		t.Fatalf("expected 3 days overdue, got %d", estimate.DaysOverdue)
	}
}

func TestEstimateReorder_DueSoon(t *testing.T) {
	// 7-day cadence, 5 days since last order: inside the 3-day grace band
	dates := []time.Time{day(19), day(12), day(5)}
	estimate := EstimateReorder(1, "flour 25lb", dates, DefaultConfig(), testNow)
	if estimate.Urgency != ReorderUrgencyDueSoon {
		t.Fatalf("expected due_soon, got %s", estimate.Urgency)
	}
}

func TestEstimateReorder_Ok(t *testing.T) {
	// 14-day cadence, 2 days since last order
	dates := []time.Time{day(30), day(16), day(2)}
	estimate := EstimateReorder(1, "flour 25lb", dates, DefaultConfig(), testNow)
	if estimate.Urgency != ReorderUrgencyOk {
		t.Fatalf("expected ok, got %s", estimate.Urgency)
	}
}

func TestEstimateReorder_DuplicateDatesCountOnce(t *testing.T) {
	// three invoice lines on the same day plus one a week earlier:
	// two distinct order dates, one 7-day gap
	dates := []time.Time{day(12), day(5), day(5), day(5)}
	estimate := EstimateReorder(1, "flour 25lb", dates, DefaultConfig(), testNow)
	if !estimate.AvgIntervalDays.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("same-day lines must dedupe; expected 7-day cadence, got %s", estimate.AvgIntervalDays)
	}
}
