package analytics

import (
	"testing"

	"github.com/appletreemkt/purchases_backend/models"
)

func competitorRow(storeId int, daysAgo int, price float64) *models.CompetitorPrice {
	return &models.CompetitorPrice{
		StoreId:      storeId,
		ProductName:  "orange juice 64oz",
		Price:        dec(price),
		ObservedDate: testNow.AddDate(0, 0, -daysAgo),
	}
}

func TestCompetitorSavings(t *testing.T) {
	last := dec(5.00)
	product := &models.Product{ID: 3, Name: "orange juice 64oz", LastPrice: &last}
	competitors := []*models.CompetitorPrice{
		competitorRow(1, 5, 4.00),
		competitorRow(2, 10, 4.50),
		competitorRow(3, 60, 3.00), // stale, must not win
	}

	opp := competitorSavings(product, competitors, DefaultConfig(), testNow)
	if opp == nil {
		t.Fatal("expected an opportunity: fresh competitor undercuts us")
	}
	if opp.BestStoreId != 1 || !opp.BestPrice.Equal(dec(4.00)) {
		t.Fatalf("expected store 1 at 4.00, got store %d at %s", opp.BestStoreId, opp.BestPrice)
	}
	if !opp.SavingsAmount.Equal(dec(1.00)) {
		t.Fatalf("expected savings 1.00, got %s", opp.SavingsAmount)
	}
	if !opp.SavingsPercent.Equal(dec(20.0)) {
		t.Fatalf("expected 20.0%%, got %s", opp.SavingsPercent)
	}
	if opp.CompetitorCount != 2 {
		t.Fatalf("stale rows must not count, got %d", opp.CompetitorCount)
	}
}

func TestCompetitorSavings_SmallGapStillListed(t *testing.T) {
	// the regional_price detector needs a 10% undercut; this listing
	// surfaces any positive gap
	last := dec(5.00)
	product := &models.Product{ID: 3, Name: "orange juice 64oz", LastPrice: &last}
	competitors := []*models.CompetitorPrice{competitorRow(1, 5, 4.90)}

	opp := competitorSavings(product, competitors, DefaultConfig(), testNow)
	if opp == nil {
		t.Fatal("expected an opportunity below the detector threshold")
	}
	if !opp.SavingsAmount.Equal(dec(0.10)) {
		t.Fatalf("expected savings 0.10, got %s", opp.SavingsAmount)
	}
}

func TestCompetitorSavings_Quiet(t *testing.T) {
	last := dec(5.00)
	product := &models.Product{ID: 3, Name: "orange juice 64oz", LastPrice: &last}

	if opp := competitorSavings(product, nil, DefaultConfig(), testNow); opp != nil {
		t.Fatalf("no survey rows means no opportunity, got %+v", opp)
	}
	pricier := []*models.CompetitorPrice{competitorRow(1, 5, 5.50)}
	if opp := competitorSavings(product, pricier, DefaultConfig(), testNow); opp != nil {
		t.Fatalf("pricier competitor means no opportunity, got %+v", opp)
	}
	stale := []*models.CompetitorPrice{competitorRow(1, 90, 2.00)}
	if opp := competitorSavings(product, stale, DefaultConfig(), testNow); opp != nil {
		t.Fatalf("stale rows alone mean no opportunity, got %+v", opp)
	}
	noBuyPrice := &models.Product{ID: 3, Name: "orange juice 64oz"}
	if opp := competitorSavings(noBuyPrice, []*models.CompetitorPrice{competitorRow(1, 5, 4.00)}, DefaultConfig(), testNow); opp != nil {
		t.Fatalf("no buy price means no opportunity, got %+v", opp)
	}
}
