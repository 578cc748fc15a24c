package analytics

import (
	"testing"

	"github.com/appletreemkt/purchases_backend/models"
)

func TestComputeMargin(t *testing.T) {
	sell := dec(10.00)
	last := dec(7.00)
	product := &models.Product{
		ID:           1,
		Name:         "olive oil 1L",
		SellPrice:    &sell,
		LastPrice:    &last,
		UnitsPerCase: 1,
	}

	result := ComputeMargin(product, DefaultConfig())
	if result.MarginPercent == nil {
		t.Fatal("expected a computed margin")
	}
	if !result.MarginPercent.Equal(dec(30.0)) {
		t.Fatalf("sell 10, cost 7 is a 30.0%% margin, got %s", result.MarginPercent)
	}
	if result.Status != MarginStatusOk {
		t.Fatalf("30%% over a 25%% default target is ok, got %s", result.Status)
	}
}

func TestComputeMargin_NoSellPriceIsNotZero(t *testing.T) {
	last := dec(7.00)
	product := &models.Product{ID: 1, Name: "olive oil 1L", LastPrice: &last}

	result := ComputeMargin(product, DefaultConfig())
	if result.MarginPercent != nil {
		t.Fatalf("no sell price means no margin, not zero; got %s", result.MarginPercent)
	}
	if result.Status != MarginStatusNotApplicable {
		t.Fatalf("expected not_applicable, got %s", result.Status)
	}
}

func TestComputeMargin_BelowTarget(t *testing.T) {
	sell := dec(10.00)
	last := dec(9.00)
	target := dec(20.0)
	product := &models.Product{
		ID:           1,
		Name:         "olive oil 1L",
		SellPrice:    &sell,
		LastPrice:    &last,
		UnitsPerCase: 1,
		TargetMargin: &target,
	}

	result := ComputeMargin(product, DefaultConfig())
	if result.Status != MarginStatusBelow {
		t.Fatalf("10%% margin under a 20%% target must flag below, got %s", result.Status)
	}
	if !result.TargetMargin.Equal(target) {
		t.Fatalf("per-product target must win over the default, got %s", result.TargetMargin)
	}
}

func TestComputeMargin_CaseMathUsesUnitsPerCase(t *testing.T) {
	// sold by the unit at $2, bought by the case of 12 at $18
	sell := dec(2.00)
	last := dec(18.00)
	product := &models.Product{
		ID:           1,
		Name:         "soda 12pk",
		SellPrice:    &sell,
		LastPrice:    &last,
		UnitsPerCase: 12,
	}

	result := ComputeMargin(product, DefaultConfig())
	if result.MarginPercent == nil {
		t.Fatal("expected a computed margin")
	}
	// revenue 24, cost 18 -> 25.0%
	if !result.MarginPercent.Equal(dec(25.0)) {
		t.Fatalf("expected 25.0%%, got %s", result.MarginPercent)
	}
}
