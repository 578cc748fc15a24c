package models

import (
	"context"
	"errors"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/shopspring/decimal"
)

// PriceObservation is one point in a product's price history: a line item
// from a confirmed invoice, resolved to a catalog product. The analytics
// engine reads these; only invoice materialization writes them.
type PriceObservation struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ProductId     int             `gorm:"index:idx_product_date;not null" json:"product_id"`
	VendorId      int             `gorm:"index;not null" json:"vendor_id"`
	InvoiceId     int             `gorm:"index;default:0" json:"invoice_id"`
	InvoiceItemId int             `gorm:"default:0" json:"invoice_item_id"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Unit          string          `gorm:"size:50" json:"unit"`
	ObservedDate  time.Time       `gorm:"index:idx_product_date;not null" json:"observed_date"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceObservation) TableName() string {
	return "product_vendor_prices"
}

// Validate enforces the observation invariants before insert.
func (obs *PriceObservation) Validate() error {
	if !obs.Quantity.IsPositive() {
		return errors.New("observation quantity must be positive")
	}
	if obs.Price.IsNegative() {
		return errors.New("observation price cannot be negative")
	}
	return nil
}

// GetPriceSeries returns observations for a product ordered oldest first,
// optionally restricted to one vendor and a date window.
func GetPriceSeries(ctx context.Context, productId int, vendorId *int, since *time.Time) ([]*PriceObservation, error) {
	db := config.GetDB()
	var results []*PriceObservation

	dbCtx := db.WithContext(ctx).Where("product_id = ?", productId)
	if vendorId != nil {
		dbCtx = dbCtx.Where("vendor_id = ?", *vendorId)
	}
	if since != nil {
		dbCtx = dbCtx.Where("observed_date >= ?", *since)
	}
	err := dbCtx.Order("observed_date ASC, id ASC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// LatestObservationPerVendor returns each vendor's most recent observation
// for a product, for cross-vendor comparison.
func LatestObservationPerVendor(ctx context.Context, productId int) ([]*PriceObservation, error) {
	db := config.GetDB()
	var results []*PriceObservation
	err := db.WithContext(ctx).
		Where(`id IN (
			SELECT MAX(id) FROM product_vendor_prices
			WHERE product_id = ? GROUP BY vendor_id)`, productId).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetOrderDates returns the distinct dates a product appeared on any
// invoice, oldest first. Feeds the reorder cadence estimator.
func GetOrderDates(ctx context.Context, productId int) ([]time.Time, error) {
	db := config.GetDB()
	var dates []time.Time
	err := db.WithContext(ctx).
		Model(&PriceObservation{}).
		Where("product_id = ?", productId).
		Distinct("observed_date").
		Order("observed_date ASC").
		Pluck("observed_date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// ActiveProductIds returns ids of products with at least one observation
// since the cutoff. The analytics engine runs over this set.
func ActiveProductIds(ctx context.Context, since time.Time) ([]int, error) {
	db := config.GetDB()
	var ids []int
	err := db.WithContext(ctx).
		Model(&PriceObservation{}).
		Where("observed_date >= ?", since).
		Distinct("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
