package models

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// DailySales is one day of register totals, entered by the owner. Feeds
// the spend-vs-sales ratio on the dashboard.
type DailySales struct {
	ID               int             `gorm:"primary_key" json:"id"`
	SalesDate        time.Time       `gorm:"type:date;not null;uniqueIndex" json:"sales_date" binding:"required"`
	TotalSales       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_sales"`
	TransactionCount int             `gorm:"default:0" json:"transaction_count"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecordDailySales upserts on the date; re-entering a day replaces it.
func RecordDailySales(ctx context.Context, entry *DailySales) (*DailySales, error) {
	db := config.GetDB()
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sales_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_sales", "transaction_count", "notes"}),
		}).
		Create(entry).Error
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func GetDailySales(ctx context.Context, fromDate, toDate time.Time) ([]*DailySales, error) {
	db := config.GetDB()
	var results []*DailySales
	err := db.WithContext(ctx).
		Where("sales_date >= ? AND sales_date <= ?", fromDate, toDate).
		Order("sales_date ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SalesTotalBetween sums register sales over a window.
func SalesTotalBetween(ctx context.Context, fromDate, toDate time.Time) (decimal.Decimal, error) {
	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).
		Model(&DailySales{}).
		Select("SUM(total_sales)").
		Where("sales_date >= ? AND sales_date <= ?", fromDate, toDate).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
