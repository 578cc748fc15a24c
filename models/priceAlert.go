package models

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

// PriceAlert is an immutable record of a notable price move observed
// during invoice materialization. Unlike recommendations, alerts are never
// deduplicated or revised; each one documents a single observation.
type PriceAlert struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ProductId     int             `gorm:"index;not null" json:"product_id"`
	VendorId      int             `gorm:"index;not null" json:"vendor_id"`
	InvoiceId     int             `gorm:"default:0" json:"invoice_id"`
	AlertType     PriceAlertType  `gorm:"type:enum('Increase','Decrease','ContractViolation');not null" json:"alert_type"`
	OldPrice      decimal.Decimal `gorm:"type:decimal(10,2)" json:"old_price"`
	NewPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"new_price"`
	ChangePercent decimal.Decimal `gorm:"type:decimal(6,1)" json:"change_percent"`
	IsRead        *bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func CreatePriceAlert(ctx context.Context, alert *PriceAlert) error {
	if alert.IsRead == nil {
		alert.IsRead = utils.NewFalse()
	}
	db := config.GetDB()
	return db.WithContext(ctx).Create(alert).Error
}

func GetPriceAlerts(ctx context.Context, unreadOnly bool, limit int) ([]*PriceAlert, error) {
	db := config.GetDB()
	var results []*PriceAlert

	dbCtx := db.WithContext(ctx)
	if unreadOnly {
		dbCtx = dbCtx.Where("is_read = ?", false)
	}
	if limit <= 0 {
		limit = 50
	}
	err := dbCtx.Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func MarkAlertRead(ctx context.Context, id int) (*PriceAlert, error) {
	alert, err := utils.FetchModel[PriceAlert](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(alert).UpdateColumn("IsRead", true).Error; err != nil {
		return nil, err
	}
	return alert, nil
}
