package models

import (
	"context"
	"strings"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog entity. One row per distinct
// normalized name; price rollup fields are recomputed on every new
// observation and never written by the ingestion layer directly.
type Product struct {
	ID             int    `gorm:"primary_key" json:"id"`
	Name           string `gorm:"size:500;not null" json:"name" binding:"required"`
	NormalizedName string `gorm:"size:500;uniqueIndex" json:"normalized_name"`
	Upc            string `gorm:"size:50" json:"upc"`
	CategoryId     int    `gorm:"index;default:0" json:"category_id"`
	LastVendorId   int    `gorm:"default:0" json:"last_vendor_id"`

	// rolling price stats over the full observation series
	LastPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"last_price"`
	AvgPrice  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"avg_price"`
	MinPrice  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"min_price"`
	MaxPrice  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"max_price"`

	// retail side, set by the owner for margin tracking
	SellPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sell_price"`
	UnitsPerCase int              `gorm:"default:0" json:"units_per_case"`
	TargetMargin *decimal.Decimal `gorm:"type:decimal(5,2)" json:"target_margin"`

	ReorderFrequencyDays int        `gorm:"default:0" json:"reorder_frequency_days"`
	LastOrderedDate      *time.Time `json:"last_ordered_date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type SellPriceUpdate struct {
	SellPrice    decimal.Decimal  `json:"sell_price" binding:"required"`
	UnitsPerCase *int             `json:"units_per_case"`
	TargetMargin *decimal.Decimal `json:"target_margin"`
}

// NormalizeProductName builds the matching key: lowercased, trimmed,
// inner whitespace collapsed.
func NormalizeProductName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id)
}

func GetProducts(ctx context.Context, name *string, categoryId *int) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if categoryId != nil {
		dbCtx = dbCtx.Where("category_id = ?", *categoryId)
	}
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// products with no category yet, for the categorize workflow
func GetUncategorizedProducts(ctx context.Context, limit int) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product
	if limit <= 0 {
		limit = 50
	}
	err := db.WithContext(ctx).
		Where("category_id = 0").
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func SetProductCategory(ctx context.Context, id int, categoryId int) (*Product, error) {
	if err := utils.ValidateResourceId[Category](ctx, categoryId); err != nil {
		return nil, err
	}
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(product).UpdateColumn("CategoryId", categoryId).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func BulkCategorizeProducts(ctx context.Context, productIds []int, categoryId int) (int64, error) {
	if err := utils.ValidateResourceId[Category](ctx, categoryId); err != nil {
		return 0, err
	}
	db := config.GetDB()
	tx := db.WithContext(ctx).Model(&Product{}).
		Where("id IN ?", utils.UniqueSlice(productIds)).
		UpdateColumn("category_id", categoryId)
	return tx.RowsAffected, tx.Error
}

// SetSellPrice records the retail shelf price used for margin tracking.
func SetSellPrice(ctx context.Context, id int, input *SellPriceUpdate) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"SellPrice": input.SellPrice,
	}
	if input.UnitsPerCase != nil {
		updates["UnitsPerCase"] = *input.UnitsPerCase
	}
	if input.TargetMargin != nil {
		updates["TargetMargin"] = *input.TargetMargin
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return product, nil
}
