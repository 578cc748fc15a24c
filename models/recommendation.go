package models

import (
	"context"
	"errors"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recommendation is a single actionable finding from the analytics engine.
// The payload columns are a typed union over the four finding kinds; each
// kind fills only the columns that apply and leaves the rest null. Which
// columns a kind fills is fixed by the detector that produces it.
type Recommendation struct {
	ID        int                  `gorm:"primary_key" json:"id"`
	Type      RecommendationType   `gorm:"type:enum('price_increase','cheaper_vendor','regional_price','volume_anomaly');not null;index:idx_rec_dedup" json:"type"`
	ProductId int                  `gorm:"not null;index:idx_rec_dedup" json:"product_id"`
	VendorId  int                  `gorm:"default:0;index:idx_rec_dedup" json:"vendor_id"`
	Status    RecommendationStatus `gorm:"type:enum('Open','Dismissed','ActedOn');not null;default:'Open';index" json:"status"`

	Priority RecommendationPriority `gorm:"type:enum('High','Medium','Low');not null;default:'Medium'" json:"priority"`
	Headline string                 `gorm:"size:500;not null" json:"headline"`
	Detail   string                 `gorm:"type:text" json:"detail"`

	// price_increase and cheaper_vendor
	CurrentPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"current_price"`
	ComparisonPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"comparison_price"`
	ChangePercent   *decimal.Decimal `gorm:"type:decimal(6,1)" json:"change_percent"`

	// cheaper_vendor
	AlternateVendorId *int             `json:"alternate_vendor_id"`
	SavingsAmount     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"savings_amount"`

	// regional_price
	CompetitorCount *int `json:"competitor_count"`

	// volume_anomaly
	RecentQuantity  *decimal.Decimal `gorm:"type:decimal(10,3)" json:"recent_quantity"`
	TypicalQuantity *decimal.Decimal `gorm:"type:decimal(10,3)" json:"typical_quantity"`
	Trend           *TrendDirection  `gorm:"type:enum('Up','Down')" json:"trend"`

	ExpiresAt  *time.Time `json:"expires_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
	ResolvedBy string     `gorm:"size:255" json:"resolved_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

var ErrRecommendationTerminal = errors.New("recommendation is already resolved")

// UpsertRecommendation writes a finding with in-place dedup: if an Open
// recommendation with the same (type, product, vendor) key exists, its
// payload is refreshed and CreatedAt is left alone. Dismissed and ActedOn
// rows never match, so a finding that recurs after resolution produces a
// fresh row. Callers serialize the write phase; this function assumes no
// concurrent writer for the same key.
func UpsertRecommendation(ctx context.Context, rec *Recommendation) (*Recommendation, error) {
	db := config.GetDB()

	var existing Recommendation
	err := db.WithContext(ctx).
		Where("type = ? AND product_id = ? AND vendor_id = ? AND status = ?",
			rec.Type, rec.ProductId, rec.VendorId, RecommendationStatusOpen).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		rec.Status = RecommendationStatusOpen
		if err := db.WithContext(ctx).Create(rec).Error; err != nil {
			return nil, err
		}
		return rec, nil
	}

	err = db.WithContext(ctx).Model(&existing).
		Updates(map[string]interface{}{
			"Priority":          rec.Priority,
			"Headline":          rec.Headline,
			"Detail":            rec.Detail,
			"CurrentPrice":      rec.CurrentPrice,
			"ComparisonPrice":   rec.ComparisonPrice,
			"ChangePercent":     rec.ChangePercent,
			"AlternateVendorId": rec.AlternateVendorId,
			"SavingsAmount":     rec.SavingsAmount,
			"CompetitorCount":   rec.CompetitorCount,
			"RecentQuantity":    rec.RecentQuantity,
			"TypicalQuantity":   rec.TypicalQuantity,
			"Trend":             rec.Trend,
			"ExpiresAt":         rec.ExpiresAt,
		}).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// GetRecommendations lists recommendations, newest first. Open listings
// exclude rows whose ExpiresAt has passed; terminal listings do not.
func GetRecommendations(ctx context.Context, status *RecommendationStatus, recType *RecommendationType, productId *int, now time.Time, limit int) ([]*Recommendation, error) {
	db := config.GetDB()
	var results []*Recommendation

	dbCtx := db.WithContext(ctx)
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
		if *status == RecommendationStatusOpen {
			dbCtx = dbCtx.Where("expires_at IS NULL OR expires_at > ?", now)
		}
	}
	if recType != nil {
		dbCtx = dbCtx.Where("type = ?", *recType)
	}
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if limit <= 0 {
		limit = 100
	}
	err := dbCtx.Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DismissRecommendation(ctx context.Context, id int, resolvedBy string) (*Recommendation, error) {
	return resolveRecommendation(ctx, id, RecommendationStatusDismissed, resolvedBy)
}

func MarkRecommendationActedOn(ctx context.Context, id int, resolvedBy string) (*Recommendation, error) {
	return resolveRecommendation(ctx, id, RecommendationStatusActedOn, resolvedBy)
}

func resolveRecommendation(ctx context.Context, id int, status RecommendationStatus, resolvedBy string) (*Recommendation, error) {
	rec, err := utils.FetchModel[Recommendation](ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != RecommendationStatusOpen {
		return nil, ErrRecommendationTerminal
	}

	now := time.Now()
	db := config.GetDB()
	err = db.WithContext(ctx).Model(rec).
		Updates(map[string]interface{}{
			"Status":     status,
			"ResolvedAt": &now,
			"ResolvedBy": resolvedBy,
		}).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CountOpenRecommendations feeds the dashboard badge.
func CountOpenRecommendations(ctx context.Context, now time.Time) (int64, error) {
	return utils.ResourceCountWhere[Recommendation](ctx,
		"status = ? AND (expires_at IS NULL OR expires_at > ?)",
		RecommendationStatusOpen, now)
}
