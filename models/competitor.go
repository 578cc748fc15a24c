package models

import (
	"context"
	"errors"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

type CompetitorStore struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name" binding:"required"`
	Location  string    `gorm:"size:255" json:"location"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CompetitorPrice is a manually surveyed retail price at a competitor.
// ProductName is normalized at write time so a row matches catalog
// products through the same key ingestion uses.
type CompetitorPrice struct {
	ID           int             `gorm:"primary_key" json:"id"`
	StoreId      int             `gorm:"index;not null" json:"store_id"`
	ProductName  string          `gorm:"size:500;not null" json:"product_name" binding:"required"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Unit         string          `gorm:"size:50" json:"unit"`
	ObservedDate time.Time       `gorm:"not null" json:"observed_date"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewCompetitorStore struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type NewCompetitorPrice struct {
	StoreId      int             `json:"store_id" binding:"required"`
	ProductName  string          `json:"product_name" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Unit         string          `json:"unit"`
	ObservedDate *time.Time      `json:"observed_date"`
	Notes        string          `json:"notes"`
}

func CreateCompetitorStore(ctx context.Context, input *NewCompetitorStore) (*CompetitorStore, error) {
	if err := utils.ValidateUnique[CompetitorStore](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	store := CompetitorStore{
		Name:     input.Name,
		Location: input.Location,
		Notes:    input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&store).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[CompetitorStore](); err != nil {
		return nil, err
	}
	return &store, nil
}

func GetCompetitorStores(ctx context.Context) ([]*CompetitorStore, error) {
	results, err := utils.RetrieveRedisList[CompetitorStore]()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[CompetitorStore](ctx)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[CompetitorStore](results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func CreateCompetitorPrice(ctx context.Context, input *NewCompetitorPrice) (*CompetitorPrice, error) {
	if err := utils.ValidateResourceId[CompetitorStore](ctx, input.StoreId); err != nil {
		return nil, errors.New("competitor store not found")
	}
	if !input.Price.IsPositive() {
		return nil, errors.New("price must be positive")
	}

	observed := time.Now()
	if input.ObservedDate != nil {
		observed = *input.ObservedDate
	}

	price := CompetitorPrice{
		StoreId:      input.StoreId,
		ProductName:  NormalizeProductName(input.ProductName),
		Price:        input.Price,
		Unit:         input.Unit,
		ObservedDate: observed,
		Notes:        input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func GetCompetitorPrices(ctx context.Context, storeId *int, productName *string, limit int) ([]*CompetitorPrice, error) {
	db := config.GetDB()
	var results []*CompetitorPrice

	dbCtx := db.WithContext(ctx)
	if storeId != nil {
		dbCtx = dbCtx.Where("store_id = ?", *storeId)
	}
	if productName != nil && len(*productName) > 0 {
		dbCtx = dbCtx.Where("product_name LIKE ?", "%"+NormalizeProductName(*productName)+"%")
	}
	if limit <= 0 {
		limit = 100
	}
	err := dbCtx.Order("observed_date DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// LatestCompetitorPrices returns the freshest survey row per store for a
// normalized product name, ignoring rows older than the cutoff.
func LatestCompetitorPrices(ctx context.Context, normalizedName string, since time.Time) ([]*CompetitorPrice, error) {
	db := config.GetDB()
	var results []*CompetitorPrice
	err := db.WithContext(ctx).
		Where(`id IN (
			SELECT MAX(id) FROM competitor_prices
			WHERE product_name = ? AND observed_date >= ? GROUP BY store_id)`,
			normalizedName, since).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
