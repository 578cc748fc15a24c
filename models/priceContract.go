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

// PriceContract is a negotiated price for a (product, vendor) pair over a
// date range. An open-ended contract has a nil EndDate. Overlapping
// contracts for the same pair are rejected at write time, so at most one
// contract governs any given date.
type PriceContract struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ProductId       int             `gorm:"index:idx_contract_pair;not null" json:"product_id"`
	VendorId        int             `gorm:"index:idx_contract_pair;not null" json:"vendor_id"`
	ContractedPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"contracted_price"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPriceContract struct {
	ProductId       int             `json:"product_id" binding:"required"`
	VendorId        int             `json:"vendor_id" binding:"required"`
	ContractedPrice decimal.Decimal `json:"contracted_price" binding:"required"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         *time.Time      `json:"end_date"`
	Notes           string          `json:"notes"`
}

func (input *NewPriceContract) validate(ctx context.Context, excludeId int) error {
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return errors.New("product not found")
	}
	if err := utils.ValidateResourceId[Vendor](ctx, input.VendorId); err != nil {
		return errors.New("vendor not found")
	}
	if !input.ContractedPrice.IsPositive() {
		return errors.New("contracted price must be positive")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return errors.New("end date is before start date")
	}

	// reject date-range overlap with any existing contract for the pair;
	// a nil end date means the contract runs forever
	db := config.GetDB()
	var count int64
	dbCtx := db.WithContext(ctx).Model(&PriceContract{}).
		Where("product_id = ? AND vendor_id = ?", input.ProductId, input.VendorId).
		Where("end_date IS NULL OR end_date >= ?", input.StartDate)
	if input.EndDate != nil {
		dbCtx = dbCtx.Where("start_date <= ?", *input.EndDate)
	}
	if excludeId != 0 {
		dbCtx = dbCtx.Where("id != ?", excludeId)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("contract overlaps an existing contract for this product and vendor")
	}
	return nil
}

func CreatePriceContract(ctx context.Context, input *NewPriceContract) (*PriceContract, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	contract := PriceContract{
		ProductId:       input.ProductId,
		VendorId:        input.VendorId,
		ContractedPrice: input.ContractedPrice,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Notes:           input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func UpdatePriceContract(ctx context.Context, id int, input *NewPriceContract) (*PriceContract, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	contract, err := utils.FetchModel[PriceContract](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(contract).
		Updates(map[string]interface{}{
			"ProductId":       input.ProductId,
			"VendorId":        input.VendorId,
			"ContractedPrice": input.ContractedPrice,
			"StartDate":       input.StartDate,
			"EndDate":         input.EndDate,
			"Notes":           input.Notes,
		}).Error
	if err != nil {
		return nil, err
	}
	return contract, nil
}

func DeletePriceContract(ctx context.Context, id int) (*PriceContract, error) {
	contract, err := utils.FetchModel[PriceContract](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func GetPriceContracts(ctx context.Context, productId, vendorId *int) ([]*PriceContract, error) {
	db := config.GetDB()
	var results []*PriceContract

	dbCtx := db.WithContext(ctx)
	if productId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if vendorId != nil {
		dbCtx = dbCtx.Where("vendor_id = ?", *vendorId)
	}
	err := dbCtx.Order("start_date DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ActiveContract returns the contract governing the pair on the given
// date, or nil when none does.
func ActiveContract(ctx context.Context, productId, vendorId int, on time.Time) (*PriceContract, error) {
	db := config.GetDB()
	var contract PriceContract
	err := db.WithContext(ctx).
		Where("product_id = ? AND vendor_id = ?", productId, vendorId).
		Where("start_date <= ?", on).
		Where("end_date IS NULL OR end_date >= ?", on).
		Order("start_date DESC").
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}
