package analytics

import (
	"context"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
)

// ResolveProduct maps a raw line-item name to a catalog product, creating
// one when nothing matches. Matching order: exact normalized-name match,
// then a learned OCR correction applied and re-matched, then create.
//
// normalized_name is unique by construction; finding two products with
// the same key is a data-integrity fault and resolution fails loudly
// rather than silently picking one.
func ResolveProduct(ctx context.Context, rawName string, productCode string) (*models.Product, error) {
	normalized := models.NormalizeProductName(rawName)

	product, err := findByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}

	// second chance through the correction table
	corrections, err := models.CorrectionMap(ctx, models.CorrectionFieldProductName)
	if err != nil {
		return nil, err
	}
	if corrected, ok := corrections[normalized]; ok {
		correctedKey := models.NormalizeProductName(corrected)
		product, err = findByNormalizedName(ctx, correctedKey)
		if err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
		normalized = correctedKey
		rawName = corrected
	}

	created := models.Product{
		Name:           rawName,
		NormalizedName: normalized,
		Upc:            productCode,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func findByNormalizedName(ctx context.Context, normalized string) (*models.Product, error) {
	db := config.GetDB()
	var matches []*models.Product
	err := db.WithContext(ctx).
		Where("normalized_name = ?", normalized).
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, &ResolutionError{NormalizedName: normalized, MatchCount: len(matches)}
	}
}
