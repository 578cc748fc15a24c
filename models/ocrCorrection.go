package models

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
)

// OCRCorrection is a learned mapping from a raw extracted string to the
// name the owner corrected it to. Ingestion applies the map before
// normalization, so repeated OCR mistakes stop creating duplicate
// products. The map is small and hot, so the full list is redis-cached.
type OCRCorrection struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	FieldType     CorrectionFieldType `gorm:"type:enum('product_name','vendor_name');not null;index:idx_correction,unique" json:"field_type"`
	RawText       string              `gorm:"size:500;not null;index:idx_correction,unique" json:"raw_text"`
	CorrectedText string              `gorm:"size:500;not null" json:"corrected_text"`
	HitCount      int                 `gorm:"default:0" json:"hit_count"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOCRCorrection struct {
	FieldType     CorrectionFieldType `json:"field_type" binding:"required"`
	RawText       string              `json:"raw_text" binding:"required"`
	CorrectedText string              `json:"corrected_text" binding:"required"`
}

// SaveOCRCorrection records a correction, overwriting the target text if
// the raw string was already mapped.
func SaveOCRCorrection(ctx context.Context, input *NewOCRCorrection) (*OCRCorrection, error) {
	raw := NormalizeProductName(input.RawText)

	db := config.GetDB()
	var existing OCRCorrection
	err := db.WithContext(ctx).
		Where("field_type = ? AND raw_text = ?", input.FieldType, raw).
		First(&existing).Error
	if err == nil {
		err = db.WithContext(ctx).Model(&existing).
			Updates(map[string]interface{}{
				"CorrectedText": input.CorrectedText,
				"HitCount":      existing.HitCount + 1,
			}).Error
		if err != nil {
			return nil, err
		}
		if err := utils.RemoveRedisList[OCRCorrection](); err != nil {
			return nil, err
		}
		return &existing, nil
	}

	correction := OCRCorrection{
		FieldType:     input.FieldType,
		RawText:       raw,
		CorrectedText: input.CorrectedText,
	}
	if err := db.WithContext(ctx).Create(&correction).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[OCRCorrection](); err != nil {
		return nil, err
	}
	return &correction, nil
}

func GetOCRCorrections(ctx context.Context) ([]*OCRCorrection, error) {
	results, err := utils.RetrieveRedisList[OCRCorrection]()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[OCRCorrection](ctx)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[OCRCorrection](results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func DeleteOCRCorrection(ctx context.Context, id int) (*OCRCorrection, error) {
	correction, err := utils.FetchModel[OCRCorrection](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(correction).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[OCRCorrection](); err != nil {
		return nil, err
	}
	return correction, nil
}

// CorrectionMap loads the correction table for one field type keyed by
// raw text, for ingestion-time lookup.
func CorrectionMap(ctx context.Context, fieldType CorrectionFieldType) (map[string]string, error) {
	corrections, err := GetOCRCorrections(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	for _, c := range corrections {
		if c.FieldType == fieldType {
			m[c.RawText] = c.CorrectedText
		}
	}
	return m, nil
}
