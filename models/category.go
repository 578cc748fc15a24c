package models

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID                  int              `gorm:"primary_key" json:"id"`
	Name                string           `gorm:"size:100;not null;uniqueIndex" json:"name" binding:"required"`
	Description         string           `gorm:"type:text" json:"description"`
	TargetBudgetPercent *decimal.Decimal `gorm:"type:decimal(5,2)" json:"target_budget_percent"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name                string           `json:"name" binding:"required"`
	Description         string           `json:"description"`
	TargetBudgetPercent *decimal.Decimal `json:"target_budget_percent"`
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name:                input.Name,
		Description:         input.Description,
		TargetBudgetPercent: input.TargetBudgetPercent,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Category](); err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {
	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(category).
		Updates(map[string]interface{}{
			"Name":                input.Name,
			"Description":         input.Description,
			"TargetBudgetPercent": input.TargetBudgetPercent,
		}).Error
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Category](); err != nil {
		return nil, err
	}
	return category, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	return utils.FetchModel[Category](ctx, id)
}

// list all categories, redis or db, cache result
func GetCategories(ctx context.Context) ([]*Category, error) {
	results, err := utils.RetrieveRedisList[Category]()
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Category](ctx)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Category](results); err != nil {
			return nil, err
		}
	}
	return results, nil
}
