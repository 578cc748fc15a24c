package models

import (
	"context"
	"errors"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// MonthlyBudget is a purchasing cap for one month, optionally per
// category. CategoryId 0 is the whole-store budget.
type MonthlyBudget struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Year         int             `gorm:"not null;index:idx_budget_month,unique" json:"year" binding:"required"`
	Month        int             `gorm:"not null;index:idx_budget_month,unique" json:"month" binding:"required"`
	CategoryId   int             `gorm:"default:0;index:idx_budget_month,unique" json:"category_id"`
	BudgetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"budget_amount"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type BudgetStatus struct {
	Budget    *MonthlyBudget  `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	UsedPct   decimal.Decimal `json:"used_pct"`
}

func SetMonthlyBudget(ctx context.Context, budget *MonthlyBudget) (*MonthlyBudget, error) {
	if budget.Month < 1 || budget.Month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}
	if budget.BudgetAmount.IsNegative() {
		return nil, errors.New("budget amount cannot be negative")
	}

	db := config.GetDB()
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year"}, {Name: "month"}, {Name: "category_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"budget_amount", "notes"}),
		}).
		Create(budget).Error
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// GetBudgetStatus compares the month's budget against confirmed invoice
// spend in that month. Spend for a category budget counts only items the
// owner filed under the category.
func GetBudgetStatus(ctx context.Context, year, month, categoryId int) (*BudgetStatus, error) {
	db := config.GetDB()

	var budget MonthlyBudget
	err := db.WithContext(ctx).
		Where("year = ? AND month = ? AND category_id = ?", year, month, categoryId).
		First(&budget).Error
	if err != nil {
		return nil, errors.New("no budget set for this month")
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var spent decimal.NullDecimal
	spendQuery := db.WithContext(ctx).
		Model(&Invoice{}).
		Select("SUM(invoices.total)").
		Where("invoices.invoice_date >= ? AND invoices.invoice_date < ?", monthStart, monthEnd).
		Where("invoices.status != ?", InvoiceStatusDisputed)
	if categoryId != 0 {
		spendQuery = db.WithContext(ctx).
			Model(&InvoiceItem{}).
			Select("SUM(invoice_items.total_price)").
			Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
			Joins("JOIN products ON products.normalized_name = LOWER(invoice_items.product_name)").
			Where("invoices.invoice_date >= ? AND invoices.invoice_date < ?", monthStart, monthEnd).
			Where("invoices.status != ?", InvoiceStatusDisputed).
			Where("products.category_id = ? OR invoice_items.category_override = ?", categoryId, categoryId)
	}
	if err := spendQuery.Scan(&spent).Error; err != nil {
		return nil, err
	}

	spentAmount := decimal.Zero
	if spent.Valid {
		spentAmount = spent.Decimal
	}

	usedPct := decimal.Zero
	if budget.BudgetAmount.IsPositive() {
		usedPct = spentAmount.Div(budget.BudgetAmount).Mul(decimal.NewFromInt(100)).Round(1)
	}

	return &BudgetStatus{
		Budget:    &budget,
		Spent:     spentAmount,
		Remaining: budget.BudgetAmount.Sub(spentAmount),
		UsedPct:   usedPct,
	}, nil
}
