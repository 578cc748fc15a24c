package models

import (
	"context"
	"errors"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
)

type Vendor struct {
	ID             int          `gorm:"primary_key" json:"id"`
	Name           string       `gorm:"size:255;not null" json:"name" binding:"required"`
	CategoryId     int          `gorm:"index;default:0" json:"category_id"`
	Address        string       `gorm:"type:text" json:"address"`
	Phone          string       `gorm:"size:50" json:"phone"`
	Email          string       `gorm:"size:255" json:"email"`
	ContactPerson  string       `gorm:"size:255" json:"contact_person"`
	PaymentTerms   PaymentTerms `gorm:"type:enum('DueOnReceipt','Net15','Net30','Net45','Net60','Custom');not null;default:'Net30'" json:"payment_terms"`
	DefaultDueDays int          `gorm:"default:30" json:"default_due_days"`
	Notes          string       `gorm:"type:text" json:"notes"`
	IsActive       *bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVendor struct {
	Name           string       `json:"name" binding:"required"`
	CategoryId     int          `json:"category_id"`
	Address        string       `json:"address"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	ContactPerson  string       `json:"contact_person"`
	PaymentTerms   PaymentTerms `json:"payment_terms"`
	DefaultDueDays int          `json:"default_due_days"`
	Notes          string       `json:"notes"`
}

func (input *NewVendor) validate(ctx context.Context, id int) error {
	// validate unique name
	if err := utils.ValidateUnique[Vendor](ctx, "name", input.Name, id); err != nil {
		return err
	}
	// validate email
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("invalid email")
		}
		if err := utils.ValidateUnique[Vendor](ctx, "email", input.Email, id); err != nil {
			return err
		}
	}
	// validate phone
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	// validate category
	if input.CategoryId != 0 {
		if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
			return errors.New("category not found")
		}
	}
	return nil
}

func CreateVendor(ctx context.Context, input *NewVendor) (*Vendor, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	if input.PaymentTerms == "" {
		input.PaymentTerms = PaymentTermsNet30
	}
	if input.DefaultDueDays == 0 {
		input.DefaultDueDays = 30
	}
	vendor := Vendor{
		Name:           input.Name,
		CategoryId:     input.CategoryId,
		Address:        input.Address,
		Phone:          input.Phone,
		Email:          input.Email,
		ContactPerson:  input.ContactPerson,
		PaymentTerms:   input.PaymentTerms,
		DefaultDueDays: input.DefaultDueDays,
		Notes:          input.Notes,
		IsActive:       utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func UpdateVendor(ctx context.Context, id int, input *NewVendor) (*Vendor, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	vendor, err := utils.FetchModel[Vendor](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(vendor).
		Updates(map[string]interface{}{
			"Name":           input.Name,
			"CategoryId":     input.CategoryId,
			"Address":        input.Address,
			"Phone":          input.Phone,
			"Email":          input.Email,
			"ContactPerson":  input.ContactPerson,
			"PaymentTerms":   input.PaymentTerms,
			"DefaultDueDays": input.DefaultDueDays,
			"Notes":          input.Notes,
		}).Error
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func GetVendor(ctx context.Context, id int) (*Vendor, error) {
	return utils.FetchModel[Vendor](ctx, id)
}

func GetVendors(ctx context.Context, name *string, activeOnly bool) ([]*Vendor, error) {
	db := config.GetDB()
	var results []*Vendor

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveVendor(ctx context.Context, id int, isActive bool) (*Vendor, error) {
	vendor, err := utils.FetchModel[Vendor](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(vendor).UpdateColumn("IsActive", isActive).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// due date from the vendor's payment terms, used for payment scheduling
func CalculateDueDate(date time.Time, paymentTerms PaymentTerms, customDays int) *time.Time {
	var dueDate time.Time
	switch terms := paymentTerms; terms {
	case PaymentTermsDueOnReceipt:
		dueDate = date
	case PaymentTermsNet15:
		dueDate = date.AddDate(0, 0, 15)
	case PaymentTermsNet30:
		dueDate = date.AddDate(0, 0, 30)
	case PaymentTermsNet45:
		dueDate = date.AddDate(0, 0, 45)
	case PaymentTermsNet60:
		dueDate = date.AddDate(0, 0, 60)
	case PaymentTermsCustom:
		dueDate = date.AddDate(0, 0, customDays)
	}
	return &dueDate
}
