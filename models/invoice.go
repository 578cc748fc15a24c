package models

import (
	"context"
	"errors"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID            int            `gorm:"primary_key" json:"id"`
	VendorId      int            `gorm:"index:idx_vendor_invoice,unique;not null" json:"vendor_id" binding:"required"`
	InvoiceNumber string         `gorm:"index:idx_vendor_invoice,unique;size:100" json:"invoice_number"`
	InvoiceDate   time.Time      `gorm:"not null" json:"invoice_date" binding:"required"`
	ReceivedDate  *time.Time     `json:"received_date"`
	DueDate       *time.Time     `json:"due_date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status        InvoiceStatus  `gorm:"type:enum('Pending','Verified','Paid','Disputed');not null;default:'Pending'" json:"status"`

	PaymentDate      *time.Time `json:"payment_date"`
	PaymentMethod    string     `gorm:"size:50" json:"payment_method"`
	PaymentReference string     `gorm:"size:255" json:"payment_reference"`

	ImagePath  string  `gorm:"type:text" json:"image_path"`
	OcrRawText string  `gorm:"type:text" json:"-"`
	Confidence float64 `gorm:"default:0" json:"confidence_score"`

	HasShortage   *bool            `gorm:"not null;default:false" json:"has_shortage"`
	ShortageTotal decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"shortage_total"`
	DisputeReason string           `gorm:"type:text" json:"dispute_reason"`
	DisputeStatus *DisputeStatus   `gorm:"type:enum('Open','Resolved','Credited')" json:"dispute_status"`
	CreditAmount  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"credit_amount"`

	Notes     string         `gorm:"type:text" json:"notes"`
	Items     []*InvoiceItem `gorm:"foreignkey:InvoiceId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type InvoiceItem struct {
	ID               int              `gorm:"primary_key" json:"id"`
	InvoiceId        int              `gorm:"index;not null" json:"invoice_id"`
	ProductName      string           `gorm:"size:500;not null" json:"product_name" binding:"required"`
	ProductCode      string           `gorm:"size:100" json:"product_code"`
	Quantity         decimal.Decimal  `gorm:"type:decimal(10,3);not null" json:"quantity" binding:"required"`
	ReceivedQuantity *decimal.Decimal `gorm:"type:decimal(10,3)" json:"received_quantity"`
	Unit             string           `gorm:"size:50" json:"unit"`
	UnitPrice        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CategoryOverride int              `gorm:"default:0" json:"category_override"`
	IsDisputed       *bool            `gorm:"not null;default:false" json:"is_disputed"`
	DisputeReason    string           `gorm:"type:text" json:"dispute_reason"`
	Notes            string           `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// NewInvoice is the confirmed shape coming from the OCR review screen.
// ConfidenceScore is whatever the extraction collaborator reported; the
// engine only stores it.
type NewInvoice struct {
	VendorId        int               `json:"vendor_id" binding:"required"`
	InvoiceNumber   string            `json:"invoice_number"`
	InvoiceDate     time.Time         `json:"invoice_date" binding:"required"`
	ReceivedDate    *time.Time        `json:"received_date"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Tax             decimal.Decimal   `json:"tax"`
	Total           decimal.Decimal   `json:"total" binding:"required"`
	ImagePath       string            `json:"image_path"`
	OcrRawText      string            `json:"ocr_raw_text"`
	ConfidenceScore float64           `json:"confidence_score"`
	Notes           string            `json:"notes"`
	Items           []*NewInvoiceItem `json:"line_items" binding:"required,dive"`
}

type NewInvoiceItem struct {
	ProductName      string          `json:"product_name" binding:"required"`
	ProductCode      string          `json:"product_code"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	CategoryOverride int             `json:"category_override"`
	Notes            string          `json:"notes"`
}

type ShortageUpdate struct {
	Items []ShortageItemUpdate `json:"items" binding:"required,dive"`
}

type ShortageItemUpdate struct {
	ItemId           int             `json:"item_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

type NewDispute struct {
	InvoiceId int    `json:"invoice_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	ItemIds   []int  `json:"item_ids"`
}

func (input *NewInvoice) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Vendor](ctx, input.VendorId); err != nil {
		return errors.New("vendor not found")
	}
	if len(input.Items) == 0 {
		return errors.New("invoice has no line items")
	}
	for _, item := range input.Items {
		if !item.Quantity.IsPositive() {
			return errors.New("line item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("line item unit price cannot be negative")
		}
	}
	if input.InvoiceNumber != "" {
		count, err := utils.ResourceCountWhere[Invoice](ctx, "vendor_id = ? AND invoice_number = ?", input.VendorId, input.InvoiceNumber)
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.New("invoice number already exists for this vendor")
		}
	}
	return nil
}

// CreateInvoice persists the confirmed invoice and its line items in one
// transaction. Price observations are NOT materialized here; that is the
// analytics write path (see analytics.MaterializeInvoice).
func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	vendor, err := utils.FetchModel[Vendor](ctx, input.VendorId)
	if err != nil {
		return nil, errors.New("vendor not found")
	}

	items := make([]*InvoiceItem, 0, len(input.Items))
	for _, in := range input.Items {
		totalPrice := in.TotalPrice
		if totalPrice.IsZero() {
			totalPrice = in.UnitPrice.Mul(in.Quantity)
		}
		items = append(items, &InvoiceItem{
			ProductName:      in.ProductName,
			ProductCode:      in.ProductCode,
			Quantity:         in.Quantity,
			Unit:             in.Unit,
			UnitPrice:        in.UnitPrice,
			TotalPrice:       totalPrice,
			CategoryOverride: in.CategoryOverride,
			Notes:            in.Notes,
			IsDisputed:       utils.NewFalse(),
		})
	}

	invoice := Invoice{
		VendorId:      input.VendorId,
		InvoiceNumber: input.InvoiceNumber,
		InvoiceDate:   input.InvoiceDate,
		ReceivedDate:  input.ReceivedDate,
		DueDate:       CalculateDueDate(input.InvoiceDate, vendor.PaymentTerms, vendor.DefaultDueDays),
		Subtotal:      input.Subtotal,
		Tax:           input.Tax,
		Total:         input.Total,
		Status:        InvoiceStatusPending,
		ImagePath:     input.ImagePath,
		OcrRawText:    input.OcrRawText,
		Confidence:    input.ConfidenceScore,
		Notes:         input.Notes,
		HasShortage:   utils.NewFalse(),
		Items:         items,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &invoice, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return utils.FetchModel[Invoice](ctx, id, "Items")
}

func GetInvoices(ctx context.Context, vendorId *int, status *InvoiceStatus, fromDate, toDate *time.Time, limit int) ([]*Invoice, error) {
	db := config.GetDB()
	var results []*Invoice

	dbCtx := db.WithContext(ctx)
	if vendorId != nil {
		dbCtx = dbCtx.Where("vendor_id = ?", *vendorId)
	}
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if fromDate != nil {
		dbCtx = dbCtx.Where("invoice_date >= ?", *fromDate)
	}
	if toDate != nil {
		dbCtx = dbCtx.Where("invoice_date <= ?", *toDate)
	}
	if limit <= 0 {
		limit = 100
	}
	err := dbCtx.Order("invoice_date DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateInvoiceStatus(ctx context.Context, id int, status InvoiceStatus) (*Invoice, error) {
	switch status {
	case InvoiceStatusPending, InvoiceStatusVerified, InvoiceStatusPaid, InvoiceStatusDisputed:
	default:
		return nil, errors.New("invalid invoice status")
	}

	invoice, err := utils.FetchModel[Invoice](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"Status": status}
	if status == InvoiceStatusPaid {
		now := time.Now()
		updates["PaymentDate"] = &now
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(invoice).Updates(updates).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {
	invoice, err := utils.FetchModel[Invoice](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	if invoice.Status != InvoiceStatusPending {
		return nil, errors.New("only pending invoices can be deleted")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(invoice).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateShortages records received quantities; any received < ordered marks
// the invoice short. Shortage totals feed the vendor scorecard.
func UpdateShortages(ctx context.Context, invoiceId int, input *ShortageUpdate) (*Invoice, error) {
	invoice, err := utils.FetchModel[Invoice](ctx, invoiceId, "Items")
	if err != nil {
		return nil, err
	}

	itemsById := make(map[int]*InvoiceItem, len(invoice.Items))
	for _, item := range invoice.Items {
		itemsById[item.ID] = item
	}

	db := config.GetDB()
	tx := db.Begin()

	shortageTotal := decimal.Zero
	hasShortage := false
	for _, upd := range input.Items {
		item, ok := itemsById[upd.ItemId]
		if !ok {
			tx.Rollback()
			return nil, errors.New("line item does not belong to invoice")
		}
		received := upd.ReceivedQuantity
		if err := tx.WithContext(ctx).Model(item).UpdateColumn("ReceivedQuantity", received).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if received.LessThan(item.Quantity) {
			hasShortage = true
			shortQty := item.Quantity.Sub(received)
			shortageTotal = shortageTotal.Add(shortQty.Mul(item.UnitPrice))
		}
	}

	if err := tx.WithContext(ctx).Model(invoice).Updates(map[string]interface{}{
		"HasShortage":   hasShortage,
		"ShortageTotal": shortageTotal,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func CreateDispute(ctx context.Context, input *NewDispute) (*Invoice, error) {
	invoice, err := utils.FetchModel[Invoice](ctx, input.InvoiceId, "Items")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	open := DisputeStatusOpen
	if err := tx.WithContext(ctx).Model(invoice).Updates(map[string]interface{}{
		"Status":        InvoiceStatusDisputed,
		"DisputeReason": input.Reason,
		"DisputeStatus": &open,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(input.ItemIds) > 0 {
		if err := tx.WithContext(ctx).Model(&InvoiceItem{}).
			Where("invoice_id = ? AND id IN ?", invoice.ID, utils.UniqueSlice(input.ItemIds)).
			Updates(map[string]interface{}{
				"IsDisputed":    true,
				"DisputeReason": input.Reason,
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func ResolveDispute(ctx context.Context, invoiceId int, creditAmount decimal.Decimal) (*Invoice, error) {
	invoice, err := utils.FetchModel[Invoice](ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	if invoice.DisputeStatus == nil || *invoice.DisputeStatus != DisputeStatusOpen {
		return nil, errors.New("no open dispute on invoice")
	}

	status := DisputeStatusResolved
	if creditAmount.IsPositive() {
		status = DisputeStatusCredited
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(invoice).Updates(map[string]interface{}{
		"DisputeStatus": &status,
		"CreditAmount":  creditAmount,
		"Status":        InvoiceStatusVerified,
	}).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}
