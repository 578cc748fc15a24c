package reports

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
)

type PurchasesByVendorResponse struct {
	VendorId       int             `json:"VendorId"`
	VendorName     *string         `json:"VendorName,omitempty"`
	InvoiceCount   int             `json:"InvoiceCount"`
	TotalPurchases decimal.Decimal `json:"TotalPurchases"`
	TotalTax       decimal.Decimal `json:"TotalTax"`
	ShortageTotal  decimal.Decimal `json:"ShortageTotal"`
}

func GetPurchasesByVendorReport(ctx context.Context, fromDate, toDate time.Time, vendorId *int) ([]*PurchasesByVendorResponse, error) {
	sqlT := `
WITH InvoiceDetails AS (
    SELECT
        i.vendor_id,
        COUNT(i.id) invoice_count,
        SUM(i.total) total_amount,
        SUM(i.tax) total_tax,
        SUM(i.shortage_total) shortage_total
    FROM
        invoices i
    WHERE
        i.status != @disputed
        AND i.invoice_date BETWEEN @fromDate AND @toDate
        {{- if .vendorId }} AND i.vendor_id = @vendorId {{- end }}
    GROUP BY
        i.vendor_id
)
SELECT
    vendors.name vendor_name,
    d.vendor_id,
    d.invoice_count,
    d.total_amount total_purchases,
    d.total_tax,
    d.shortage_total
FROM
    InvoiceDetails d
    LEFT JOIN vendors ON vendors.id = d.vendor_id
ORDER BY d.total_amount DESC;
	`
	sql, err := utils.ExecTemplate(sqlT, map[string]interface{}{
		"vendorId": utils.DereferencePtr(vendorId, 0) > 0,
	})
	if err != nil {
		return nil, err
	}
	var results []*PurchasesByVendorResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"disputed": models.InvoiceStatusDisputed,
		"fromDate": fromDate,
		"toDate":   toDate,
		"vendorId": vendorId,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
