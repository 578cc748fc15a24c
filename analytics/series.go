package analytics

import (
	"context"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeriesPoint is one element of a product's ordered price history.
type SeriesPoint struct {
	Date     time.Time
	Price    decimal.Decimal
	Quantity decimal.Decimal
	VendorId int
}

// GetSeries returns the (date, price, vendor) series for a product,
// ascending by date, optionally limited to one vendor. Recomputed per
// call; nothing here is cached.
func GetSeries(ctx context.Context, productId int, vendorId *int, since *time.Time) ([]SeriesPoint, error) {
	observations, err := models.GetPriceSeries(ctx, productId, vendorId, since)
	if err != nil {
		return nil, err
	}
	series := make([]SeriesPoint, 0, len(observations))
	for _, obs := range observations {
		series = append(series, SeriesPoint{
			Date:     obs.ObservedDate,
			Price:    obs.Price,
			Quantity: obs.Quantity,
			VendorId: obs.VendorId,
		})
	}
	return series, nil
}

// SeriesStats is the rolling aggregate over a full series. A nil receiver
// field never happens; an empty series produces ok=false and downstream
// code treats that as insufficient data.
type SeriesStats struct {
	Last decimal.Decimal
	Avg  decimal.Decimal
	Min  decimal.Decimal
	Max  decimal.Decimal
}

// ComputeSeriesStats folds a date-ascending series into its aggregate.
// Plain arithmetic mean over all points; recency weighting is a detector
// concern, never baked into the stored rollup.
func ComputeSeriesStats(series []SeriesPoint) (SeriesStats, bool) {
	if len(series) == 0 {
		return SeriesStats{}, false
	}
	stats := SeriesStats{
		Last: series[len(series)-1].Price,
		Min:  series[0].Price,
		Max:  series[0].Price,
	}
	sum := decimal.Zero
	for _, pt := range series {
		sum = sum.Add(pt.Price)
		if pt.Price.LessThan(stats.Min) {
			stats.Min = pt.Price
		}
		if pt.Price.GreaterThan(stats.Max) {
			stats.Max = pt.Price
		}
	}
	stats.Avg = sum.Div(decimal.NewFromInt(int64(len(series)))).Round(4)
	return stats, true
}

// RecordObservation appends one price point and updates the product
// rollup in the same transaction, so the aggregate fields can never drift
// from the series. Emits price alerts (move beyond threshold, contract
// violation) as part of the same write.
func RecordObservation(ctx context.Context, obs *models.PriceObservation, cfg Config) error {
	logger := config.GetLogger()

	product, err := utils.FetchModel[models.Product](ctx, obs.ProductId)
	if err != nil {
		return err
	}

	previousLast := product.LastPrice

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(obs).Error; err != nil {
		tx.Rollback()
		return err
	}

	series, err := seriesInTx(tx.WithContext(ctx), obs.ProductId)
	if err != nil {
		tx.Rollback()
		return err
	}
	stats, ok := ComputeSeriesStats(series)
	if !ok {
		// the row we just inserted guarantees at least one point
		tx.Rollback()
		return ErrInsufficientData
	}

	lastOrdered := series[len(series)-1].Date
	err = tx.WithContext(ctx).Model(product).
		Updates(map[string]interface{}{
			"LastPrice":       stats.Last,
			"AvgPrice":        stats.Avg,
			"MinPrice":        stats.Min,
			"MaxPrice":        stats.Max,
			"LastVendorId":    series[len(series)-1].VendorId,
			"LastOrderedDate": &lastOrdered,
		}).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	if alert := priceMoveAlert(obs, previousLast, cfg); alert != nil {
		if err := tx.WithContext(ctx).Create(alert).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	contract, err := models.ActiveContract(ctx, obs.ProductId, obs.VendorId, obs.ObservedDate)
	if err != nil {
		tx.Rollback()
		return err
	}
	if contract != nil && obs.Price.GreaterThan(contract.ContractedPrice) {
		overage := obs.Price.Sub(contract.ContractedPrice).
			Div(contract.ContractedPrice).Mul(decimal.NewFromInt(100)).Round(1)
		violation := models.PriceAlert{
			ProductId:     obs.ProductId,
			VendorId:      obs.VendorId,
			InvoiceId:     obs.InvoiceId,
			AlertType:     models.PriceAlertTypeContractViolation,
			OldPrice:      contract.ContractedPrice,
			NewPrice:      obs.Price,
			ChangePercent: overage,
			IsRead:        utils.NewFalse(),
		}
		if err := tx.WithContext(ctx).Create(&violation).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"product_id": obs.ProductId,
		"vendor_id":  obs.VendorId,
		"price":      obs.Price,
	}).Debug("price observation recorded")
	return nil
}

func seriesInTx(tx *gorm.DB, productId int) ([]SeriesPoint, error) {
	var observations []*models.PriceObservation
	err := tx.Where("product_id = ?", productId).
		Order("observed_date ASC, id ASC").
		Find(&observations).Error
	if err != nil {
		return nil, err
	}
	series := make([]SeriesPoint, 0, len(observations))
	for _, obs := range observations {
		series = append(series, SeriesPoint{
			Date:     obs.ObservedDate,
			Price:    obs.Price,
			Quantity: obs.Quantity,
			VendorId: obs.VendorId,
		})
	}
	return series, nil
}

func priceMoveAlert(obs *models.PriceObservation, previousLast *decimal.Decimal, cfg Config) *models.PriceAlert {
	if previousLast == nil || previousLast.IsZero() {
		return nil
	}
	change := obs.Price.Sub(*previousLast).Div(*previousLast)
	if change.Abs().LessThan(cfg.PriceAlertThreshold) {
		return nil
	}
	alertType := models.PriceAlertTypeIncrease
	if change.IsNegative() {
		alertType = models.PriceAlertTypeDecrease
	}
	return &models.PriceAlert{
		ProductId:     obs.ProductId,
		VendorId:      obs.VendorId,
		InvoiceId:     obs.InvoiceId,
		AlertType:     alertType,
		OldPrice:      *previousLast,
		NewPrice:      obs.Price,
		ChangePercent: change.Mul(decimal.NewFromInt(100)).Round(1),
		IsRead:        utils.NewFalse(),
	}
}

// MaterializeInvoice turns a verified invoice's line items into price
// observations. Each line resolves to a catalog product; a line whose
// resolution fails is logged and skipped without aborting the rest.
// Returns how many observations were written.
func MaterializeInvoice(ctx context.Context, invoiceId int, cfg Config) (int, error) {
	logger := config.GetLogger()

	invoice, err := models.GetInvoice(ctx, invoiceId)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, item := range invoice.Items {
		product, err := ResolveProduct(ctx, item.ProductName, item.ProductCode)
		if err != nil {
			config.LogError(logger, "analytics", "MaterializeInvoice", "resolve line item", map[string]interface{}{
				"invoice_id":   invoiceId,
				"product_name": item.ProductName,
			}, err)
			continue
		}
		obs := models.PriceObservation{
			ProductId:     product.ID,
			VendorId:      invoice.VendorId,
			InvoiceId:     invoice.ID,
			InvoiceItemId: item.ID,
			Price:         item.UnitPrice,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			ObservedDate:  invoice.InvoiceDate,
		}
		if err := obs.Validate(); err != nil {
			config.LogError(logger, "analytics", "MaterializeInvoice", "invalid observation", map[string]interface{}{
				"invoice_id":   invoiceId,
				"product_name": item.ProductName,
			}, err)
			continue
		}
		if err := RecordObservation(ctx, &obs, cfg); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
