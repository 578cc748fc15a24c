package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const passLockKey = "analytics:recommendation_pass"

// PassResult summarizes one engine run. Per-product failures land in
// Errors; they never abort the rest of the pass.
type PassResult struct {
	StartedAt       time.Time `json:"started_at"`
	Duration        string    `json:"duration"`
	ProductsScanned int       `json:"products_scanned"`
	DraftsProduced  int       `json:"drafts_produced"`
	Written         int       `json:"written"`
	Errors          []string  `json:"errors,omitempty"`
}

// RunRecommendationPass executes the full engine: a parallel compute
// phase fans out per product (no shared mutable state between products),
// then a single-writer phase persists drafts through the dedup upsert.
// The write phase holds a redis lock when redis is configured, so two
// concurrent passes cannot race the dedup key; without redis the
// sequential write loop alone upholds the single-writer discipline
// within this process.
func RunRecommendationPass(ctx context.Context, cfg Config, now time.Time) (*PassResult, error) {
	logger := config.GetLogger()
	start := time.Now()

	cutoff := now.AddDate(0, 0, -2*cfg.LookbackDays)
	productIds, err := models.ActiveProductIds(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &PassResult{StartedAt: now, ProductsScanned: len(productIds)}

	var mu sync.Mutex
	var drafts []*models.Recommendation

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)
	for _, productId := range productIds {
		productId := productId
		g.Go(func() error {
			productDrafts, err := computeProduct(gctx, productId, cfg, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// isolate: one product's bad data must not sink the pass
				result.Errors = append(result.Errors, err.Error())
				return nil
			}
			drafts = append(drafts, productDrafts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.DraftsProduced = len(drafts)

	// write phase, serialized
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, passLockKey, 2*time.Minute, nil)
		if err != nil {
			return nil, fmt.Errorf("recommendation pass already running: %w", err)
		}
		defer lock.Release(ctx)
	}

	for _, draft := range drafts {
		if err := validateDraft(draft); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if cfg.RecommendationTTLDays > 0 {
			expires := now.AddDate(0, 0, cfg.RecommendationTTLDays)
			draft.ExpiresAt = &expires
		}
		if err := upsertWithRetry(ctx, draft); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Written++
	}

	if err := refreshReorderFrequencies(ctx, cfg, now); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	result.Duration = time.Since(start).String()
	logger.WithFields(logrus.Fields{
		"products": result.ProductsScanned,
		"drafts":   result.DraftsProduced,
		"written":  result.Written,
		"errors":   len(result.Errors),
		"duration": result.Duration,
	}).Info("recommendation pass complete")
	return result, nil
}

// computeProduct gathers one product's inputs and runs every detector.
// Read-only; all writes happen later in the serialized phase.
func computeProduct(ctx context.Context, productId int, cfg Config, now time.Time) ([]*models.Recommendation, error) {
	product, err := models.GetProduct(ctx, productId)
	if err != nil {
		return nil, &DetectorError{ProductId: productId, Detector: "load", Err: err}
	}
	series, err := GetSeries(ctx, productId, nil, nil)
	if err != nil {
		return nil, &DetectorError{ProductId: productId, Detector: "series", Err: err}
	}
	competitorCutoff := now.AddDate(0, 0, -cfg.CompetitorMaxAgeDays)
	competitors, err := models.LatestCompetitorPrices(ctx, product.NormalizedName, competitorCutoff)
	if err != nil {
		return nil, &DetectorError{ProductId: productId, Detector: "competitors", Err: err}
	}

	var drafts []*models.Recommendation
	if d := DetectPriceIncrease(product, series, cfg, now); d != nil {
		drafts = append(drafts, d)
	}
	if d := DetectCheaperVendor(product, series, cfg, now); d != nil {
		drafts = append(drafts, d)
	}
	if d := DetectRegionalPrice(product, competitors, cfg, now); d != nil {
		drafts = append(drafts, d)
	}
	if d := DetectVolumeAnomaly(product, series, cfg, now); d != nil {
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// validateDraft is the closed dispatch over recommendation kinds: each
// variant must carry its own payload columns and nothing slips through
// as an unknown type.
func validateDraft(rec *models.Recommendation) error {
	if rec.ProductId == 0 {
		return fmt.Errorf("draft %s missing product", rec.Type)
	}
	switch rec.Type {
	case models.RecommendationTypePriceIncrease:
		if rec.CurrentPrice == nil || rec.ComparisonPrice == nil || rec.ChangePercent == nil {
			return fmt.Errorf("price_increase draft for product %d missing payload", rec.ProductId)
		}
	case models.RecommendationTypeCheaperVendor:
		if rec.AlternateVendorId == nil || rec.SavingsAmount == nil {
			return fmt.Errorf("cheaper_vendor draft for product %d missing payload", rec.ProductId)
		}
	case models.RecommendationTypeRegionalPrice:
		if rec.ComparisonPrice == nil || rec.CompetitorCount == nil {
			return fmt.Errorf("regional_price draft for product %d missing payload", rec.ProductId)
		}
	case models.RecommendationTypeVolumeAnomaly:
		if rec.RecentQuantity == nil || rec.TypicalQuantity == nil || rec.Trend == nil {
			return fmt.Errorf("volume_anomaly draft for product %d missing payload", rec.ProductId)
		}
	default:
		return fmt.Errorf("unknown recommendation type %q", rec.Type)
	}
	return nil
}

// upsertWithRetry retries the dedup upsert once on conflict, then
// surfaces the failure.
func upsertWithRetry(ctx context.Context, rec *models.Recommendation) error {
	if _, err := models.UpsertRecommendation(ctx, rec); err != nil {
		if _, retryErr := models.UpsertRecommendation(ctx, rec); retryErr != nil {
			return fmt.Errorf("%w: %v", ErrPersistenceConflict, retryErr)
		}
	}
	return nil
}

// refreshReorderFrequencies persists the derived cadence onto each
// product so list views can show it without re-deriving.
func refreshReorderFrequencies(ctx context.Context, cfg Config, now time.Time) error {
	products, err := models.GetProducts(ctx, nil, nil)
	if err != nil {
		return err
	}
	db := config.GetDB()
	for _, product := range products {
		dates, err := models.GetOrderDates(ctx, product.ID)
		if err != nil {
			return err
		}
		estimate := EstimateReorder(product.ID, product.Name, dates, cfg, now)
		if estimate.Urgency == ReorderUrgencyInsufficientData {
			continue
		}
		frequency := int(estimate.AvgIntervalDays.Round(0).IntPart())
		if frequency == product.ReorderFrequencyDays {
			continue
		}
		err = db.WithContext(ctx).Model(product).
			UpdateColumn("ReorderFrequencyDays", frequency).Error
		if err != nil {
			return err
		}
	}
	return nil
}
