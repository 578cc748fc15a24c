package analytics

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config carries every tunable threshold the engine uses. Call sites never
// hardcode a threshold; they take it from here so one place controls the
// engine's sensitivity.
type Config struct {
	// fractional increase over the trailing baseline that flags a price jump
	PriceIncreaseThreshold decimal.Decimal
	// competitor must undercut our price by this fraction to be worth flagging
	RegionalPriceThreshold decimal.Decimal
	// fractional move against the vendor's previous price that writes a
	// PriceAlert row on confirm; more sensitive than the recommendation
	// threshold so the alert feed catches drift early
	PriceAlertThreshold decimal.Decimal
	// recent/baseline volume ratio beyond which volume is anomalous,
	// applied symmetrically (ratio or its inverse)
	VolumeAnomalyRatio decimal.Decimal
	// window the detectors and scorecard look back over
	LookbackDays int
	// competitor survey rows older than this are ignored
	CompetitorMaxAgeDays int
	// reorder urgency: overdue when days since last order exceeds
	// avg interval * OverdueMultiplier; due_soon within the grace band
	// before the expected date
	OverdueMultiplier decimal.Decimal
	DueSoonGraceDays  int
	// margin falls back to this target when the product has none
	DefaultTargetMargin decimal.Decimal
	// scorecard composition
	ShortageWeight     decimal.Decimal
	DisputeWeight      decimal.Decimal
	ReliabilityWeight  decimal.Decimal
	StabilityWeight    decimal.Decimal
	// open recommendations expire this many days after their last refresh;
	// zero disables expiry
	RecommendationTTLDays int
	// parallel per-product compute fan-out
	MaxConcurrency int
}

func DefaultConfig() Config {
	return Config{
		PriceIncreaseThreshold: decimal.NewFromFloat(0.10),
		RegionalPriceThreshold: decimal.NewFromFloat(0.10),
		PriceAlertThreshold:    decimal.NewFromFloat(0.05),
		VolumeAnomalyRatio:     decimal.NewFromFloat(2.0),
		LookbackDays:           90,
		CompetitorMaxAgeDays:   30,
		OverdueMultiplier:      decimal.NewFromInt(1),
		DueSoonGraceDays:       3,
		DefaultTargetMargin:    decimal.NewFromInt(25),
		ShortageWeight:         decimal.NewFromInt(50),
		DisputeWeight:          decimal.NewFromInt(50),
		ReliabilityWeight:      decimal.NewFromFloat(0.6),
		StabilityWeight:        decimal.NewFromFloat(0.4),
		RecommendationTTLDays:  30,
		MaxConcurrency:         8,
	}
}

// LoadConfig layers env overrides on the defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := envFloat("ANALYTICS_PRICE_INCREASE_THRESHOLD"); v != nil {
		cfg.PriceIncreaseThreshold = decimal.NewFromFloat(*v)
	}
	if v := envFloat("ANALYTICS_REGIONAL_PRICE_THRESHOLD"); v != nil {
		cfg.RegionalPriceThreshold = decimal.NewFromFloat(*v)
	}
	if v := envFloat("ANALYTICS_PRICE_ALERT_THRESHOLD"); v != nil {
		cfg.PriceAlertThreshold = decimal.NewFromFloat(*v)
	}
	if v := envFloat("ANALYTICS_VOLUME_ANOMALY_RATIO"); v != nil {
		cfg.VolumeAnomalyRatio = decimal.NewFromFloat(*v)
	}
	if v := envInt("ANALYTICS_LOOKBACK_DAYS"); v != nil {
		cfg.LookbackDays = *v
	}
	if v := envInt("ANALYTICS_DUE_SOON_GRACE_DAYS"); v != nil {
		cfg.DueSoonGraceDays = *v
	}
	if v := envFloat("ANALYTICS_DEFAULT_TARGET_MARGIN"); v != nil {
		cfg.DefaultTargetMargin = decimal.NewFromFloat(*v)
	}
	if v := envInt("ANALYTICS_RECOMMENDATION_TTL_DAYS"); v != nil {
		cfg.RecommendationTTLDays = *v
	}
	if v := envInt("ANALYTICS_MAX_CONCURRENCY"); v != nil && *v > 0 {
		cfg.MaxConcurrency = *v
	}
	return cfg
}

func envFloat(key string) *float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func envInt(key string) *int {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
