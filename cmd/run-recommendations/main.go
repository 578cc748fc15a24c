package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/config"
	"github.com/joho/godotenv"
)

// One engine pass, for cron. The API exposes the same operation at
// POST /api/recommendations/run.
func main() {
	_ = godotenv.Load()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	result, err := analytics.RunRecommendationPass(context.Background(), analytics.LoadConfig(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "recommendation pass failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("scanned %d products, wrote %d recommendations in %s\n", result.ProductsScanned, result.Written, result.Duration)
	for _, msg := range result.Errors {
		fmt.Fprintf(os.Stderr, "partial failure: %s\n", msg)
	}
	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
