package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/joho/godotenv"
)

// Rebuilds price observations from historical invoices. Needed after
// importing invoices in bulk or after wiping the product_vendor_prices
// table; safe to run on an empty observations table only.
func main() {
	invoiceID := flag.Int("invoice-id", 0, "Optional: backfill a single invoice. If 0, backfills every non-disputed invoice.")
	dryRun := flag.Bool("dry-run", false, "List the invoices that would be materialized without writing.")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	cfg := analytics.LoadConfig()

	var invoices []*models.Invoice
	query := db.WithContext(ctx).
		Where("status != ?", models.InvoiceStatusDisputed).
		Order("invoice_date ASC")
	if *invoiceID > 0 {
		query = db.WithContext(ctx).Where("id = ?", *invoiceID)
	}
	if err := query.Find(&invoices).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list invoices: %v\n", err)
		os.Exit(1)
	}
	if len(invoices) == 0 {
		fmt.Fprintln(os.Stderr, "no invoices found to backfill")
		return
	}

	totalWritten := 0
	for _, invoice := range invoices {
		if *dryRun {
			fmt.Printf("would materialize invoice %d (%s, %s)\n", invoice.ID, invoice.InvoiceNumber, invoice.InvoiceDate.Format("2006-01-02"))
			continue
		}
		written, err := analytics.MaterializeInvoice(ctx, invoice.ID, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invoice %d: %v\n", invoice.ID, err)
			os.Exit(1)
		}
		totalWritten += written
		fmt.Printf("invoice %d: %d observations\n", invoice.ID, written)
	}
	fmt.Printf("done: %d invoices, %d observations\n", len(invoices), totalWritten)
}
