package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/config"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Seeds a small demo dataset: two vendors, a few months of invoices with
// drifting prices, a competitor survey, and one contract. Intended for
// an empty database.
func main() {
	runPass := flag.Bool("run-pass", true, "Run a recommendation pass after seeding.")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	cfg := analytics.LoadConfig()
	now := time.Now()

	grocery, err := models.CreateCategory(ctx, &models.NewCategory{Name: "Grocery"})
	must(err, "create category")

	valley, err := models.CreateVendor(ctx, &models.NewVendor{
		Name:         "Valley Wholesale",
		CategoryId:   grocery.ID,
		PaymentTerms: models.PaymentTermsNet30,
	})
	must(err, "create vendor")
	metro, err := models.CreateVendor(ctx, &models.NewVendor{
		Name:         "Metro Foods",
		CategoryId:   grocery.ID,
		PaymentTerms: models.PaymentTermsNet15,
	})
	must(err, "create vendor")

	type seedLine struct {
		name  string
		qty   float64
		price float64
	}
	seedInvoice := func(vendorId int, daysAgo int, number string, lines []seedLine) {
		items := make([]*models.NewInvoiceItem, 0, len(lines))
		total := decimal.Zero
		for _, l := range lines {
			lineTotal := decimal.NewFromFloat(l.price * l.qty)
			total = total.Add(lineTotal)
			items = append(items, &models.NewInvoiceItem{
				ProductName: l.name,
				Quantity:    decimal.NewFromFloat(l.qty),
				UnitPrice:   decimal.NewFromFloat(l.price),
				TotalPrice:  lineTotal,
			})
		}
		invoice, err := models.CreateInvoice(ctx, &models.NewInvoice{
			VendorId:      vendorId,
			InvoiceNumber: number,
			InvoiceDate:   now.AddDate(0, 0, -daysAgo),
			Total:         total,
			Items:         items,
		})
		must(err, "create invoice "+number)
		_, err = analytics.MaterializeInvoice(ctx, invoice.ID, cfg)
		must(err, "materialize invoice "+number)
	}

	// milk climbs at Valley; Metro stays flat and cheaper on towels
	seedInvoice(valley.ID, 84, "VW-1001", []seedLine{
		{"Whole Milk Gal", 12, 3.20}, {"Paper Towels 12pk", 6, 10.00},
	})
	seedInvoice(valley.ID, 56, "VW-1002", []seedLine{
		{"Whole Milk Gal", 12, 3.25}, {"Paper Towels 12pk", 6, 10.00},
	})
	seedInvoice(metro.ID, 42, "MF-2001", []seedLine{
		{"Paper Towels 12pk", 6, 9.00}, {"Orange Juice 64oz", 24, 2.10},
	})
	seedInvoice(valley.ID, 28, "VW-1003", []seedLine{
		{"Whole Milk Gal", 12, 3.30}, {"Paper Towels 12pk", 6, 10.00},
	})
	seedInvoice(valley.ID, 7, "VW-1004", []seedLine{
		{"Whole Milk Gal", 12, 3.95}, {"Paper Towels 12pk", 6, 10.00},
	})

	crosstown, err := models.CreateCompetitorStore(ctx, &models.NewCompetitorStore{
		Name:     "Crosstown Market",
		Location: "5th & Main",
	})
	must(err, "create competitor store")
	_, err = models.CreateCompetitorPrice(ctx, &models.NewCompetitorPrice{
		StoreId:     crosstown.ID,
		ProductName: "Orange Juice 64oz",
		Price:       decimal.NewFromFloat(1.75),
	})
	must(err, "create competitor price")

	products, err := models.GetProducts(ctx, nil, nil)
	must(err, "list products")
	for _, p := range products {
		if p.NormalizedName == "whole milk gal" {
			_, err = models.CreatePriceContract(ctx, &models.NewPriceContract{
				ProductId:       p.ID,
				VendorId:        valley.ID,
				ContractedPrice: decimal.NewFromFloat(3.40),
				StartDate:       now.AddDate(0, -6, 0),
			})
			must(err, "create contract")
		}
		if p.NormalizedName == "orange juice 64oz" {
			_, err = models.SetSellPrice(ctx, p.ID, &models.SellPriceUpdate{
				SellPrice:    decimal.NewFromFloat(3.49),
				UnitsPerCase: intPtr(1),
			})
			must(err, "set sell price")
		}
	}

	if *runPass {
		result, err := analytics.RunRecommendationPass(ctx, cfg, now)
		must(err, "recommendation pass")
		fmt.Printf("pass: %d products scanned, %d recommendations written\n", result.ProductsScanned, result.Written)
	}
	fmt.Println("demo data seeded")
}

func must(err error, step string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
		os.Exit(1)
	}
}

func intPtr(v int) *int {
	return &v
}
