package models

import (
	"log"

	"github.com/appletreemkt/purchases_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Category{},
		&Vendor{},
		&Invoice{}, &InvoiceItem{},
		&Product{}, &PriceObservation{},
		&PriceAlert{}, &PriceContract{},
		&CompetitorStore{}, &CompetitorPrice{},
		&Recommendation{},
		&OCRCorrection{},
		&DailySales{}, &MonthlyBudget{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
