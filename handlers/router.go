package handlers

import (
	"github.com/appletreemkt/purchases_backend/middlewares"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the REST surface. Everything except login sits
// behind the PIN token.
func RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login", Login)

	api := r.Group("/api", middlewares.RequireAuth())

	api.GET("/vendors", ListVendors)
	api.POST("/vendors", CreateVendor)
	api.GET("/vendors/:id", GetVendor)
	api.PUT("/vendors/:id", UpdateVendor)
	api.PATCH("/vendors/:id/active", ToggleVendorActive)
	api.GET("/vendors/:id/scorecard", GetVendorScorecard)

	api.GET("/categories", ListCategories)
	api.POST("/categories", CreateCategory)
	api.PUT("/categories/:id", UpdateCategory)

	api.GET("/products", ListProducts)
	api.GET("/products/uncategorized", ListUncategorizedProducts)
	api.GET("/products/:id", GetProduct)
	api.PATCH("/products/:id/category", SetProductCategory)
	api.POST("/products/bulk-categorize", BulkCategorizeProducts)
	api.PATCH("/products/:id/sell-price", SetProductSellPrice)
	api.GET("/products/:id/price-history", GetProductPriceHistory)
	api.GET("/products/:id/vendor-comparison", GetProductVendorComparison)

	api.POST("/invoices", ConfirmInvoice)
	api.GET("/invoices", ListInvoices)
	api.GET("/invoices/:id", GetInvoice)
	api.PATCH("/invoices/:id/status", UpdateInvoiceStatus)
	api.DELETE("/invoices/:id", DeleteInvoice)
	api.PUT("/invoices/:id/shortages", UpdateInvoiceShortages)
	api.POST("/invoices/disputes", CreateInvoiceDispute)
	api.POST("/invoices/:id/disputes/resolve", ResolveInvoiceDispute)
	api.POST("/invoices/upload", UploadInvoiceImage)

	api.GET("/contracts", ListPriceContracts)
	api.POST("/contracts", CreatePriceContract)
	api.PUT("/contracts/:id", UpdatePriceContract)
	api.DELETE("/contracts/:id", DeletePriceContract)
	api.GET("/contracts/compliance", GetContractCompliance)

	api.GET("/competitors/stores", ListCompetitorStores)
	api.POST("/competitors/stores", CreateCompetitorStore)
	api.GET("/competitors/prices", ListCompetitorPrices)
	api.POST("/competitors/prices", CreateCompetitorPrice)

	api.GET("/corrections", ListOCRCorrections)
	api.POST("/corrections", SaveOCRCorrection)
	api.DELETE("/corrections/:id", DeleteOCRCorrection)

	api.GET("/recommendations", ListRecommendations)
	api.GET("/recommendations/count", CountOpenRecommendations)
	api.POST("/recommendations/:id/dismiss", DismissRecommendation)
	api.POST("/recommendations/:id/act", ActOnRecommendation)
	api.POST("/recommendations/run", RunRecommendationPass)

	api.GET("/analytics/reorder-suggestions", GetReorderSuggestions)
	api.GET("/analytics/margins", GetMarginReport)
	api.GET("/analytics/savings-opportunities", GetSavingsOpportunities)
	api.GET("/alerts", ListPriceAlerts)
	api.PATCH("/alerts/:id/read", MarkPriceAlertRead)

	api.GET("/reports/purchases-by-vendor", PurchasesByVendorReport)
	api.GET("/reports/spending-by-product", SpendingByProductReport)
	api.GET("/reports/dead-stock", DeadStockReport)
	api.GET("/reports/seasonal-prices", SeasonalPriceReport)

	api.POST("/sales/daily", RecordDailySales)
	api.GET("/sales/daily", ListDailySales)
	api.POST("/budgets", SetMonthlyBudget)
	api.GET("/budgets/status", GetBudgetStatus)
}
