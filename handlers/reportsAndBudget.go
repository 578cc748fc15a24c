package handlers

import (
	"net/http"
	"time"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/appletreemkt/purchases_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from := dateQuery(c, "from")
	to := dateQuery(c, "to")
	if from == nil || to == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to dates required (YYYY-MM-DD)"})
		return time.Time{}, time.Time{}, false
	}
	return *from, *to, true
}

func PurchasesByVendorReport(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	results, err := reports.GetPurchasesByVendorReport(c.Request.Context(), from, to, intQuery(c, "vendor_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func SpendingByProductReport(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	results, err := reports.GetSpendingByProductReport(c.Request.Context(), from, to,
		intQuery(c, "category_id"), intQueryDefault(c, "limit", 50))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func DeadStockReport(c *gin.Context) {
	results, err := reports.GetDeadStockReport(c.Request.Context(), time.Now(),
		intQueryDefault(c, "quiet_days", 60), intQueryDefault(c, "min_orders", 3))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func SeasonalPriceReport(c *gin.Context) {
	results, err := reports.GetSeasonalPriceReport(c.Request.Context(),
		intQuery(c, "product_id"), intQueryDefault(c, "min_samples", 2))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func RecordDailySales(c *gin.Context) {
	var input models.DailySales
	if !bindJSON(c, &input) {
		return
	}
	entry, err := models.RecordDailySales(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func ListDailySales(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	entries, err := models.GetDailySales(c.Request.Context(), from, to)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func SetMonthlyBudget(c *gin.Context) {
	var input models.MonthlyBudget
	if !bindJSON(c, &input) {
		return
	}
	budget, err := models.SetMonthlyBudget(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func GetBudgetStatus(c *gin.Context) {
	now := time.Now()
	year := intQueryDefault(c, "year", now.Year())
	month := intQueryDefault(c, "month", int(now.Month()))
	status, err := models.GetBudgetStatus(c.Request.Context(), year, month, intQueryDefault(c, "category_id", 0))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
