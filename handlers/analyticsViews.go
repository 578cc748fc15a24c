package handlers

import (
	"net/http"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/gin-gonic/gin"
)

func GetReorderSuggestions(c *gin.Context) {
	suggestions, err := analytics.GetReorderSuggestions(c.Request.Context(), analytics.LoadConfig(), time.Now())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

func GetMarginReport(c *gin.Context) {
	results, err := analytics.GetMarginReport(c.Request.Context(), analytics.LoadConfig(), boolQuery(c, "below_only"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func GetSavingsOpportunities(c *gin.Context) {
	results, err := analytics.GetSavingsOpportunities(c.Request.Context(), analytics.LoadConfig(), time.Now())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func ListPriceAlerts(c *gin.Context) {
	alerts, err := models.GetPriceAlerts(c.Request.Context(), boolQuery(c, "unread_only"), intQueryDefault(c, "limit", 50))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func MarkPriceAlertRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	alert, err := models.MarkAlertRead(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
