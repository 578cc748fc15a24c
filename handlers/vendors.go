package handlers

import (
	"net/http"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateVendor(c *gin.Context) {
	var input models.NewVendor
	if !bindJSON(c, &input) {
		return
	}
	vendor, err := models.CreateVendor(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func UpdateVendor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewVendor
	if !bindJSON(c, &input) {
		return
	}
	vendor, err := models.UpdateVendor(c.Request.Context(), id, &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func GetVendor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	vendor, err := models.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func ListVendors(c *gin.Context) {
	var name *string
	if raw := c.Query("name"); raw != "" {
		name = &raw
	}
	vendors, err := models.GetVendors(c.Request.Context(), name, boolQuery(c, "active_only"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func ToggleVendorActive(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	vendor, err := models.ToggleActiveVendor(c.Request.Context(), id, *input.IsActive)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// GetVendorScorecard derives the reliability / price-stability rollup
// over a trailing window (default 90 days).
func GetVendorScorecard(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	periodDays := intQueryDefault(c, "period_days", 90)
	card, err := analytics.ComposeVendorScorecard(c.Request.Context(), id, periodDays, analytics.LoadConfig(), time.Now())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
