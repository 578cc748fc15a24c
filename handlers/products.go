package handlers

import (
	"net/http"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/gin-gonic/gin"
)

func GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func ListProducts(c *gin.Context) {
	var name *string
	if raw := c.Query("name"); raw != "" {
		name = &raw
	}
	products, err := models.GetProducts(c.Request.Context(), name, intQuery(c, "category_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func ListUncategorizedProducts(c *gin.Context) {
	products, err := models.GetUncategorizedProducts(c.Request.Context(), intQueryDefault(c, "limit", 50))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func SetProductCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input struct {
		CategoryId int `json:"category_id" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	product, err := models.SetProductCategory(c.Request.Context(), id, input.CategoryId)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func BulkCategorizeProducts(c *gin.Context) {
	var input struct {
		ProductIds []int `json:"product_ids" binding:"required"`
		CategoryId int   `json:"category_id" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	updated, err := models.BulkCategorizeProducts(c.Request.Context(), input.ProductIds, input.CategoryId)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func SetProductSellPrice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.SellPriceUpdate
	if !bindJSON(c, &input) {
		return
	}
	product, err := models.SetSellPrice(c.Request.Context(), id, &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductPriceHistory returns the observation series for charting,
// oldest first.
func GetProductPriceHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	series, err := analytics.GetSeries(c.Request.Context(), id, intQuery(c, "vendor_id"), dateQuery(c, "since"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetProductVendorComparison returns each vendor's latest price for a
// product, for the cross-vendor view.
func GetProductVendorComparison(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	latest, err := models.LatestObservationPerVendor(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, latest)
}
