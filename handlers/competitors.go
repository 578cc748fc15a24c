package handlers

import (
	"net/http"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateCompetitorStore(c *gin.Context) {
	var input models.NewCompetitorStore
	if !bindJSON(c, &input) {
		return
	}
	store, err := models.CreateCompetitorStore(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func ListCompetitorStores(c *gin.Context) {
	stores, err := models.GetCompetitorStores(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func CreateCompetitorPrice(c *gin.Context) {
	var input models.NewCompetitorPrice
	if !bindJSON(c, &input) {
		return
	}
	price, err := models.CreateCompetitorPrice(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, price)
}

func ListCompetitorPrices(c *gin.Context) {
	var productName *string
	if raw := c.Query("product_name"); raw != "" {
		productName = &raw
	}
	prices, err := models.GetCompetitorPrices(c.Request.Context(),
		intQuery(c, "store_id"), productName, intQueryDefault(c, "limit", 100))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}
