package handlers

import (
	"net/http"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/gin-gonic/gin"
)

func CreatePriceContract(c *gin.Context) {
	var input models.NewPriceContract
	if !bindJSON(c, &input) {
		return
	}
	contract, err := models.CreatePriceContract(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func UpdatePriceContract(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewPriceContract
	if !bindJSON(c, &input) {
		return
	}
	contract, err := models.UpdatePriceContract(c.Request.Context(), id, &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func DeletePriceContract(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	contract, err := models.DeletePriceContract(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func ListPriceContracts(c *gin.Context) {
	contracts, err := models.GetPriceContracts(c.Request.Context(), intQuery(c, "product_id"), intQuery(c, "vendor_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// GetContractCompliance reports each active contract against the latest
// observed price from its vendor.
func GetContractCompliance(c *gin.Context) {
	results, err := analytics.CheckContractCompliance(c.Request.Context(), time.Now())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
