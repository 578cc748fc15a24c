package handlers

import (
	"net/http"

	"github.com/appletreemkt/purchases_backend/models"
	"github.com/gin-gonic/gin"
)

func SaveOCRCorrection(c *gin.Context) {
	var input models.NewOCRCorrection
	if !bindJSON(c, &input) {
		return
	}
	correction, err := models.SaveOCRCorrection(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, correction)
}

func ListOCRCorrections(c *gin.Context) {
	corrections, err := models.GetOCRCorrections(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, corrections)
}

func DeleteOCRCorrection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	correction, err := models.DeleteOCRCorrection(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, correction)
}
