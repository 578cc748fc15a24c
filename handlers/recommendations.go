package handlers

import (
	"net/http"
	"time"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/gin-gonic/gin"
)

func ListRecommendations(c *gin.Context) {
	status := models.RecommendationStatusOpen
	if raw := c.Query("status"); raw != "" {
		status = models.RecommendationStatus(raw)
	}
	var recType *models.RecommendationType
	if raw := c.Query("type"); raw != "" {
		t := models.RecommendationType(raw)
		recType = &t
	}
	recs, err := models.GetRecommendations(c.Request.Context(), &status, recType,
		intQuery(c, "product_id"), time.Now(), intQueryDefault(c, "limit", 100))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func CountOpenRecommendations(c *gin.Context) {
	count, err := models.CountOpenRecommendations(c.Request.Context(), time.Now())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": count})
}

func DismissRecommendation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rec, err := models.DismissRecommendation(c.Request.Context(), id, resolvedBy(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func ActOnRecommendation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rec, err := models.MarkRecommendationActedOn(c.Request.Context(), id, resolvedBy(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RunRecommendationPass triggers the engine on demand. The pass reports
// partial failures in the body rather than failing the request.
func RunRecommendationPass(c *gin.Context) {
	result, err := analytics.RunRecommendationPass(c.Request.Context(), analytics.LoadConfig(), time.Now())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func resolvedBy(c *gin.Context) string {
	if name, ok := utils.GetUserNameFromContext(c.Request.Context()); ok {
		return name
	}
	return "owner"
}
