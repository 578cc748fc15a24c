package handlers

import (
	"io"
	"net/http"

	"github.com/appletreemkt/purchases_backend/analytics"
	"github.com/appletreemkt/purchases_backend/models"
	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ConfirmInvoice persists a reviewed OCR draft and immediately
// materializes its line items into price observations.
func ConfirmInvoice(c *gin.Context) {
	var input models.NewInvoice
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := models.CreateInvoice(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	observations, err := analytics.MaterializeInvoice(c.Request.Context(), invoice.ID, analytics.LoadConfig())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice, "observations": observations})
}

func GetInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func ListInvoices(c *gin.Context) {
	var status *models.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		s := models.InvoiceStatus(raw)
		status = &s
	}
	invoices, err := models.GetInvoices(c.Request.Context(),
		intQuery(c, "vendor_id"), status,
		dateQuery(c, "from"), dateQuery(c, "to"),
		intQueryDefault(c, "limit", 100))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func UpdateInvoiceStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input struct {
		Status models.InvoiceStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := models.UpdateInvoiceStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func DeleteInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := models.DeleteInvoice(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func UpdateInvoiceShortages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.ShortageUpdate
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := models.UpdateShortages(c.Request.Context(), id, &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func CreateInvoiceDispute(c *gin.Context) {
	var input models.NewDispute
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := models.CreateDispute(c.Request.Context(), &input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func ResolveInvoiceDispute(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input struct {
		CreditAmount decimal.Decimal `json:"credit_amount"`
	}
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := models.ResolveDispute(c.Request.Context(), id, input.CreditAmount)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// UploadInvoiceImage stores the photographed invoice and returns the
// path the OCR collaborator and the confirm call reference.
func UploadInvoiceImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		respondErr(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondErr(c, err)
		return
	}
	path, err := utils.SaveInvoiceImage(c.Request.Context(), data)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image_path": path})
}
