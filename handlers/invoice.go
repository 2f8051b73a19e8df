package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateInvoice(c *gin.Context) {
	var input models.NewInvoice
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	invoice, err := models.CreateInvoice(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateInvoice", err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func GetInvoice(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	invoice, err := models.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetInvoice", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func GetInvoices(c *gin.Context) {
	filter := models.InvoiceFilter{
		InvoiceNumber: queryStringPtr(c, "invoice_number"),
		PoId:          queryIntPtr(c, "po_id"),
		DateFrom:      queryDatePtr(c, "date_from"),
		DateTo:        queryDatePtr(c, "date_to"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.InvoiceStatus(raw)
		filter.Status = &status
	}
	invoices, err := models.GetInvoices(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "handlers", "GetInvoices", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

type updateInvoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status" binding:"required"`
}

func UpdateInvoiceStatus(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	invoice, err := models.UpdateInvoiceStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, "handlers", "UpdateInvoiceStatus", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// GetNextInvoiceNumber hands out the next number for the day (today unless
// ?date= says otherwise). Unused numbers leave gaps, never duplicates.
func GetNextInvoiceNumber(c *gin.Context) {
	date := time.Now()
	if d := queryDatePtr(c, "date"); d != nil {
		date = *d
	}
	number, err := models.NextInvoiceNumber(c.Request.Context(), date)
	if err != nil {
		respondError(c, "handlers", "GetNextInvoiceNumber", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_number": number})
}
