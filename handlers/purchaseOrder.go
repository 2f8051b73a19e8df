package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func queryDatePtr(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &value
}

func queryStringPtr(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

func CreatePurchaseOrder(c *gin.Context) {
	var input models.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreatePurchaseOrder", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetPurchaseOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	order, err := models.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetPurchaseOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetPurchaseOrders(c *gin.Context) {
	filter := models.PurchaseOrderFilter{
		PoNumber:    queryStringPtr(c, "po_number"),
		UserId:      queryIntPtr(c, "user_id"),
		TerritoryId: queryIntPtr(c, "territory_id"),
		RegionId:    queryIntPtr(c, "region_id"),
		DateFrom:    queryDatePtr(c, "date_from"),
		DateTo:      queryDatePtr(c, "date_to"),
	}
	orders, err := models.GetPurchaseOrders(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "handlers", "GetPurchaseOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func GetNextPurchaseOrderNumber(c *gin.Context) {
	number, err := models.NextPurchaseOrderNumber(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetNextPurchaseOrderNumber", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"po_number": number})
}

func GetUninvoicedPurchaseOrders(c *gin.Context) {
	orders, err := models.GetUninvoicedPurchaseOrders(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetUninvoicedPurchaseOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ExportPurchaseOrder streams one order as an xlsx attachment.
func ExportPurchaseOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	f, err := models.ExportPurchaseOrderExcel(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "ExportPurchaseOrder", err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=purchase-order-%d.xlsx", id))
	if err := f.Write(c.Writer); err != nil {
		respondError(c, "handlers", "ExportPurchaseOrder", err)
	}
}
