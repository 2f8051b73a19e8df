package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateSku(c *gin.Context) {
	var input models.NewSku
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	sku, err := models.CreateSku(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateSku", err)
		return
	}
	c.JSON(http.StatusCreated, sku)
}

func UpdateSku(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSku
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	sku, err := models.UpdateSku(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateSku", err)
		return
	}
	c.JSON(http.StatusOK, sku)
}

func DeleteSku(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sku, err := models.DeleteSku(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteSku", err)
		return
	}
	c.JSON(http.StatusOK, sku)
}

func GetSku(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	sku, err := models.GetSku(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetSku", err)
		return
	}
	c.JSON(http.StatusOK, sku)
}

func GetSkus(c *gin.Context) {
	skus, err := models.GetSkus(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetSkus", err)
		return
	}
	c.JSON(http.StatusOK, skus)
}

// GetCatalog serves the order entry screen: every sku with its current
// discount and discounted price.
func GetCatalog(c *gin.Context) {
	catalog, err := models.GetSkusWithPricing(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetCatalog", err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// GetSkuPrice resolves the live price of one sku.
func GetSkuPrice(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	price, err := models.ResolveSkuPrice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetSkuPrice", err)
		return
	}
	c.JSON(http.StatusOK, price)
}
