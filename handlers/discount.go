package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateDiscount(c *gin.Context) {
	var input models.NewDiscount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	discount, err := models.CreateDiscount(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateDiscount", err)
		return
	}
	c.JSON(http.StatusCreated, discount)
}

func UpdateDiscount(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewDiscount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	discount, err := models.UpdateDiscount(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateDiscount", err)
		return
	}
	c.JSON(http.StatusOK, discount)
}

func DeleteDiscount(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	discount, err := models.DeleteDiscount(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteDiscount", err)
		return
	}
	c.JSON(http.StatusOK, discount)
}

func GetDiscount(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	discount, err := models.GetDiscount(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetDiscount", err)
		return
	}
	c.JSON(http.StatusOK, discount)
}

func GetDiscounts(c *gin.Context) {
	discounts, err := models.GetDiscounts(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetDiscounts", err)
		return
	}
	c.JSON(http.StatusOK, discounts)
}
