package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateFreeIssue(c *gin.Context) {
	var input models.NewFreeIssue
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	freeIssue, err := models.CreateFreeIssue(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateFreeIssue", err)
		return
	}
	c.JSON(http.StatusCreated, freeIssue)
}

func UpdateFreeIssue(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewFreeIssue
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	freeIssue, err := models.UpdateFreeIssue(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateFreeIssue", err)
		return
	}
	c.JSON(http.StatusOK, freeIssue)
}

func DeleteFreeIssue(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	freeIssue, err := models.DeleteFreeIssue(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteFreeIssue", err)
		return
	}
	c.JSON(http.StatusOK, freeIssue)
}

func GetFreeIssue(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	freeIssue, err := models.GetFreeIssue(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetFreeIssue", err)
		return
	}
	c.JSON(http.StatusOK, freeIssue)
}

func GetFreeIssues(c *gin.Context) {
	freeIssues, err := models.GetFreeIssues(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetFreeIssues", err)
		return
	}
	c.JSON(http.StatusOK, freeIssues)
}
