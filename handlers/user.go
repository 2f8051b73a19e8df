package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateUser", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func UpdateUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := models.UpdateUser(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateUser", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func DeleteUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	user, err := models.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteUser", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func GetUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	user, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUsers lists users, optionally filtered by ?role=.
func GetUsers(c *gin.Context) {
	var role *models.UserRole
	if raw := c.Query("role"); raw != "" {
		r := models.UserRole(raw)
		role = &r
	}
	users, err := models.GetUsers(c.Request.Context(), role)
	if err != nil {
		respondError(c, "handlers", "GetUsers", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
