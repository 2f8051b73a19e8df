package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"github.com/gin-gonic/gin"
)

func queryIntPtr(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func CreateZone(c *gin.Context) {
	var input models.NewZone
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	zone, err := models.CreateZone(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateZone", err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

func UpdateZone(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewZone
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	zone, err := models.UpdateZone(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateZone", err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

func DeleteZone(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	zone, err := models.DeleteZone(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteZone", err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

func GetZones(c *gin.Context) {
	zones, err := models.GetZones(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "GetZones", err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

func CreateRegion(c *gin.Context) {
	var input models.NewRegion
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	region, err := models.CreateRegion(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateRegion", err)
		return
	}
	c.JSON(http.StatusCreated, region)
}

func UpdateRegion(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewRegion
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	region, err := models.UpdateRegion(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateRegion", err)
		return
	}
	c.JSON(http.StatusOK, region)
}

func DeleteRegion(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	region, err := models.DeleteRegion(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteRegion", err)
		return
	}
	c.JSON(http.StatusOK, region)
}

// GetRegions lists regions, optionally scoped to one zone via ?zone_id=.
func GetRegions(c *gin.Context) {
	regions, err := models.GetRegions(c.Request.Context(), queryIntPtr(c, "zone_id"))
	if err != nil {
		respondError(c, "handlers", "GetRegions", err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

func CreateTerritory(c *gin.Context) {
	var input models.NewTerritory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	territory, err := models.CreateTerritory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateTerritory", err)
		return
	}
	c.JSON(http.StatusCreated, territory)
}

func UpdateTerritory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewTerritory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	territory, err := models.UpdateTerritory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateTerritory", err)
		return
	}
	c.JSON(http.StatusOK, territory)
}

func DeleteTerritory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	territory, err := models.DeleteTerritory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteTerritory", err)
		return
	}
	c.JSON(http.StatusOK, territory)
}

// GetTerritories lists territories, optionally scoped to one region via
// ?region_id=.
func GetTerritories(c *gin.Context) {
	territories, err := models.GetTerritories(c.Request.Context(), queryIntPtr(c, "region_id"))
	if err != nil {
		respondError(c, "handlers", "GetTerritories", err)
		return
	}
	c.JSON(http.StatusOK, territories)
}
