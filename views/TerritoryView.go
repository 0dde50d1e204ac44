package views

import (
	"net/http"
	"strconv"

	"github.com/GrainArc/ScenarioMap/methods"
	"github.com/GrainArc/ScenarioMap/models"
	"github.com/gin-gonic/gin"
)

func territoryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("territory_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad territory id"})
		return 0, false
	}
	return id, true
}

// GetAncestors returns the territory chain from the forest root down to the
// requested territory.
func (uc *UrbanController) GetAncestors(c *gin.Context) {
	id, ok := territoryID(c)
	if !ok {
		return
	}
	chain, err := methods.AncestorsAndSelf(models.DB, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, chain)
}

func (uc *UrbanController) GetDescendants(c *gin.Context) {
	id, ok := territoryID(c)
	if !ok {
		return
	}
	includeSelf := c.DefaultQuery("include_self", "true") == "true"
	citiesOnly := c.DefaultQuery("cities_only", "false") == "true"
	ids, err := methods.Descendants(models.DB, id, includeSelf, citiesOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (uc *UrbanController) AddTerritory(c *gin.Context) {
	var jsonData models.TerritoryData
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := methods.AddTerritory(models.DB, &jsonData); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jsonData)
}

// ServicesCapacity aggregates service count and capacity for every
// territory at the requested level under this one.
func (uc *UrbanController) ServicesCapacity(c *gin.Context) {
	id, ok := territoryID(c)
	if !ok {
		return
	}
	level, err := strconv.Atoi(c.Query("level"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad level"})
		return
	}
	var serviceTypeID *int64
	if raw := c.Query("service_type_id"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad service type id"})
			return
		}
		serviceTypeID = &value
	}
	rows, err := methods.ServicesCapacityByLevel(models.DB, id, level, serviceTypeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
