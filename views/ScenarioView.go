package views

import (
	"net/http"
	"strconv"

	"github.com/GrainArc/ScenarioMap/methods"
	"github.com/GrainArc/ScenarioMap/models"
	"github.com/gin-gonic/gin"
)

func scenarioID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("scenario_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad scenario id"})
		return 0, false
	}
	return id, true
}

// GetScenarioObjects returns the merged triad view of a scenario.
func (uc *UrbanController) GetScenarioObjects(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	rows, err := methods.MergedUrbanObjects(models.DB, id, userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetScenarioPhysicalObjects projects the merged view onto distinct physical
// objects.
func (uc *UrbanController) GetScenarioPhysicalObjects(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	rows, err := methods.ScenarioPhysicalObjects(models.DB, id, userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (uc *UrbanController) GetScenarioGeometries(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	rows, err := methods.ScenarioGeometries(models.DB, id, userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (uc *UrbanController) GetScenarioServices(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	rows, err := methods.ScenarioServices(models.DB, id, userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (uc *UrbanController) AddPhysicalObject(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	var jsonData methods.PhysicalObjectWithGeometryPost
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := methods.AddPhysicalObjectToScenario(models.DB, id, userID(c), jsonData)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

type physicalObjectEdit struct {
	IsScenarioObject bool                        `json:"is_scenario_object"`
	Patch            methods.PhysicalObjectPatch `json:"patch"`
}

func (uc *UrbanController) UpdatePhysicalObject(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	objectID, err := strconv.ParseInt(c.Param("physical_object_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad physical object id"})
		return
	}
	var jsonData physicalObjectEdit
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := methods.UpdatePhysicalObject(models.DB, id, userID(c), objectID, jsonData.IsScenarioObject, jsonData.Patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

type geometryEdit struct {
	IsScenarioObject bool                  `json:"is_scenario_object"`
	Patch            methods.GeometryPatch `json:"patch"`
}

func (uc *UrbanController) UpdateObjectGeometry(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	geometryID, err := strconv.ParseInt(c.Param("object_geometry_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad object geometry id"})
		return
	}
	var jsonData geometryEdit
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := methods.UpdateObjectGeometry(models.DB, id, userID(c), geometryID, jsonData.IsScenarioObject, jsonData.Patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

type serviceEdit struct {
	IsScenarioObject bool                 `json:"is_scenario_object"`
	Patch            methods.ServicePatch `json:"patch"`
}

func (uc *UrbanController) UpdateService(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	sID, err := strconv.ParseInt(c.Param("service_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad service id"})
		return
	}
	var jsonData serviceEdit
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := methods.UpdateService(models.DB, id, userID(c), sID, jsonData.IsScenarioObject, jsonData.Patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (uc *UrbanController) AddService(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	var jsonData methods.ServicePost
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := methods.AddServiceToScenario(models.DB, id, userID(c), jsonData)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

type existingServicePost struct {
	ServiceID        int64 `json:"service_id"`
	PhysicalObjectID int64 `json:"physical_object_id"`
	ObjectGeometryID int64 `json:"object_geometry_id"`
}

func (uc *UrbanController) AddExistingService(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	var jsonData existingServicePost
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := methods.AddExistingServiceToScenario(models.DB, id, userID(c), jsonData.ServiceID, jsonData.PhysicalObjectID, jsonData.ObjectGeometryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (uc *UrbanController) DeleteUrbanObject(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	urbanObjectID, err := strconv.ParseInt(c.Param("urban_object_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad urban object id"})
		return
	}
	if err := methods.DeleteUrbanObject(models.DB, id, userID(c), urbanObjectID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

// ResetScenario returns a scenario to its public baseline.
func (uc *UrbanController) ResetScenario(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	if err := methods.ResetScenario(models.DB, id, userID(c)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}
