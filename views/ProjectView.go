package views

import (
	"net/http"
	"strconv"

	"github.com/GrainArc/ScenarioMap/methods"
	"github.com/GrainArc/ScenarioMap/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProject runs the full scenario import pipeline: context resolution,
// base scenario, cropping, functional zones.
func (uc *UrbanController) CreateProject(c *gin.Context) {
	var jsonData methods.ProjectPost
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := methods.CreateProject(models.DB, jsonData, userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (uc *UrbanController) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad project id"})
		return
	}
	var project models.ProjectData
	err = models.DB.Where("project_id = ?", projectID).Take(&project).Error
	if err == gorm.ErrRecordNotFound {
		AbortWithError(c, methods.NewNotFound(projectID, "project"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if project.UserID != userID(c) && !project.Public {
		AbortWithError(c, methods.NewAccessDenied(projectID, "project"))
		return
	}
	c.JSON(http.StatusOK, project)
}

// RegenerateContext recomputes the stored context territory sets of a
// project from its current footprint.
func (uc *UrbanController) RegenerateContext(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad project id"})
		return
	}
	var project models.ProjectData
	err = models.DB.Where("project_id = ?", projectID).Take(&project).Error
	if err == gorm.ErrRecordNotFound {
		AbortWithError(c, methods.NewNotFound(projectID, "project"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if project.UserID != userID(c) {
		AbortWithError(c, methods.NewAccessDenied(projectID, "project"))
		return
	}
	context, err := methods.RegenerateContext(models.DB, projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, context)
}

func (uc *UrbanController) DeleteProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad project id"})
		return
	}
	var project models.ProjectData
	err = models.DB.Where("project_id = ?", projectID).Take(&project).Error
	if err == gorm.ErrRecordNotFound {
		AbortWithError(c, methods.NewNotFound(projectID, "project"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if project.UserID != userID(c) {
		AbortWithError(c, methods.NewAccessDenied(projectID, "project"))
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		var scenarioIDs []int64
		if err := tx.Model(&models.ScenarioData{}).Where("project_id = ?", projectID).Pluck("scenario_id", &scenarioIDs).Error; err != nil {
			return err
		}
		if len(scenarioIDs) > 0 {
			if err := tx.Exec(`DELETE FROM projects_urban_objects_data WHERE scenario_id IN ?`, scenarioIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec(`DELETE FROM projects_functional_zones_data WHERE scenario_id IN ?`, scenarioIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec(`DELETE FROM scenarios_data WHERE project_id = ?`, projectID).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec(`DELETE FROM projects_territory_data WHERE project_id = ?`, projectID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ProjectData{}, "project_id = ?", projectID).Error
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}
