package routers

import (
	"github.com/GrainArc/ScenarioMap/views"
	"github.com/gin-gonic/gin"
)

func UrbanRouters(r *gin.Engine) {
	UrbanController := &views.UrbanController{}
	projectRouter := r.Group("/project")
	{
		projectRouter.POST("", UrbanController.CreateProject)
		projectRouter.GET("/:project_id", UrbanController.GetProject)
		projectRouter.DELETE("/:project_id", UrbanController.DeleteProject)
		projectRouter.POST("/:project_id/RegenerateContext", UrbanController.RegenerateContext)
	}
	scenarioRouter := r.Group("/scenario")
	{
		scenarioRouter.GET("/:scenario_id/UrbanObjects", UrbanController.GetScenarioObjects)
		scenarioRouter.GET("/:scenario_id/PhysicalObjects", UrbanController.GetScenarioPhysicalObjects)
		scenarioRouter.GET("/:scenario_id/ObjectGeometries", UrbanController.GetScenarioGeometries)
		scenarioRouter.GET("/:scenario_id/Services", UrbanController.GetScenarioServices)
		scenarioRouter.POST("/:scenario_id/PhysicalObject", UrbanController.AddPhysicalObject)
		scenarioRouter.POST("/:scenario_id/PhysicalObject/:physical_object_id", UrbanController.UpdatePhysicalObject)
		scenarioRouter.POST("/:scenario_id/ObjectGeometry/:object_geometry_id", UrbanController.UpdateObjectGeometry)
		scenarioRouter.POST("/:scenario_id/Service", UrbanController.AddService)
		scenarioRouter.POST("/:scenario_id/Service/:service_id", UrbanController.UpdateService)
		scenarioRouter.POST("/:scenario_id/ExistingService", UrbanController.AddExistingService)
		scenarioRouter.DELETE("/:scenario_id/UrbanObject/:urban_object_id", UrbanController.DeleteUrbanObject)
		scenarioRouter.POST("/:scenario_id/Reset", UrbanController.ResetScenario)
	}
	territoryRouter := r.Group("/territory")
	{
		territoryRouter.POST("", UrbanController.AddTerritory)
		territoryRouter.GET("/:territory_id/Ancestors", UrbanController.GetAncestors)
		territoryRouter.GET("/:territory_id/Descendants", UrbanController.GetDescendants)
		territoryRouter.GET("/:territory_id/ServicesCapacity", UrbanController.ServicesCapacity)
	}
}
