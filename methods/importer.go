package methods

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/GrainArc/ScenarioMap/config"
	"github.com/GrainArc/ScenarioMap/models"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const BaseScenarioName = "Исходный пользовательский сценарий"

type ProjectPost struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	TerritoryID int64             `json:"territory_id"`
	IsRegional  bool              `json:"is_regional"`
	Public      bool              `json:"public"`
	Properties  datatypes.JSON    `json:"properties"`
	Geometry    *geojson.Geometry `json:"geometry"`
}

// cropCandidate carries the spatial measures of one public geometry against
// the project footprint. The measures come from SQL, the policy of which
// candidates get cropped is applied in Go.
type cropCandidate struct {
	ObjectGeometryID int64   `gorm:"column:object_geometry_id"`
	Contained        bool    `gorm:"column:contained"`
	OverlapArea      float64 `gorm:"column:overlap_area"`
	TotalArea        float64 `gorm:"column:total_area"`
	FunctionID       int64   `gorm:"column:function_id"`
}

// cropEligible decides whether a public geometry is copied into the scenario
// as a cropped project-owned geometry. Fully contained geometries never are:
// they stay visible through the public branch of the merged view. The area
// threshold is inclusive at the boundary. Buildings are never cropped.
func cropEligible(candidate cropCandidate) bool {
	if candidate.Contained {
		return false
	}
	if candidate.FunctionID == config.BuildingFunctionID {
		return false
	}
	if candidate.TotalArea <= 0 {
		return false
	}
	return candidate.OverlapArea >= config.CropAreaPercent*candidate.TotalArea
}

// CreateProject runs the whole scenario import pipeline in one transaction:
// context resolution, base scenario creation, geometry cropping, triad
// materialisation and functional zone cropping. The indicator recompute kick
// happens after commit and never fails the pipeline.
func CreateProject(DB *gorm.DB, post ProjectPost, userID string) (*models.ProjectData, error) {
	var territoryCount int64
	if err := DB.Model(&models.TerritoryData{}).Where("territory_id = ?", post.TerritoryID).Count(&territoryCount).Error; err != nil {
		return nil, err
	}
	if territoryCount == 0 {
		return nil, NewNotFound(post.TerritoryID, "territory")
	}
	if post.Geometry == nil {
		return nil, NewNotFoundByParams("geometry", "project post")
	}

	properties := map[string]interface{}{}
	if len(post.Properties) > 0 {
		if err := json.Unmarshal(post.Properties, &properties); err != nil {
			return nil, err
		}
	}
	if !post.IsRegional {
		context, err := ResolveContext(DB, post.Geometry, post.TerritoryID)
		if err != nil {
			return nil, err
		}
		properties["territories"] = context.Territories
		properties["districts"] = context.Districts
		properties["context"] = context.Context
	}
	rawProperties, err := json.Marshal(properties)
	if err != nil {
		return nil, err
	}

	footprintJSON, err := json.Marshal(post.Geometry)
	if err != nil {
		return nil, err
	}
	footprint := string(footprintJSON)

	var project models.ProjectData
	var scenarioID int64
	err = DB.Transaction(func(tx *gorm.DB) error {
		project = models.ProjectData{
			UserID:      userID,
			TerritoryID: post.TerritoryID,
			Name:        post.Name,
			Description: post.Description,
			IsRegional:  post.IsRegional,
			Public:      post.Public,
			Properties:  rawProperties,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		territory := models.ProjectTerritory{ProjectID: project.ProjectID}
		if err := tx.Omit("geometry", "centre_point").Create(&territory).Error; err != nil {
			return err
		}
		err := tx.Exec(`
			UPDATE projects_territory_data
			SET geometry = ST_SetSRID(ST_GeomFromGeoJSON(?), 4326),
			    centre_point = ST_Centroid(ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))
			WHERE project_territory_id = ?`, footprint, footprint, territory.ProjectTerritoryID).Error
		if err != nil {
			return err
		}

		var parentScenarioID *int64
		if !post.IsRegional {
			var baseID int64
			err := tx.Raw(`
				SELECT s.scenario_id FROM scenarios_data s
				JOIN projects_data p ON p.project_id = s.project_id
				WHERE p.territory_id = ? AND p.is_regional = true AND s.is_based = true
				LIMIT 1`, post.TerritoryID).Scan(&baseID).Error
			if err != nil {
				return err
			}
			if baseID == 0 {
				return NewNotFoundByParams("parent scenario", post.TerritoryID)
			}
			parentScenarioID = &baseID
		}

		scenario := models.ScenarioData{
			ProjectID: project.ProjectID,
			ParentID:  parentScenarioID,
			Name:      BaseScenarioName,
			IsBased:   true,
		}
		if err := tx.Create(&scenario).Error; err != nil {
			return err
		}
		scenarioID = scenario.ScenarioID

		if err := importPublicObjects(tx, scenario.ScenarioID, footprint); err != nil {
			return err
		}
		if !post.IsRegional {
			if err := importFunctionalZones(tx, scenario.ScenarioID, footprint); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !post.IsRegional {
		go NotifyIndicators(project.ProjectID, scenarioID)
	}
	return &project, nil
}

// importPublicObjects crops partially overlapping public geometries into the
// scenario and materialises their triads as overlay rows: one claim row per
// source triad plus one detail row that keeps public references for the
// untouched physical object and service while pointing at the cropped copy.
func importPublicObjects(tx *gorm.DB, scenarioID int64, footprint string) error {
	var candidates []cropCandidate
	err := tx.Raw(`
		SELECT DISTINCT og.object_geometry_id,
		       ST_Within(og.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)) AS contained,
		       ST_Area(ST_Intersection(og.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))) AS overlap_area,
		       ST_Area(og.geometry) AS total_area,
		       pot.physical_object_function_id AS function_id
		FROM object_geometries_data og
		JOIN urban_objects_data uo ON uo.object_geometry_id = og.object_geometry_id
		JOIN physical_objects_data po ON po.physical_object_id = uo.physical_object_id
		JOIN physical_object_types_dict pot ON pot.physical_object_type_id = po.physical_object_type_id
		WHERE ST_Intersects(og.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))`,
		footprint, footprint, footprint).Scan(&candidates).Error
	if err != nil {
		return err
	}

	var cropIDs []int64
	for _, candidate := range candidates {
		if cropEligible(candidate) {
			cropIDs = append(cropIDs, candidate.ObjectGeometryID)
		}
	}
	if len(cropIDs) == 0 {
		return nil
	}

	type insertedGeometry struct {
		ObjectGeometryID       int64 `gorm:"column:object_geometry_id"`
		PublicObjectGeometryID int64 `gorm:"column:public_object_geometry_id"`
	}
	var inserted []insertedGeometry
	err = tx.Raw(`
		INSERT INTO projects_object_geometries_data
		       (public_object_geometry_id, territory_id, geometry, centre_point, address, created_at, updated_at)
		SELECT og.object_geometry_id,
		       og.territory_id,
		       ST_Intersection(og.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)),
		       ST_Centroid(ST_Intersection(og.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))),
		       og.address, NOW(), NOW()
		FROM object_geometries_data og
		WHERE og.object_geometry_id IN ?
		RETURNING object_geometry_id, public_object_geometry_id`,
		footprint, footprint, cropIDs).Scan(&inserted).Error
	if err != nil {
		return err
	}
	idMapping := make(map[int64]int64, len(inserted))
	for _, row := range inserted {
		idMapping[row.PublicObjectGeometryID] = row.ObjectGeometryID
	}

	var triads []models.UrbanObjectData
	if err := tx.Where("object_geometry_id IN ?", cropIDs).Find(&triads).Error; err != nil {
		return err
	}
	for _, triad := range triads {
		claim, detail := claimAndDetailRows(scenarioID, triad, SlotGeometry, idMapping[triad.ObjectGeometryID])
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}
		if err := tx.Create(&detail).Error; err != nil {
			return err
		}
	}
	return nil
}

// importFunctionalZones copies footprint intersections of public functional
// zones into the scenario. Intersections that degenerate to lines or points
// are silently skipped.
func importFunctionalZones(tx *gorm.DB, scenarioID int64, footprint string) error {
	return tx.Exec(`
		INSERT INTO projects_functional_zones_data
		       (scenario_id, functional_zone_type_id, geometry, year, source, properties)
		SELECT ?,
		       fz.functional_zone_type_id,
		       ST_Intersection(fz.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)),
		       fz.year,
		       fz.source,
		       fz.properties
		FROM functional_zones_data fz
		WHERE ST_Intersects(fz.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))
		  AND ST_GeometryType(ST_Intersection(fz.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))) IN ('ST_Polygon', 'ST_MultiPolygon')
		  AND NOT ST_IsEmpty(ST_Intersection(fz.geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)))`,
		scenarioID, footprint, footprint, footprint, footprint).Error
}

// ResetScenario drops every overlay row and scenario functional zone and
// re-runs the import against the stored project footprint, returning the
// scenario to its public baseline.
func ResetScenario(DB *gorm.DB, scenarioID int64, userID string) error {
	scenario, project, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return err
	}

	footprint, err := ProjectFootprint(DB, project.ProjectID)
	if err != nil {
		return err
	}
	footprintJSON, err := json.Marshal(footprint)
	if err != nil {
		return err
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM projects_urban_objects_data WHERE scenario_id = ?`, scenarioID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM projects_functional_zones_data WHERE scenario_id = ?`, scenarioID).Error; err != nil {
			return err
		}
		if err := importPublicObjects(tx, scenarioID, string(footprintJSON)); err != nil {
			return err
		}
		return importFunctionalZones(tx, scenarioID, string(footprintJSON))
	})
	if err != nil {
		return err
	}

	go NotifyIndicators(scenario.ProjectID, scenarioID)
	return nil
}

// NotifyIndicators asks the external indicator service to recompute for the
// given project scenario. Strictly fire and forget: every failure mode is
// logged and swallowed.
func NotifyIndicators(projectID int64, scenarioID int64) {
	if config.IndicatorAPI == "" {
		return
	}
	url := fmt.Sprintf("%s/indicators_saving/save_all?project_id=%d&scenario_id=%d&background=true",
		config.IndicatorAPI, projectID, scenarioID)
	request, err := http.NewRequest(http.MethodPut, url, nil)
	if err != nil {
		log.Printf("indicator request not built: %v", err)
		return
	}
	client := &http.Client{Timeout: 30 * time.Second}
	response, err := client.Do(request)
	if err != nil {
		log.Printf("failed to save indicators: %v", err)
		return
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		log.Printf("failed to save indicators: status %d, project %d, scenario %d", response.StatusCode, projectID, scenarioID)
	}
}
