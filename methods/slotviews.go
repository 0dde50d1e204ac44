package methods

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Per-slot projections of the merged view. A component referenced by several
// triad rows appears once; is_scenario_object in the projection means the
// component itself is project-owned in that slot, not merely that it appears
// on an overlay row.

type ScenarioPhysicalObject struct {
	PhysicalObjectID       int64          `json:"physical_object_id"`
	PhysicalObjectTypeID   int64          `json:"physical_object_type_id"`
	PhysicalObjectTypeName string         `json:"physical_object_type_name"`
	Name                   string         `json:"name"`
	Properties             datatypes.JSON `json:"properties"`
	IsScenarioObject       bool           `json:"is_scenario_object"`
}

type ScenarioGeometry struct {
	ObjectGeometryID int64  `json:"object_geometry_id"`
	Geometry         string `json:"geometry"`
	Address          string `json:"address"`
	IsScenarioObject bool   `json:"is_scenario_object"`
}

type ScenarioService struct {
	ServiceID        int64   `json:"service_id"`
	ServiceTypeID    *int64  `json:"service_type_id"`
	Name             *string `json:"name"`
	Capacity         *int64  `json:"capacity_real"`
	IsScenarioObject bool    `json:"is_scenario_object"`
}

func ScenarioPhysicalObjects(DB *gorm.DB, scenarioID int64, userID string) ([]ScenarioPhysicalObject, error) {
	rows, err := MergedUrbanObjects(DB, scenarioID, userID)
	if err != nil {
		return nil, err
	}
	return distinctPhysicalObjects(rows), nil
}

func ScenarioGeometries(DB *gorm.DB, scenarioID int64, userID string) ([]ScenarioGeometry, error) {
	rows, err := MergedUrbanObjects(DB, scenarioID, userID)
	if err != nil {
		return nil, err
	}
	return distinctGeometries(rows), nil
}

func ScenarioServices(DB *gorm.DB, scenarioID int64, userID string) ([]ScenarioService, error) {
	rows, err := MergedUrbanObjects(DB, scenarioID, userID)
	if err != nil {
		return nil, err
	}
	return distinctServices(rows), nil
}

func distinctPhysicalObjects(rows []MergedUrbanObject) []ScenarioPhysicalObject {
	index := make(map[int64]int, len(rows))
	result := make([]ScenarioPhysicalObject, 0, len(rows))
	for _, row := range rows {
		if at, ok := index[row.PhysicalObjectID]; ok {
			if row.IsScenarioPhysicalObject {
				result[at].IsScenarioObject = true
			}
			continue
		}
		index[row.PhysicalObjectID] = len(result)
		result = append(result, ScenarioPhysicalObject{
			PhysicalObjectID:       row.PhysicalObjectID,
			PhysicalObjectTypeID:   row.PhysicalObjectTypeID,
			PhysicalObjectTypeName: row.PhysicalObjectTypeName,
			Name:                   row.PhysicalObjectName,
			Properties:             row.PhysicalObjectProperties,
			IsScenarioObject:       row.IsScenarioPhysicalObject,
		})
	}
	return result
}

func distinctGeometries(rows []MergedUrbanObject) []ScenarioGeometry {
	index := make(map[int64]int, len(rows))
	result := make([]ScenarioGeometry, 0, len(rows))
	for _, row := range rows {
		if at, ok := index[row.ObjectGeometryID]; ok {
			if row.IsScenarioGeometry {
				result[at].IsScenarioObject = true
			}
			continue
		}
		index[row.ObjectGeometryID] = len(result)
		result = append(result, ScenarioGeometry{
			ObjectGeometryID: row.ObjectGeometryID,
			Geometry:         row.Geometry,
			Address:          row.Address,
			IsScenarioObject: row.IsScenarioGeometry,
		})
	}
	return result
}

func distinctServices(rows []MergedUrbanObject) []ScenarioService {
	index := make(map[int64]int, len(rows))
	result := make([]ScenarioService, 0, len(rows))
	for _, row := range rows {
		if row.ServiceID == nil {
			continue
		}
		if at, ok := index[*row.ServiceID]; ok {
			if row.IsScenarioService {
				result[at].IsScenarioObject = true
			}
			continue
		}
		index[*row.ServiceID] = len(result)
		result = append(result, ScenarioService{
			ServiceID:        *row.ServiceID,
			ServiceTypeID:    row.ServiceTypeID,
			Name:             row.ServiceName,
			Capacity:         row.Capacity,
			IsScenarioObject: row.IsScenarioService,
		})
	}
	return result
}
