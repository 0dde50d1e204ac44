package methods

import (
	"encoding/json"
	"sort"

	"github.com/GrainArc/ScenarioMap/config"
	"github.com/GrainArc/ScenarioMap/models"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ContextTerritories is the computed geographic context of a project
// footprint. It is never persisted as its own table; project creation writes
// it into the project properties and later reads recompute it fresh.
type ContextTerritories struct {
	Territories []string `json:"territories"`
	Districts   []string `json:"districts"`
	Context     []int64  `json:"context"`
}

// ResolveContext classifies the subtree of the seed territory against the
// footprint. Territories one level below the deepest city are
// neighbourhoods, two below are districts; the context set is every non-city
// territory at neighbourhood level intersecting a geography buffer around
// the footprint.
//
// A missing seed territory is an error. A subtree without any city is not:
// the result degrades to empty lists so project creation can proceed.
func ResolveContext(DB *gorm.DB, footprint *geojson.Geometry, territoryID int64) (*ContextTerritories, error) {
	nodes, err := DescendantNodes(DB, territoryID)
	if err != nil {
		return nil, err
	}

	result := &ContextTerritories{
		Territories: []string{},
		Districts:   []string{},
		Context:     []int64{},
	}

	cityLevel, ok := HighestCityLevel(nodes)
	if !ok {
		return result, nil
	}
	neighbourhoods, districts := classifyByLevel(nodes, cityLevel)
	if len(neighbourhoods) == 0 && len(districts) == 0 {
		return result, nil
	}

	footprintJSON, err := json.Marshal(footprint)
	if err != nil {
		return nil, err
	}
	geomStr := string(footprintJSON)

	var group errgroup.Group
	if ids := nodeIDs(neighbourhoods); len(ids) > 0 {
		group.Go(func() error {
			return DB.Raw(`
				SELECT name FROM territories_data
				WHERE territory_id IN ?
				  AND ST_Intersects(geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))
				ORDER BY name`, ids, geomStr).Scan(&result.Territories).Error
		})
		group.Go(func() error {
			return DB.Raw(`
				SELECT territory_id FROM territories_data
				WHERE territory_id IN ?
				  AND is_city = false
				  AND ST_Intersects(geometry, ST_Buffer(ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)::geography, ?)::geometry)
				ORDER BY territory_id`, ids, geomStr, config.ContextBufferMeters).Scan(&result.Context).Error
		})
	}
	if ids := nodeIDs(districts); len(ids) > 0 {
		group.Go(func() error {
			return DB.Raw(`
				SELECT name FROM territories_data
				WHERE territory_id IN ?
				  AND ST_Intersects(geometry, ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))
				ORDER BY name`, ids, geomStr).Scan(&result.Districts).Error
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(result.Context, func(i, j int) bool { return result.Context[i] < result.Context[j] })
	return result, nil
}

func nodeIDs(nodes []TerritoryNode) []int64 {
	ids := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.TerritoryID)
	}
	return ids
}

// RegenerateContext recomputes the context of an existing project from its
// stored footprint and writes it back into the project properties.
func RegenerateContext(DB *gorm.DB, projectID int64) (*ContextTerritories, error) {
	var project models.ProjectData
	err := DB.Where("project_id = ?", projectID).Take(&project).Error
	if err == gorm.ErrRecordNotFound {
		return nil, NewNotFound(projectID, "project")
	}
	if err != nil {
		return nil, err
	}

	footprint, err := ProjectFootprint(DB, projectID)
	if err != nil {
		return nil, err
	}

	context, err := ResolveContext(DB, footprint, project.TerritoryID)
	if err != nil {
		return nil, err
	}

	properties := map[string]interface{}{}
	if len(project.Properties) > 0 {
		if err := json.Unmarshal(project.Properties, &properties); err != nil {
			return nil, err
		}
	}
	properties["territories"] = context.Territories
	properties["districts"] = context.Districts
	properties["context"] = context.Context
	raw, err := json.Marshal(properties)
	if err != nil {
		return nil, err
	}
	err = DB.Model(&models.ProjectData{}).
		Where("project_id = ?", projectID).
		Update("properties", raw).Error
	if err != nil {
		return nil, err
	}
	return context, nil
}

// ProjectFootprint loads the stored footprint polygon of a project as
// geojson.
func ProjectFootprint(DB *gorm.DB, projectID int64) (*geojson.Geometry, error) {
	var raw string
	err := DB.Raw(`
		SELECT ST_AsGeoJSON(geometry) FROM projects_territory_data
		WHERE project_id = ?`, projectID).Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, NewNotFoundByParams("project territory", projectID)
	}
	geom := &geojson.Geometry{}
	if err := geom.UnmarshalJSON([]byte(raw)); err != nil {
		return nil, err
	}
	return geom, nil
}
