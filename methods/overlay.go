package methods

import (
	"encoding/json"

	"github.com/GrainArc/ScenarioMap/models"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OverlaySlot names one of the three components of an urban object triad.
// Slot handling is generic: the same claim/rebind machinery serves physical
// objects, geometries and services, only the column names differ.
type OverlaySlot string

const (
	SlotPhysicalObject OverlaySlot = "physical_object"
	SlotGeometry       OverlaySlot = "object_geometry"
	SlotService        OverlaySlot = "service"
)

var slotColumns = map[OverlaySlot]struct {
	owned  string
	public string
}{
	SlotPhysicalObject: {owned: "physical_object_id", public: "public_physical_object_id"},
	SlotGeometry:       {owned: "object_geometry_id", public: "public_object_geometry_id"},
	SlotService:        {owned: "service_id", public: "public_service_id"},
}

var slotKinds = map[OverlaySlot]string{
	SlotPhysicalObject: "scenario physical object",
	SlotGeometry:       "scenario object geometry",
	SlotService:        "scenario service",
}

// scenarioOwnsComponent checks that a project-owned component is wired into
// an overlay row of the given scenario. Editing by bare component id without
// this check would let any scenario owner reach into other projects' rows.
func scenarioOwnsComponent(tx *gorm.DB, scenarioID int64, slot OverlaySlot, id int64) error {
	var count int64
	err := tx.Model(&models.ProjectUrbanObject{}).
		Where("scenario_id = ? AND "+slotColumns[slot].owned+" = ?", scenarioID, id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return NewNotFound(id, slotKinds[slot])
	}
	return nil
}

// MergedUrbanObject is one row of the merged scenario view. The shape is the
// same whether the row came from the public branch or the overlay branch;
// IsScenarioObject marks the branch, the per-slot flags mark which components
// of an overlay row are project-owned rather than public references.
type MergedUrbanObject struct {
	UrbanObjectID            int64          `gorm:"column:urban_object_id" json:"urban_object_id"`
	PhysicalObjectID         int64          `gorm:"column:physical_object_id" json:"physical_object_id"`
	PhysicalObjectTypeID     int64          `gorm:"column:physical_object_type_id" json:"physical_object_type_id"`
	PhysicalObjectTypeName   string         `gorm:"column:physical_object_type_name" json:"physical_object_type_name"`
	PhysicalObjectName       string         `gorm:"column:physical_object_name" json:"physical_object_name"`
	PhysicalObjectProperties datatypes.JSON `gorm:"column:physical_object_properties" json:"physical_object_properties"`
	ObjectGeometryID         int64          `gorm:"column:object_geometry_id" json:"object_geometry_id"`
	Geometry                 string         `gorm:"column:geometry" json:"geometry"`
	Address                  string         `gorm:"column:address" json:"address"`
	ServiceID                *int64         `gorm:"column:service_id" json:"service_id"`
	ServiceTypeID            *int64         `gorm:"column:service_type_id" json:"service_type_id"`
	ServiceName              *string        `gorm:"column:service_name" json:"service_name"`
	Capacity                 *int64         `gorm:"column:capacity" json:"capacity"`
	IsScenarioObject         bool           `gorm:"column:is_scenario_object" json:"is_scenario_object"`
	IsScenarioPhysicalObject bool           `gorm:"column:is_scenario_physical_object" json:"is_scenario_physical_object"`
	IsScenarioGeometry       bool           `gorm:"column:is_scenario_geometry" json:"is_scenario_geometry"`
	IsScenarioService        bool           `gorm:"column:is_scenario_service" json:"is_scenario_service"`
}

// CheckScenario loads the scenario and its project and enforces visibility:
// reads need ownership or a public project, edits always need ownership.
func CheckScenario(DB *gorm.DB, scenarioID int64, userID string, toEdit bool) (*models.ScenarioData, *models.ProjectData, error) {
	var scenario models.ScenarioData
	err := DB.Where("scenario_id = ?", scenarioID).Take(&scenario).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil, NewNotFound(scenarioID, "scenario")
	}
	if err != nil {
		return nil, nil, err
	}
	var project models.ProjectData
	err = DB.Where("project_id = ?", scenario.ProjectID).Take(&project).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil, NewNotFound(scenario.ProjectID, "project")
	}
	if err != nil {
		return nil, nil, err
	}
	if project.UserID != userID && (toEdit || !project.Public) {
		return nil, nil, NewAccessDenied(project.ProjectID, "project")
	}
	return &scenario, &project, nil
}

// MergedUrbanObjects resolves the full merged triad view of a scenario:
// public triads not yet claimed by the scenario and fully inside the project
// footprint, plus every overlay detail row with per-slot fallback to public
// data.
func MergedUrbanObjects(DB *gorm.DB, scenarioID int64, userID string) ([]MergedUrbanObject, error) {
	_, project, err := CheckScenario(DB, scenarioID, userID, false)
	if err != nil {
		return nil, err
	}

	var publicRows []MergedUrbanObject
	err = DB.Raw(`
		SELECT uo.urban_object_id,
		       po.physical_object_id,
		       po.physical_object_type_id,
		       pot.name AS physical_object_type_name,
		       po.name AS physical_object_name,
		       po.properties AS physical_object_properties,
		       og.object_geometry_id,
		       ST_AsGeoJSON(og.geometry) AS geometry,
		       og.address,
		       s.service_id,
		       s.service_type_id,
		       s.name AS service_name,
		       s.capacity_real AS capacity,
		       false AS is_scenario_object,
		       false AS is_scenario_physical_object,
		       false AS is_scenario_geometry,
		       false AS is_scenario_service
		FROM urban_objects_data uo
		JOIN physical_objects_data po ON po.physical_object_id = uo.physical_object_id
		JOIN object_geometries_data og ON og.object_geometry_id = uo.object_geometry_id
		JOIN physical_object_types_dict pot ON pot.physical_object_type_id = po.physical_object_type_id
		LEFT JOIN services_data s ON s.service_id = uo.service_id
		WHERE uo.urban_object_id NOT IN (
		        SELECT public_urban_object_id FROM projects_urban_objects_data
		        WHERE scenario_id = ? AND public_urban_object_id IS NOT NULL)
		  AND ST_Within(og.geometry, (SELECT geometry FROM projects_territory_data WHERE project_id = ?))
		ORDER BY uo.urban_object_id`, scenarioID, project.ProjectID).Scan(&publicRows).Error
	if err != nil {
		return nil, err
	}

	var scenarioRows []MergedUrbanObject
	err = DB.Raw(`
		SELECT puo.urban_object_id,
		       COALESCE(ppo.physical_object_id, pub_po.physical_object_id) AS physical_object_id,
		       COALESCE(ppo.physical_object_type_id, pub_po.physical_object_type_id) AS physical_object_type_id,
		       pot.name AS physical_object_type_name,
		       COALESCE(ppo.name, pub_po.name) AS physical_object_name,
		       COALESCE(ppo.properties, pub_po.properties) AS physical_object_properties,
		       COALESCE(pog.object_geometry_id, pub_og.object_geometry_id) AS object_geometry_id,
		       ST_AsGeoJSON(COALESCE(pog.geometry, pub_og.geometry)) AS geometry,
		       COALESCE(pog.address, pub_og.address) AS address,
		       COALESCE(ps.service_id, pub_s.service_id) AS service_id,
		       COALESCE(ps.service_type_id, pub_s.service_type_id) AS service_type_id,
		       COALESCE(ps.name, pub_s.name) AS service_name,
		       COALESCE(ps.capacity_real, pub_s.capacity_real) AS capacity,
		       true AS is_scenario_object,
		       (puo.physical_object_id IS NOT NULL) AS is_scenario_physical_object,
		       (puo.object_geometry_id IS NOT NULL) AS is_scenario_geometry,
		       (puo.service_id IS NOT NULL) AS is_scenario_service
		FROM projects_urban_objects_data puo
		LEFT JOIN projects_physical_objects_data ppo ON ppo.physical_object_id = puo.physical_object_id
		LEFT JOIN physical_objects_data pub_po ON pub_po.physical_object_id = puo.public_physical_object_id
		LEFT JOIN projects_object_geometries_data pog ON pog.object_geometry_id = puo.object_geometry_id
		LEFT JOIN object_geometries_data pub_og ON pub_og.object_geometry_id = puo.public_object_geometry_id
		LEFT JOIN projects_services_data ps ON ps.service_id = puo.service_id
		LEFT JOIN services_data pub_s ON pub_s.service_id = puo.public_service_id
		LEFT JOIN physical_object_types_dict pot
		       ON pot.physical_object_type_id = COALESCE(ppo.physical_object_type_id, pub_po.physical_object_type_id)
		WHERE puo.scenario_id = ? AND puo.public_urban_object_id IS NULL
		ORDER BY puo.urban_object_id`, scenarioID).Scan(&scenarioRows).Error
	if err != nil {
		return nil, err
	}

	return mergeScenarioRows(publicRows, scenarioRows), nil
}

type triadKey struct {
	physicalObjectID int64
	objectGeometryID int64
	serviceID        int64
}

func rowKey(row MergedUrbanObject) triadKey {
	key := triadKey{
		physicalObjectID: row.PhysicalObjectID,
		objectGeometryID: row.ObjectGeometryID,
	}
	if row.ServiceID != nil {
		key.serviceID = *row.ServiceID
	}
	return key
}

// mergeScenarioRows unions the two branches of the merged view. A triad can
// only arrive from both branches through a stale claim, in that case the
// overlay row wins.
func mergeScenarioRows(publicRows []MergedUrbanObject, scenarioRows []MergedUrbanObject) []MergedUrbanObject {
	seen := make(map[triadKey]int, len(scenarioRows))
	merged := make([]MergedUrbanObject, 0, len(publicRows)+len(scenarioRows))
	for _, row := range scenarioRows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = len(merged)
		merged = append(merged, row)
	}
	for _, row := range publicRows {
		if _, ok := seen[rowKey(row)]; ok {
			continue
		}
		merged = append(merged, row)
	}
	return merged
}

// claimAndDetailRows builds the overlay-row pair that takes one public triad
// over into a scenario: the claim on the whole triad plus the detail row that
// owns the edited slot and keeps public references for the siblings.
func claimAndDetailRows(scenarioID int64, triad models.UrbanObjectData, slot OverlaySlot, ownedID int64) (models.ProjectUrbanObject, models.ProjectUrbanObject) {
	claim := models.ProjectUrbanObject{
		ScenarioID:          scenarioID,
		PublicUrbanObjectID: &triad.UrbanObjectID,
	}
	detail := models.ProjectUrbanObject{
		ScenarioID:             scenarioID,
		PublicPhysicalObjectID: &triad.PhysicalObjectID,
		PublicObjectGeometryID: &triad.ObjectGeometryID,
		PublicServiceID:        triad.ServiceID,
	}
	switch slot {
	case SlotPhysicalObject:
		detail.PublicPhysicalObjectID = nil
		detail.PhysicalObjectID = &ownedID
	case SlotGeometry:
		detail.PublicObjectGeometryID = nil
		detail.ObjectGeometryID = &ownedID
	case SlotService:
		detail.PublicServiceID = nil
		detail.ServiceID = &ownedID
	}
	return claim, detail
}

// takeOverPublicTriads claims every not-yet-claimed public triad whose given
// slot matches publicID and spawns the detail row: the edited slot becomes
// project-owned (ownedID), the sibling slots stay public references. This is
// the copy-on-write pivot for whole-row public references. Returns the number
// of triads taken over.
func takeOverPublicTriads(tx *gorm.DB, scenarioID int64, projectID int64, slot OverlaySlot, publicID int64, ownedID int64) (int, error) {
	var triads []models.UrbanObjectData
	err := tx.Raw(`
		SELECT uo.* FROM urban_objects_data uo
		JOIN object_geometries_data og ON og.object_geometry_id = uo.object_geometry_id
		WHERE uo.`+slotColumns[slot].owned+` = ?
		  AND ST_Within(og.geometry, (SELECT geometry FROM projects_territory_data WHERE project_id = ?))
		  AND uo.urban_object_id NOT IN (
		        SELECT public_urban_object_id FROM projects_urban_objects_data
		        WHERE scenario_id = ? AND public_urban_object_id IS NOT NULL)`,
		publicID, projectID, scenarioID).Scan(&triads).Error
	if err != nil {
		return 0, err
	}

	for _, triad := range triads {
		claim, detail := claimAndDetailRows(scenarioID, triad, slot, ownedID)
		if err := tx.Create(&claim).Error; err != nil {
			return 0, err
		}
		if err := tx.Create(&detail).Error; err != nil {
			return 0, err
		}
	}
	return len(triads), nil
}

// rebindOverlayRows rewrites existing detail rows that still reference
// publicID in the given slot so they point at the new project-owned copy.
// Sibling slots are untouched. Returns the number of rows rebound.
func rebindOverlayRows(tx *gorm.DB, scenarioID int64, slot OverlaySlot, publicID int64, ownedID int64) (int64, error) {
	cols := slotColumns[slot]
	res := tx.Model(&models.ProjectUrbanObject{}).
		Where("scenario_id = ? AND "+cols.public+" = ?", scenarioID, publicID).
		Updates(map[string]interface{}{
			cols.owned:  ownedID,
			cols.public: nil,
		})
	return res.RowsAffected, res.Error
}

type PhysicalObjectPatch struct {
	PhysicalObjectTypeID *int64         `json:"physical_object_type_id"`
	Name                 *string        `json:"name"`
	Properties           datatypes.JSON `json:"properties"`
}

type GeometryPatch struct {
	Geometry    *geojson.Geometry `json:"geometry"`
	TerritoryID *int64            `json:"territory_id"`
	Address     *string           `json:"address"`
}

type ServicePatch struct {
	ServiceTypeID *int64         `json:"service_type_id"`
	Name          *string        `json:"name"`
	Capacity      *int64         `json:"capacity_real"`
	Properties    datatypes.JSON `json:"properties"`
}

// UpdatePhysicalObject edits the physical-object slot. A scenario-owned
// object is updated in place; a public one is copied into the project schema
// first and every overlay row of the scenario is rebound to the copy.
func UpdatePhysicalObject(DB *gorm.DB, scenarioID int64, userID string, physicalObjectID int64, isScenarioObject bool, patch PhysicalObjectPatch) (*models.ProjectPhysicalObject, error) {
	_, project, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return nil, err
	}
	if patch.PhysicalObjectTypeID != nil {
		if err := checkPhysicalObjectType(DB, *patch.PhysicalObjectTypeID); err != nil {
			return nil, err
		}
	}

	var result models.ProjectPhysicalObject
	sessionID := NewEditSession(scenarioID, userID)

	err = DB.Transaction(func(tx *gorm.DB) error {
		if isScenarioObject {
			if err := scenarioOwnsComponent(tx, scenarioID, SlotPhysicalObject, physicalObjectID); err != nil {
				return err
			}
			var row models.ProjectPhysicalObject
			err := tx.Where("physical_object_id = ?", physicalObjectID).Take(&row).Error
			if err == gorm.ErrRecordNotFound {
				return NewNotFound(physicalObjectID, "scenario physical object")
			}
			if err != nil {
				return err
			}
			applyPhysicalObjectPatch(&row, patch)
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			result = row
			return nil
		}

		var public models.PhysicalObjectData
		err := tx.Where("physical_object_id = ?", physicalObjectID).Take(&public).Error
		if err == gorm.ErrRecordNotFound {
			return NewNotFound(physicalObjectID, "physical object")
		}
		if err != nil {
			return err
		}

		copyRow := models.ProjectPhysicalObject{
			PhysicalObjectTypeID: public.PhysicalObjectTypeID,
			Name:                 public.Name,
			Properties:           public.Properties,
		}
		applyPhysicalObjectPatch(&copyRow, patch)
		if err := tx.Create(&copyRow).Error; err != nil {
			return err
		}

		taken, err := takeOverPublicTriads(tx, scenarioID, project.ProjectID, SlotPhysicalObject, physicalObjectID, copyRow.PhysicalObjectID)
		if err != nil {
			return err
		}
		rebound, err := rebindOverlayRows(tx, scenarioID, SlotPhysicalObject, physicalObjectID, copyRow.PhysicalObjectID)
		if err != nil {
			return err
		}
		if taken == 0 && rebound == 0 {
			return NewNotFoundByParams("scenario urban object", scenarioID, physicalObjectID)
		}
		result = copyRow
		return nil
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return nil, err
	}
	CloseEditSession(sessionID, "committed")
	JournalEdit(sessionID, scenarioID, userID, string(SlotPhysicalObject), result.PhysicalObjectID, "update", nil, result)
	return &result, nil
}

func applyPhysicalObjectPatch(row *models.ProjectPhysicalObject, patch PhysicalObjectPatch) {
	if patch.PhysicalObjectTypeID != nil {
		row.PhysicalObjectTypeID = *patch.PhysicalObjectTypeID
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Properties != nil {
		row.Properties = patch.Properties
	}
}

// UpdateObjectGeometry edits the geometry slot, copy-on-write for public
// geometries. The centre point is always rederived from the new shape.
func UpdateObjectGeometry(DB *gorm.DB, scenarioID int64, userID string, objectGeometryID int64, isScenarioObject bool, patch GeometryPatch) (*models.ProjectObjectGeometry, error) {
	_, project, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return nil, err
	}
	if patch.TerritoryID != nil {
		var count int64
		if err := DB.Model(&models.TerritoryData{}).Where("territory_id = ?", *patch.TerritoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, NewNotFound(*patch.TerritoryID, "territory")
		}
	}

	var result models.ProjectObjectGeometry
	sessionID := NewEditSession(scenarioID, userID)

	err = DB.Transaction(func(tx *gorm.DB) error {
		if isScenarioObject {
			if err := scenarioOwnsComponent(tx, scenarioID, SlotGeometry, objectGeometryID); err != nil {
				return err
			}
			var row models.ProjectObjectGeometry
			err := tx.Where("object_geometry_id = ?", objectGeometryID).Take(&row).Error
			if err == gorm.ErrRecordNotFound {
				return NewNotFound(objectGeometryID, "scenario object geometry")
			}
			if err != nil {
				return err
			}
			if patch.TerritoryID != nil {
				row.TerritoryID = patch.TerritoryID
			}
			if patch.Address != nil {
				row.Address = *patch.Address
			}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			if patch.Geometry != nil {
				if err := writeGeometry(tx, "projects_object_geometries_data", "object_geometry_id", row.ObjectGeometryID, patch.Geometry); err != nil {
					return err
				}
			}
			result = row
			return nil
		}

		var public models.ObjectGeometryData
		err := tx.Where("object_geometry_id = ?", objectGeometryID).Take(&public).Error
		if err == gorm.ErrRecordNotFound {
			return NewNotFound(objectGeometryID, "object geometry")
		}
		if err != nil {
			return err
		}

		copyRow := models.ProjectObjectGeometry{
			PublicObjectGeometryID: &public.ObjectGeometryID,
			TerritoryID:            public.TerritoryID,
			Address:                public.Address,
		}
		if patch.TerritoryID != nil {
			copyRow.TerritoryID = patch.TerritoryID
		}
		if patch.Address != nil {
			copyRow.Address = *patch.Address
		}
		if err := tx.Omit("geometry", "centre_point").Create(&copyRow).Error; err != nil {
			return err
		}
		if patch.Geometry != nil {
			if err := writeGeometry(tx, "projects_object_geometries_data", "object_geometry_id", copyRow.ObjectGeometryID, patch.Geometry); err != nil {
				return err
			}
		} else {
			err := tx.Exec(`
				UPDATE projects_object_geometries_data
				SET geometry = (SELECT geometry FROM object_geometries_data WHERE object_geometry_id = ?),
				    centre_point = (SELECT centre_point FROM object_geometries_data WHERE object_geometry_id = ?)
				WHERE object_geometry_id = ?`, objectGeometryID, objectGeometryID, copyRow.ObjectGeometryID).Error
			if err != nil {
				return err
			}
		}

		taken, err := takeOverPublicTriads(tx, scenarioID, project.ProjectID, SlotGeometry, objectGeometryID, copyRow.ObjectGeometryID)
		if err != nil {
			return err
		}
		rebound, err := rebindOverlayRows(tx, scenarioID, SlotGeometry, objectGeometryID, copyRow.ObjectGeometryID)
		if err != nil {
			return err
		}
		if taken == 0 && rebound == 0 {
			return NewNotFoundByParams("scenario urban object", scenarioID, objectGeometryID)
		}
		result = copyRow
		return nil
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return nil, err
	}
	CloseEditSession(sessionID, "committed")
	JournalEdit(sessionID, scenarioID, userID, string(SlotGeometry), result.ObjectGeometryID, "update", nil, patch)
	return &result, nil
}

// writeGeometry stores a geojson shape into the given geometry row and
// refreshes the centre point from it.
func writeGeometry(tx *gorm.DB, table string, idColumn string, id int64, geometry *geojson.Geometry) error {
	raw, err := json.Marshal(geometry)
	if err != nil {
		return err
	}
	return tx.Exec(`
		UPDATE `+table+`
		SET geometry = ST_SetSRID(ST_GeomFromGeoJSON(?), 4326),
		    centre_point = ST_Centroid(ST_SetSRID(ST_GeomFromGeoJSON(?), 4326))
		WHERE `+idColumn+` = ?`, string(raw), string(raw), id).Error
}

// UpdateService edits the service slot, copy-on-write for public services.
func UpdateService(DB *gorm.DB, scenarioID int64, userID string, serviceID int64, isScenarioObject bool, patch ServicePatch) (*models.ProjectService, error) {
	_, project, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return nil, err
	}
	if patch.ServiceTypeID != nil {
		if err := checkServiceType(DB, *patch.ServiceTypeID); err != nil {
			return nil, err
		}
	}

	var result models.ProjectService
	sessionID := NewEditSession(scenarioID, userID)

	err = DB.Transaction(func(tx *gorm.DB) error {
		if isScenarioObject {
			if err := scenarioOwnsComponent(tx, scenarioID, SlotService, serviceID); err != nil {
				return err
			}
			var row models.ProjectService
			err := tx.Where("service_id = ?", serviceID).Take(&row).Error
			if err == gorm.ErrRecordNotFound {
				return NewNotFound(serviceID, "scenario service")
			}
			if err != nil {
				return err
			}
			applyServicePatch(&row, patch)
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			result = row
			return nil
		}

		var public models.ServiceData
		err := tx.Where("service_id = ?", serviceID).Take(&public).Error
		if err == gorm.ErrRecordNotFound {
			return NewNotFound(serviceID, "service")
		}
		if err != nil {
			return err
		}

		copyRow := models.ProjectService{
			ServiceTypeID: public.ServiceTypeID,
			Name:          public.Name,
			Capacity:      public.Capacity,
			Properties:    public.Properties,
		}
		applyServicePatch(&copyRow, patch)
		if err := tx.Create(&copyRow).Error; err != nil {
			return err
		}

		taken, err := takeOverPublicTriads(tx, scenarioID, project.ProjectID, SlotService, serviceID, copyRow.ServiceID)
		if err != nil {
			return err
		}
		rebound, err := rebindOverlayRows(tx, scenarioID, SlotService, serviceID, copyRow.ServiceID)
		if err != nil {
			return err
		}
		if taken == 0 && rebound == 0 {
			return NewNotFoundByParams("scenario urban object", scenarioID, serviceID)
		}
		result = copyRow
		return nil
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return nil, err
	}
	CloseEditSession(sessionID, "committed")
	JournalEdit(sessionID, scenarioID, userID, string(SlotService), result.ServiceID, "update", nil, result)
	return &result, nil
}

func applyServicePatch(row *models.ProjectService, patch ServicePatch) {
	if patch.ServiceTypeID != nil {
		row.ServiceTypeID = *patch.ServiceTypeID
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Capacity != nil {
		row.Capacity = patch.Capacity
	}
	if patch.Properties != nil {
		row.Properties = patch.Properties
	}
}

func checkPhysicalObjectType(DB *gorm.DB, typeID int64) error {
	var count int64
	if err := DB.Model(&models.PhysicalObjectType{}).Where("physical_object_type_id = ?", typeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NewNotFound(typeID, "physical object type")
	}
	return nil
}

func checkServiceType(DB *gorm.DB, typeID int64) error {
	var count int64
	if err := DB.Model(&models.ServiceType{}).Where("service_type_id = ?", typeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NewNotFound(typeID, "service type")
	}
	return nil
}

type PhysicalObjectWithGeometryPost struct {
	PhysicalObjectTypeID int64             `json:"physical_object_type_id"`
	Name                 string            `json:"name"`
	Properties           datatypes.JSON    `json:"properties"`
	TerritoryID          int64             `json:"territory_id"`
	Geometry             *geojson.Geometry `json:"geometry"`
	Address              string            `json:"address"`
}

// AddPhysicalObjectToScenario creates a fully project-owned triad: new
// physical object, new geometry, new overlay row.
func AddPhysicalObjectToScenario(DB *gorm.DB, scenarioID int64, userID string, post PhysicalObjectWithGeometryPost) (*models.ProjectUrbanObject, error) {
	_, _, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return nil, err
	}
	var count int64
	if err := DB.Model(&models.TerritoryData{}).Where("territory_id = ?", post.TerritoryID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, NewNotFound(post.TerritoryID, "territory")
	}
	if err := checkPhysicalObjectType(DB, post.PhysicalObjectTypeID); err != nil {
		return nil, err
	}
	if post.Geometry == nil {
		return nil, NewNotFoundByParams("geometry", "physical object post")
	}

	var row models.ProjectUrbanObject
	sessionID := NewEditSession(scenarioID, userID)
	err = DB.Transaction(func(tx *gorm.DB) error {
		object := models.ProjectPhysicalObject{
			PhysicalObjectTypeID: post.PhysicalObjectTypeID,
			Name:                 post.Name,
			Properties:           post.Properties,
		}
		if err := tx.Create(&object).Error; err != nil {
			return err
		}
		geometry := models.ProjectObjectGeometry{
			TerritoryID: &post.TerritoryID,
			Address:     post.Address,
		}
		if err := tx.Omit("geometry", "centre_point").Create(&geometry).Error; err != nil {
			return err
		}
		if err := writeGeometry(tx, "projects_object_geometries_data", "object_geometry_id", geometry.ObjectGeometryID, post.Geometry); err != nil {
			return err
		}
		row = models.ProjectUrbanObject{
			ScenarioID:       scenarioID,
			PhysicalObjectID: &object.PhysicalObjectID,
			ObjectGeometryID: &geometry.ObjectGeometryID,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return nil, err
	}
	CloseEditSession(sessionID, "committed")
	JournalEdit(sessionID, scenarioID, userID, "urban_object", row.UrbanObjectID, "create", nil, post)
	return &row, nil
}

type ServicePost struct {
	ServiceTypeID    int64          `json:"service_type_id"`
	Name             string         `json:"name"`
	Capacity         *int64         `json:"capacity_real"`
	Properties       datatypes.JSON `json:"properties"`
	PhysicalObjectID int64          `json:"physical_object_id"`
	ObjectGeometryID int64          `json:"object_geometry_id"`
}

// AddServiceToScenario attaches a new project-owned service to an existing
// project triad. The service fills the first overlay row of the pair with an
// empty service slot; when every row already carries a service a new triad
// row is appended.
func AddServiceToScenario(DB *gorm.DB, scenarioID int64, userID string, post ServicePost) (*models.ProjectUrbanObject, error) {
	_, _, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return nil, err
	}
	if err := checkServiceType(DB, post.ServiceTypeID); err != nil {
		return nil, err
	}

	var rows []models.ProjectUrbanObject
	err = DB.Where("scenario_id = ? AND physical_object_id = ? AND object_geometry_id = ?",
		scenarioID, post.PhysicalObjectID, post.ObjectGeometryID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewNotFoundByParams("urban object", post.PhysicalObjectID, post.ObjectGeometryID)
	}

	var result models.ProjectUrbanObject
	sessionID := NewEditSession(scenarioID, userID)
	err = DB.Transaction(func(tx *gorm.DB) error {
		service := models.ProjectService{
			ServiceTypeID: post.ServiceTypeID,
			Name:          post.Name,
			Capacity:      post.Capacity,
			Properties:    post.Properties,
		}
		if err := tx.Create(&service).Error; err != nil {
			return err
		}

		for _, row := range rows {
			if row.ServiceID == nil && row.PublicServiceID == nil {
				err := tx.Model(&models.ProjectUrbanObject{}).
					Where("urban_object_id = ?", row.UrbanObjectID).
					Update("service_id", service.ServiceID).Error
				if err != nil {
					return err
				}
				row.ServiceID = &service.ServiceID
				result = row
				return nil
			}
		}

		result = models.ProjectUrbanObject{
			ScenarioID:       scenarioID,
			PhysicalObjectID: &post.PhysicalObjectID,
			ObjectGeometryID: &post.ObjectGeometryID,
			ServiceID:        &service.ServiceID,
		}
		return tx.Create(&result).Error
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return nil, err
	}
	CloseEditSession(sessionID, "committed")
	JournalEdit(sessionID, scenarioID, userID, string(SlotService), result.UrbanObjectID, "create", nil, post)
	return &result, nil
}

// AddExistingServiceToScenario binds an already project-owned service to a
// triad, rejecting a duplicate attachment.
func AddExistingServiceToScenario(DB *gorm.DB, scenarioID int64, userID string, serviceID int64, physicalObjectID int64, objectGeometryID int64) (*models.ProjectUrbanObject, error) {
	_, _, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return nil, err
	}

	var service models.ProjectService
	err = DB.Where("service_id = ?", serviceID).Take(&service).Error
	if err == gorm.ErrRecordNotFound {
		return nil, NewNotFound(serviceID, "scenario service")
	}
	if err != nil {
		return nil, err
	}

	var rows []models.ProjectUrbanObject
	err = DB.Where("scenario_id = ? AND physical_object_id = ? AND object_geometry_id = ?",
		scenarioID, physicalObjectID, objectGeometryID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewNotFoundByParams("urban object", physicalObjectID, objectGeometryID)
	}

	var empty *models.ProjectUrbanObject
	for i := range rows {
		if rows[i].ServiceID != nil && *rows[i].ServiceID == serviceID {
			return nil, NewAlreadyExists("urban object", physicalObjectID, objectGeometryID, serviceID)
		}
		if empty == nil && rows[i].ServiceID == nil && rows[i].PublicServiceID == nil {
			empty = &rows[i]
		}
	}

	var result models.ProjectUrbanObject
	sessionID := NewEditSession(scenarioID, userID)
	err = DB.Transaction(func(tx *gorm.DB) error {
		if empty != nil {
			err := tx.Model(&models.ProjectUrbanObject{}).
				Where("urban_object_id = ?", empty.UrbanObjectID).
				Update("service_id", serviceID).Error
			if err != nil {
				return err
			}
			result = *empty
			result.ServiceID = &serviceID
			return nil
		}
		result = models.ProjectUrbanObject{
			ScenarioID:       scenarioID,
			PhysicalObjectID: &physicalObjectID,
			ObjectGeometryID: &objectGeometryID,
			ServiceID:        &serviceID,
		}
		return tx.Create(&result).Error
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return nil, err
	}
	CloseEditSession(sessionID, "committed")
	JournalEdit(sessionID, scenarioID, userID, string(SlotService), result.UrbanObjectID, "create", nil, serviceID)
	return &result, nil
}

// DeleteUrbanObject removes one overlay row. Dropping a claim row (or a
// detail row that only references public data) just releases the public
// triad back into the merged view; a row with project-owned slots takes its
// orphaned components with it and is gone for good.
func DeleteUrbanObject(DB *gorm.DB, scenarioID int64, userID string, urbanObjectID int64) error {
	_, _, err := CheckScenario(DB, scenarioID, userID, true)
	if err != nil {
		return err
	}

	var row models.ProjectUrbanObject
	err = DB.Where("urban_object_id = ? AND scenario_id = ?", urbanObjectID, scenarioID).Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return NewNotFound(urbanObjectID, "scenario urban object")
	}
	if err != nil {
		return err
	}

	sessionID := NewEditSession(scenarioID, userID)
	err = DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProjectUrbanObject{}, "urban_object_id = ?", row.UrbanObjectID).Error; err != nil {
			return err
		}
		if row.PublicUrbanObjectID != nil {
			// claim row: companion detail rows that are pure public
			// references would duplicate the resurfaced public triad, drop
			// them too. Rows with any project-owned slot are user edits and
			// must survive the claim drop.
			return tx.Exec(`
				DELETE FROM projects_urban_objects_data
				WHERE scenario_id = ?
				  AND public_urban_object_id IS NULL
				  AND physical_object_id IS NULL
				  AND object_geometry_id IS NULL
				  AND service_id IS NULL
				  AND public_physical_object_id = (SELECT physical_object_id FROM urban_objects_data WHERE urban_object_id = ?)
				  AND public_object_geometry_id = (SELECT object_geometry_id FROM urban_objects_data WHERE urban_object_id = ?)`,
				scenarioID, *row.PublicUrbanObjectID, *row.PublicUrbanObjectID).Error
		}
		return deleteOrphanedComponents(tx, row)
	})
	if err != nil {
		CloseEditSession(sessionID, "rolledback")
		return err
	}
	CloseEditSession(sessionID, "committed")
	action := "delete"
	if row.PublicUrbanObjectID != nil {
		action = "claim-drop"
	}
	JournalEdit(sessionID, scenarioID, userID, "urban_object", urbanObjectID, action, row, nil)
	return nil
}

// deleteOrphanedComponents removes project-owned components of a deleted
// overlay row that no other overlay row still references.
func deleteOrphanedComponents(tx *gorm.DB, row models.ProjectUrbanObject) error {
	if row.PhysicalObjectID != nil {
		var count int64
		if err := tx.Model(&models.ProjectUrbanObject{}).Where("physical_object_id = ?", *row.PhysicalObjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Delete(&models.ProjectPhysicalObject{}, "physical_object_id = ?", *row.PhysicalObjectID).Error; err != nil {
				return err
			}
		}
	}
	if row.ObjectGeometryID != nil {
		var count int64
		if err := tx.Model(&models.ProjectUrbanObject{}).Where("object_geometry_id = ?", *row.ObjectGeometryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Delete(&models.ProjectObjectGeometry{}, "object_geometry_id = ?", *row.ObjectGeometryID).Error; err != nil {
				return err
			}
		}
	}
	if row.ServiceID != nil {
		var count int64
		if err := tx.Model(&models.ProjectUrbanObject{}).Where("service_id = ?", *row.ServiceID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Delete(&models.ProjectService{}, "service_id = ?", *row.ServiceID).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
