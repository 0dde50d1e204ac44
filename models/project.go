package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectData struct {
	ProjectID   int64          `gorm:"column:project_id;primaryKey;autoIncrement" json:"project_id"`
	UserID      string         `gorm:"column:user_id;type:varchar(100);not null;index" json:"user_id"`
	TerritoryID int64          `gorm:"column:territory_id;not null;index" json:"territory_id"`
	Name        string         `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string         `gorm:"column:description;type:varchar(600)" json:"description"`
	IsRegional  bool           `gorm:"column:is_regional;not null;default:false" json:"is_regional"`
	Public      bool           `gorm:"column:public;not null;default:false" json:"public"`
	Properties  datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProjectData) TableName() string {
	return "projects_data"
}

// ProjectTerritory keeps the project footprint polygon apart from the
// administrative territory the project is declared on.
type ProjectTerritory struct {
	ProjectTerritoryID int64  `gorm:"column:project_territory_id;primaryKey;autoIncrement" json:"project_territory_id"`
	ProjectID          int64  `gorm:"column:project_id;not null;uniqueIndex" json:"project_id"`
	Geometry           string `gorm:"column:geometry;type:geometry(Geometry,4326)" json:"-"`
	CentrePoint        string `gorm:"column:centre_point;type:geometry(Point,4326)" json:"-"`
}

func (ProjectTerritory) TableName() string {
	return "projects_territory_data"
}

type ScenarioData struct {
	ScenarioID int64     `gorm:"column:scenario_id;primaryKey;autoIncrement" json:"scenario_id"`
	ProjectID  int64     `gorm:"column:project_id;not null;index" json:"project_id"`
	ParentID   *int64    `gorm:"column:parent_id" json:"parent_id"`
	Name       string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	IsBased    bool      `gorm:"column:is_based;not null;default:false" json:"is_based"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ScenarioData) TableName() string {
	return "scenarios_data"
}

type ProjectPhysicalObject struct {
	PhysicalObjectID     int64          `gorm:"column:physical_object_id;primaryKey;autoIncrement" json:"physical_object_id"`
	PhysicalObjectTypeID int64          `gorm:"column:physical_object_type_id;not null" json:"physical_object_type_id"`
	Name                 string         `gorm:"column:name;type:varchar(300)" json:"name"`
	Properties           datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProjectPhysicalObject) TableName() string {
	return "projects_physical_objects_data"
}

// ProjectObjectGeometry mirrors ObjectGeometryData; public_object_geometry_id
// back-references the public geometry a cropped copy was cut from.
type ProjectObjectGeometry struct {
	ObjectGeometryID       int64     `gorm:"column:object_geometry_id;primaryKey;autoIncrement" json:"object_geometry_id"`
	PublicObjectGeometryID *int64    `gorm:"column:public_object_geometry_id;index" json:"public_object_geometry_id"`
	TerritoryID            *int64    `gorm:"column:territory_id;index" json:"territory_id"`
	Geometry               string    `gorm:"column:geometry;type:geometry(Geometry,4326)" json:"-"`
	CentrePoint            string    `gorm:"column:centre_point;type:geometry(Point,4326)" json:"-"`
	Address                string    `gorm:"column:address;type:varchar(300)" json:"address"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProjectObjectGeometry) TableName() string {
	return "projects_object_geometries_data"
}

type ProjectService struct {
	ServiceID     int64          `gorm:"column:service_id;primaryKey;autoIncrement" json:"service_id"`
	ServiceTypeID int64          `gorm:"column:service_type_id;not null" json:"service_type_id"`
	Name          string         `gorm:"column:name;type:varchar(200)" json:"name"`
	Capacity      *int64         `gorm:"column:capacity_real" json:"capacity_real"`
	Properties    datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProjectService) TableName() string {
	return "projects_services_data"
}

// ProjectUrbanObject is the overlay row of a scenario. Two shapes exist:
//
//   - a claim row: only scenario_id + public_urban_object_id are set. The
//     named public triad is considered taken over by the scenario and is
//     excluded from the public branch of the merged view.
//   - a detail row: public_urban_object_id is NULL and each slot is either
//     project-owned (physical_object_id / object_geometry_id / service_id)
//     or a reference to an untouched public component (public_*_id).
//
// A slot never carries both its owned and its public column at once.
type ProjectUrbanObject struct {
	UrbanObjectID          int64  `gorm:"column:urban_object_id;primaryKey;autoIncrement" json:"urban_object_id"`
	ScenarioID             int64  `gorm:"column:scenario_id;not null;index" json:"scenario_id"`
	PhysicalObjectID       *int64 `gorm:"column:physical_object_id" json:"physical_object_id"`
	ObjectGeometryID       *int64 `gorm:"column:object_geometry_id" json:"object_geometry_id"`
	ServiceID              *int64 `gorm:"column:service_id" json:"service_id"`
	PublicUrbanObjectID    *int64 `gorm:"column:public_urban_object_id;index" json:"public_urban_object_id"`
	PublicPhysicalObjectID *int64 `gorm:"column:public_physical_object_id" json:"public_physical_object_id"`
	PublicObjectGeometryID *int64 `gorm:"column:public_object_geometry_id" json:"public_object_geometry_id"`
	PublicServiceID        *int64 `gorm:"column:public_service_id" json:"public_service_id"`
}

func (ProjectUrbanObject) TableName() string {
	return "projects_urban_objects_data"
}

type ProjectFunctionalZone struct {
	FunctionalZoneID     int64          `gorm:"column:functional_zone_id;primaryKey;autoIncrement" json:"functional_zone_id"`
	ScenarioID           int64          `gorm:"column:scenario_id;not null;index" json:"scenario_id"`
	FunctionalZoneTypeID int64          `gorm:"column:functional_zone_type_id;not null" json:"functional_zone_type_id"`
	Geometry             string         `gorm:"column:geometry;type:geometry(Geometry,4326)" json:"-"`
	Year                 int            `gorm:"column:year" json:"year"`
	Source               string         `gorm:"column:source;type:varchar(200)" json:"source"`
	Properties           datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
}

func (ProjectFunctionalZone) TableName() string {
	return "projects_functional_zones_data"
}
