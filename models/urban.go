package models

import (
	"time"

	"gorm.io/datatypes"
)

type PhysicalObjectFunction struct {
	PhysicalObjectFunctionID int64  `gorm:"column:physical_object_function_id;primaryKey;autoIncrement" json:"physical_object_function_id"`
	Name                     string `gorm:"column:name;type:varchar(200);not null" json:"name"`
}

func (PhysicalObjectFunction) TableName() string {
	return "physical_object_functions_dict"
}

type PhysicalObjectType struct {
	PhysicalObjectTypeID     int64  `gorm:"column:physical_object_type_id;primaryKey;autoIncrement" json:"physical_object_type_id"`
	PhysicalObjectFunctionID int64  `gorm:"column:physical_object_function_id;not null" json:"physical_object_function_id"`
	Name                     string `gorm:"column:name;type:varchar(200);not null" json:"name"`
}

func (PhysicalObjectType) TableName() string {
	return "physical_object_types_dict"
}

type PhysicalObjectData struct {
	PhysicalObjectID     int64          `gorm:"column:physical_object_id;primaryKey;autoIncrement" json:"physical_object_id"`
	PhysicalObjectTypeID int64          `gorm:"column:physical_object_type_id;not null" json:"physical_object_type_id"`
	Name                 string         `gorm:"column:name;type:varchar(300)" json:"name"`
	Properties           datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PhysicalObjectData) TableName() string {
	return "physical_objects_data"
}

type ObjectGeometryData struct {
	ObjectGeometryID int64     `gorm:"column:object_geometry_id;primaryKey;autoIncrement" json:"object_geometry_id"`
	TerritoryID      *int64    `gorm:"column:territory_id;index" json:"territory_id"`
	Geometry         string    `gorm:"column:geometry;type:geometry(Geometry,4326)" json:"-"`
	CentrePoint      string    `gorm:"column:centre_point;type:geometry(Point,4326)" json:"-"`
	Address          string    `gorm:"column:address;type:varchar(300)" json:"address"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ObjectGeometryData) TableName() string {
	return "object_geometries_data"
}

type ServiceType struct {
	ServiceTypeID int64  `gorm:"column:service_type_id;primaryKey;autoIncrement" json:"service_type_id"`
	Name          string `gorm:"column:name;type:varchar(200);not null" json:"name"`
}

func (ServiceType) TableName() string {
	return "service_types_dict"
}

type ServiceData struct {
	ServiceID     int64          `gorm:"column:service_id;primaryKey;autoIncrement" json:"service_id"`
	ServiceTypeID int64          `gorm:"column:service_type_id;not null" json:"service_type_id"`
	Name          string         `gorm:"column:name;type:varchar(200)" json:"name"`
	Capacity      *int64         `gorm:"column:capacity_real" json:"capacity_real"`
	Properties    datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ServiceData) TableName() string {
	return "services_data"
}

// UrbanObjectData is the public triad: exactly one physical object bound to
// exactly one geometry, with an optional service. The pair
// (physical_object_id, object_geometry_id) is unique per service slot.
type UrbanObjectData struct {
	UrbanObjectID    int64  `gorm:"column:urban_object_id;primaryKey;autoIncrement" json:"urban_object_id"`
	PhysicalObjectID int64  `gorm:"column:physical_object_id;not null;uniqueIndex:uniq_urban_triad" json:"physical_object_id"`
	ObjectGeometryID int64  `gorm:"column:object_geometry_id;not null;uniqueIndex:uniq_urban_triad" json:"object_geometry_id"`
	ServiceID        *int64 `gorm:"column:service_id;uniqueIndex:uniq_urban_triad" json:"service_id"`
}

func (UrbanObjectData) TableName() string {
	return "urban_objects_data"
}

type FunctionalZoneType struct {
	FunctionalZoneTypeID int64  `gorm:"column:functional_zone_type_id;primaryKey;autoIncrement" json:"functional_zone_type_id"`
	Name                 string `gorm:"column:name;type:varchar(200);not null" json:"name"`
}

func (FunctionalZoneType) TableName() string {
	return "functional_zone_types_dict"
}

type FunctionalZoneData struct {
	FunctionalZoneID     int64          `gorm:"column:functional_zone_id;primaryKey;autoIncrement" json:"functional_zone_id"`
	TerritoryID          int64          `gorm:"column:territory_id;index;not null" json:"territory_id"`
	FunctionalZoneTypeID int64          `gorm:"column:functional_zone_type_id;not null" json:"functional_zone_type_id"`
	Geometry             string         `gorm:"column:geometry;type:geometry(Geometry,4326)" json:"-"`
	Year                 int            `gorm:"column:year" json:"year"`
	Source               string         `gorm:"column:source;type:varchar(200)" json:"source"`
	Properties           datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
}

func (FunctionalZoneData) TableName() string {
	return "functional_zones_data"
}
