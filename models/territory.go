package models

import (
	"time"

	"gorm.io/datatypes"
)

// TerritoryData is a node of the administrative territory tree. parent_id
// forms a forest, level grows with depth: level(child) = level(parent) + 1.
type TerritoryData struct {
	TerritoryID int64          `gorm:"column:territory_id;primaryKey;autoIncrement" json:"territory_id"`
	ParentID    *int64         `gorm:"column:parent_id;index" json:"parent_id"`
	Name        string         `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Geometry    string         `gorm:"column:geometry;type:geometry(Geometry,4326)" json:"-"`
	CentrePoint string         `gorm:"column:centre_point;type:geometry(Point,4326)" json:"-"`
	Level       int            `gorm:"column:level;not null" json:"level"`
	IsCity      bool           `gorm:"column:is_city;not null;default:false" json:"is_city"`
	Properties  datatypes.JSON `gorm:"column:properties;type:jsonb;default:'{}'" json:"properties"`
	OkatoCode   string         `gorm:"column:okato_code;type:varchar(20)" json:"okato_code"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TerritoryData) TableName() string {
	return "territories_data"
}
