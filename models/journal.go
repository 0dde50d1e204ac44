package models

import "gorm.io/datatypes"

// ScenarioEditRecord is one entry of the local edit journal. Old/new state
// is stored as geojson-ish snapshots so an operator can reconstruct what an
// edit did without touching the main database.
type ScenarioEditRecord struct {
	ID         int64          `gorm:"primary_key;autoIncrement"`
	ScenarioID int64          `gorm:"index"`
	EntityKind string         `gorm:"type:varchar(50)"` // physical_object / geometry / service / urban_object
	EntityID   int64          ``
	Action     string         `gorm:"type:varchar(50)"` // create / update / delete / claim-drop
	UserID     string         `gorm:"type:varchar(100)"`
	SessionID  string         `gorm:"type:varchar(64);index"`
	Date       string         `gorm:"type:varchar(255)"`
	OldState   datatypes.JSON `gorm:"type:jsonb"`
	NewState   datatypes.JSON `gorm:"type:jsonb"`
}

// EditSession groups the journal records of one API call.
type EditSession struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	SessionID  string `gorm:"type:varchar(64);index"`
	ScenarioID int64  `gorm:"index"`
	UserID     string `gorm:"type:varchar(100)"`
	CreatedAt  string `gorm:"type:varchar(255)"`
	Status     string `gorm:"type:varchar(50)"` // active / committed / rolledback
}
