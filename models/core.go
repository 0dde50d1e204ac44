package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/ScenarioMap/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JournalDB is a local sqlite store for the scenario edit journal. It is
// separate from the main database so journal writes never join the
// transaction of the edit they describe.
var JournalDB *gorm.DB

func InitDatabase() error {
	var err error
	DB, err = gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		return err
	}

	err = DB.AutoMigrate(
		&TerritoryData{},
		&PhysicalObjectFunction{},
		&PhysicalObjectType{},
		&PhysicalObjectData{},
		&ObjectGeometryData{},
		&ServiceType{},
		&ServiceData{},
		&UrbanObjectData{},
		&FunctionalZoneType{},
		&FunctionalZoneData{},
		&ProjectData{},
		&ProjectTerritory{},
		&ScenarioData{},
		&ProjectPhysicalObject{},
		&ProjectObjectGeometry{},
		&ProjectService{},
		&ProjectUrbanObject{},
		&ProjectFunctionalZone{},
	)
	if err != nil {
		log.Printf("migration failed: %v", err)
		return err
	}
	return nil
}

func InitJournalDB() error {
	StoragePath := config.Storage + "/Journal"
	DBFileName := "editlog.db"
	if err := os.MkdirAll(StoragePath, os.ModePerm); err != nil {
		log.Printf("failed to create storage dir: %v", err)
		return err
	}

	dbPath := filepath.Join(StoragePath, DBFileName)

	var err error
	JournalDB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Printf("failed to open journal database: %v", err)
		return err
	}

	if err := JournalDB.AutoMigrate(&ScenarioEditRecord{}, &EditSession{}); err != nil {
		log.Printf("journal migration failed: %v", err)
		return err
	}
	return nil
}
