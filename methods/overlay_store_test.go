package methods

import (
	"fmt"
	"testing"

	"github.com/GrainArc/ScenarioMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newStoreDB opens a per-test in-memory database. Spatial operators are not
// available here, so these tests cover the relational paths of the overlay
// store: ownership checks, claim/detail row handling, rebinding and deletes.
func newStoreDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProjectData{},
		&models.ScenarioData{},
		&models.UrbanObjectData{},
		&models.ProjectPhysicalObject{},
		&models.ProjectService{},
		&models.ProjectUrbanObject{},
	))
	return db
}

func seedScenario(t *testing.T, db *gorm.DB, owner string) models.ScenarioData {
	t.Helper()
	project := models.ProjectData{UserID: owner, TerritoryID: 1, Name: "plan"}
	require.NoError(t, db.Create(&project).Error)
	scenario := models.ScenarioData{ProjectID: project.ProjectID, Name: BaseScenarioName, IsBased: true}
	require.NoError(t, db.Create(&scenario).Error)
	return scenario
}

func TestUpdateServiceRejectsUnlinkedComponent(t *testing.T) {
	db := newStoreDB(t)
	scenario := seedScenario(t, db, "u1")
	stray := models.ProjectService{ServiceTypeID: 1, Name: "clinic"}
	require.NoError(t, db.Create(&stray).Error)

	name := "renamed"
	_, err := UpdateService(db, scenario.ScenarioID, "u1", stray.ServiceID, true, ServicePatch{Name: &name})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var kept models.ProjectService
	require.NoError(t, db.Take(&kept, "service_id = ?", stray.ServiceID).Error)
	assert.Equal(t, "clinic", kept.Name)
}

func TestUpdateServiceEditsLinkedComponentInPlace(t *testing.T) {
	db := newStoreDB(t)
	scenario := seedScenario(t, db, "u1")
	service := models.ProjectService{ServiceTypeID: 1, Name: "school"}
	require.NoError(t, db.Create(&service).Error)
	po := int64(10)
	og := int64(20)
	link := models.ProjectUrbanObject{ScenarioID: scenario.ScenarioID, PublicPhysicalObjectID: &po, PublicObjectGeometryID: &og, ServiceID: &service.ServiceID}
	require.NoError(t, db.Create(&link).Error)

	capacity := int64(250)
	updated, err := UpdateService(db, scenario.ScenarioID, "u1", service.ServiceID, true, ServicePatch{Capacity: &capacity})
	require.NoError(t, err)
	require.NotNil(t, updated.Capacity)
	assert.Equal(t, int64(250), *updated.Capacity)
}

// A component linked only into another project's scenario must be unreachable
// through this one, even when its id is known.
func TestUpdatePhysicalObjectRejectsForeignComponent(t *testing.T) {
	db := newStoreDB(t)
	mine := seedScenario(t, db, "u1")
	theirs := seedScenario(t, db, "u2")
	object := models.ProjectPhysicalObject{PhysicalObjectTypeID: 1, Name: "depot"}
	require.NoError(t, db.Create(&object).Error)
	link := models.ProjectUrbanObject{ScenarioID: theirs.ScenarioID, PhysicalObjectID: &object.PhysicalObjectID}
	require.NoError(t, db.Create(&link).Error)

	name := "mine now"
	_, err := UpdatePhysicalObject(db, mine.ScenarioID, "u1", object.PhysicalObjectID, true, PhysicalObjectPatch{Name: &name})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var kept models.ProjectPhysicalObject
	require.NoError(t, db.Take(&kept, "physical_object_id = ?", object.PhysicalObjectID).Error)
	assert.Equal(t, "depot", kept.Name)
}

// Dropping a claim removes the claim and any pure public-reference companion,
// but a companion carrying a project-owned slot is a user edit and survives.
func TestDeleteClaimRowKeepsOwnedCompanions(t *testing.T) {
	db := newStoreDB(t)
	scenario := seedScenario(t, db, "u1")

	triad := models.UrbanObjectData{PhysicalObjectID: 10, ObjectGeometryID: 20}
	require.NoError(t, db.Create(&triad).Error)

	claim := models.ProjectUrbanObject{ScenarioID: scenario.ScenarioID, PublicUrbanObjectID: &triad.UrbanObjectID}
	require.NoError(t, db.Create(&claim).Error)

	po := triad.PhysicalObjectID
	og := triad.ObjectGeometryID
	pureRef := models.ProjectUrbanObject{ScenarioID: scenario.ScenarioID, PublicPhysicalObjectID: &po, PublicObjectGeometryID: &og}
	require.NoError(t, db.Create(&pureRef).Error)

	service := models.ProjectService{ServiceTypeID: 1, Name: "library"}
	require.NoError(t, db.Create(&service).Error)
	edited := models.ProjectUrbanObject{ScenarioID: scenario.ScenarioID, PublicPhysicalObjectID: &po, PublicObjectGeometryID: &og, ServiceID: &service.ServiceID}
	require.NoError(t, db.Create(&edited).Error)

	require.NoError(t, DeleteUrbanObject(db, scenario.ScenarioID, "u1", claim.UrbanObjectID))

	var remaining []models.ProjectUrbanObject
	require.NoError(t, db.Where("scenario_id = ?", scenario.ScenarioID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, edited.UrbanObjectID, remaining[0].UrbanObjectID)

	var keptService models.ProjectService
	assert.NoError(t, db.Take(&keptService, "service_id = ?", service.ServiceID).Error)
}

func TestDeleteOwnedRowCollectsOrphanedComponents(t *testing.T) {
	db := newStoreDB(t)
	scenario := seedScenario(t, db, "u1")
	object := models.ProjectPhysicalObject{PhysicalObjectTypeID: 1, Name: "kiosk"}
	require.NoError(t, db.Create(&object).Error)
	service := models.ProjectService{ServiceTypeID: 1, Name: "newsstand"}
	require.NoError(t, db.Create(&service).Error)
	row := models.ProjectUrbanObject{ScenarioID: scenario.ScenarioID, PhysicalObjectID: &object.PhysicalObjectID, ServiceID: &service.ServiceID}
	require.NoError(t, db.Create(&row).Error)

	require.NoError(t, DeleteUrbanObject(db, scenario.ScenarioID, "u1", row.UrbanObjectID))

	var count int64
	require.NoError(t, db.Model(&models.ProjectPhysicalObject{}).Where("physical_object_id = ?", object.PhysicalObjectID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ProjectService{}).Where("service_id = ?", service.ServiceID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRebindOverlayRowsReportsMatches(t *testing.T) {
	db := newStoreDB(t)
	scenario := seedScenario(t, db, "u1")
	publicID := int64(40)
	row := models.ProjectUrbanObject{ScenarioID: scenario.ScenarioID, PublicServiceID: &publicID}
	require.NoError(t, db.Create(&row).Error)

	rebound, err := rebindOverlayRows(db, scenario.ScenarioID, SlotService, publicID, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rebound)

	rebound, err = rebindOverlayRows(db, scenario.ScenarioID, SlotService, publicID, 99)
	require.NoError(t, err)
	assert.Zero(t, rebound, "nothing still references the public service")

	var updated models.ProjectUrbanObject
	require.NoError(t, db.Take(&updated, "urban_object_id = ?", row.UrbanObjectID).Error)
	require.NotNil(t, updated.ServiceID)
	assert.Equal(t, int64(99), *updated.ServiceID)
	assert.Nil(t, updated.PublicServiceID)
}
