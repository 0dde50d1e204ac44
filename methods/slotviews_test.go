package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistinctPhysicalObjects(t *testing.T) {
	serviceA := int64(30)
	serviceB := int64(31)
	rows := []MergedUrbanObject{
		{UrbanObjectID: 1, PhysicalObjectID: 10, ObjectGeometryID: 20, ServiceID: &serviceA},
		{UrbanObjectID: 2, PhysicalObjectID: 10, ObjectGeometryID: 20, ServiceID: &serviceB, IsScenarioObject: true, IsScenarioPhysicalObject: true},
		{UrbanObjectID: 3, PhysicalObjectID: 11, ObjectGeometryID: 21},
	}
	objects := distinctPhysicalObjects(rows)
	require.Len(t, objects, 2)
	assert.Equal(t, int64(10), objects[0].PhysicalObjectID)
	assert.True(t, objects[0].IsScenarioObject, "any row owning the slot marks the component")
	assert.False(t, objects[1].IsScenarioObject)
}

func TestDistinctGeometries(t *testing.T) {
	rows := []MergedUrbanObject{
		{UrbanObjectID: 1, PhysicalObjectID: 10, ObjectGeometryID: 20, Geometry: `{"type":"Point","coordinates":[0,0]}`},
		{UrbanObjectID: 2, PhysicalObjectID: 11, ObjectGeometryID: 20, Geometry: `{"type":"Point","coordinates":[0,0]}`},
	}
	geometries := distinctGeometries(rows)
	require.Len(t, geometries, 1)
	assert.Equal(t, int64(20), geometries[0].ObjectGeometryID)
	assert.False(t, geometries[0].IsScenarioObject)
}

func TestDistinctServicesSkipsEmptySlots(t *testing.T) {
	serviceA := int64(30)
	rows := []MergedUrbanObject{
		{UrbanObjectID: 1, PhysicalObjectID: 10, ObjectGeometryID: 20},
		{UrbanObjectID: 2, PhysicalObjectID: 11, ObjectGeometryID: 21, ServiceID: &serviceA, IsScenarioObject: true, IsScenarioService: true},
	}
	services := distinctServices(rows)
	require.Len(t, services, 1)
	assert.Equal(t, int64(30), services[0].ServiceID)
	assert.True(t, services[0].IsScenarioObject)
}

// A service edited copy-on-write sits on an overlay row whose physical object
// and geometry are still public references. The projections must report the
// service as project-owned and the siblings as public.
func TestDistinctSlotsOnServiceCopyOnWriteRow(t *testing.T) {
	ownedService := int64(99)
	rows := []MergedUrbanObject{{
		UrbanObjectID:     100,
		PhysicalObjectID:  10,
		ObjectGeometryID:  20,
		ServiceID:         &ownedService,
		IsScenarioObject:  true,
		IsScenarioService: true,
	}}

	services := distinctServices(rows)
	require.Len(t, services, 1)
	assert.True(t, services[0].IsScenarioObject, "project-owned service must not surface as public data")

	objects := distinctPhysicalObjects(rows)
	require.Len(t, objects, 1)
	assert.False(t, objects[0].IsScenarioObject)

	geometries := distinctGeometries(rows)
	require.Len(t, geometries, 1)
	assert.False(t, geometries[0].IsScenarioObject)
}
