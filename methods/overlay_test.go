package methods

import (
	"testing"

	"github.com/GrainArc/ScenarioMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeScenarioRowsUnion(t *testing.T) {
	public := []MergedUrbanObject{
		{UrbanObjectID: 1, PhysicalObjectID: 10, ObjectGeometryID: 20},
		{UrbanObjectID: 2, PhysicalObjectID: 11, ObjectGeometryID: 21},
	}
	scenario := []MergedUrbanObject{
		{UrbanObjectID: 100, PhysicalObjectID: 12, ObjectGeometryID: 22, IsScenarioObject: true},
	}
	merged := mergeScenarioRows(public, scenario)
	require.Len(t, merged, 3)
	assert.True(t, merged[0].IsScenarioObject)
	assert.False(t, merged[1].IsScenarioObject)
	assert.False(t, merged[2].IsScenarioObject)
}

func TestMergeScenarioRowsOverlayWinsOnStaleClaim(t *testing.T) {
	// the same triad arriving from both branches means the claim row was not
	// applied to the public query; the overlay row must win and appear once
	public := []MergedUrbanObject{
		{UrbanObjectID: 1, PhysicalObjectID: 10, ObjectGeometryID: 20},
	}
	scenario := []MergedUrbanObject{
		{UrbanObjectID: 100, PhysicalObjectID: 10, ObjectGeometryID: 20, IsScenarioObject: true},
	}
	merged := mergeScenarioRows(public, scenario)
	require.Len(t, merged, 1)
	assert.True(t, merged[0].IsScenarioObject)
	assert.Equal(t, int64(100), merged[0].UrbanObjectID)
}

func TestMergeScenarioRowsServiceDistinguishesTriads(t *testing.T) {
	serviceA := int64(30)
	serviceB := int64(31)
	scenario := []MergedUrbanObject{
		{UrbanObjectID: 100, PhysicalObjectID: 10, ObjectGeometryID: 20, ServiceID: &serviceA, IsScenarioObject: true},
		{UrbanObjectID: 101, PhysicalObjectID: 10, ObjectGeometryID: 20, ServiceID: &serviceB, IsScenarioObject: true},
	}
	merged := mergeScenarioRows(nil, scenario)
	assert.Len(t, merged, 2)
}

func TestMergeScenarioRowsDropsDuplicateOverlayRows(t *testing.T) {
	scenario := []MergedUrbanObject{
		{UrbanObjectID: 100, PhysicalObjectID: 10, ObjectGeometryID: 20, IsScenarioObject: true},
		{UrbanObjectID: 101, PhysicalObjectID: 10, ObjectGeometryID: 20, IsScenarioObject: true},
	}
	merged := mergeScenarioRows(nil, scenario)
	require.Len(t, merged, 1)
	assert.Equal(t, int64(100), merged[0].UrbanObjectID)
}

func TestClaimAndDetailRowsServiceSlot(t *testing.T) {
	publicService := int64(30)
	triad := models.UrbanObjectData{UrbanObjectID: 1, PhysicalObjectID: 10, ObjectGeometryID: 20, ServiceID: &publicService}

	claim, detail := claimAndDetailRows(7, triad, SlotService, 99)

	assert.Equal(t, int64(7), claim.ScenarioID)
	require.NotNil(t, claim.PublicUrbanObjectID)
	assert.Equal(t, int64(1), *claim.PublicUrbanObjectID)
	assert.Nil(t, claim.PhysicalObjectID)
	assert.Nil(t, claim.ObjectGeometryID)
	assert.Nil(t, claim.ServiceID)

	assert.Nil(t, detail.PublicUrbanObjectID)
	require.NotNil(t, detail.ServiceID)
	assert.Equal(t, int64(99), *detail.ServiceID)
	assert.Nil(t, detail.PublicServiceID, "edited slot never keeps its public reference")
	require.NotNil(t, detail.PublicPhysicalObjectID)
	assert.Equal(t, int64(10), *detail.PublicPhysicalObjectID)
	require.NotNil(t, detail.PublicObjectGeometryID)
	assert.Equal(t, int64(20), *detail.PublicObjectGeometryID)
}

// The import pipeline materialises cropped geometries through the same pair:
// owned geometry slot, public physical-object reference, service carried over
// only when the source triad had one.
func TestClaimAndDetailRowsCroppedGeometryShape(t *testing.T) {
	triad := models.UrbanObjectData{UrbanObjectID: 2, PhysicalObjectID: 11, ObjectGeometryID: 21}

	claim, detail := claimAndDetailRows(7, triad, SlotGeometry, 77)

	require.NotNil(t, claim.PublicUrbanObjectID)
	assert.Equal(t, int64(2), *claim.PublicUrbanObjectID)

	require.NotNil(t, detail.ObjectGeometryID)
	assert.Equal(t, int64(77), *detail.ObjectGeometryID)
	assert.Nil(t, detail.PublicObjectGeometryID)
	require.NotNil(t, detail.PublicPhysicalObjectID)
	assert.Equal(t, int64(11), *detail.PublicPhysicalObjectID)
	assert.Nil(t, detail.PhysicalObjectID)
	assert.Nil(t, detail.ServiceID)
	assert.Nil(t, detail.PublicServiceID)
}

func TestSlotColumnsCoverAllSlots(t *testing.T) {
	for _, slot := range []OverlaySlot{SlotPhysicalObject, SlotGeometry, SlotService} {
		cols, ok := slotColumns[slot]
		require.True(t, ok)
		assert.NotEmpty(t, cols.owned)
		assert.Equal(t, "public_"+cols.owned, cols.public)
	}
}
