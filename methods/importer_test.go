package methods

import (
	"testing"

	"github.com/GrainArc/ScenarioMap/config"
	"github.com/stretchr/testify/assert"
)

func TestCropEligibleThresholdInclusive(t *testing.T) {
	candidate := cropCandidate{
		ObjectGeometryID: 1,
		OverlapArea:      config.CropAreaPercent * 1000,
		TotalArea:        1000,
		FunctionID:       2,
	}
	assert.True(t, cropEligible(candidate), "exactly 1%% overlap must be cropped")

	candidate.OverlapArea = 0.00999 * 1000
	assert.False(t, cropEligible(candidate), "0.999%% overlap must not be cropped")
}

func TestCropEligibleContainedNeverCropped(t *testing.T) {
	candidate := cropCandidate{
		ObjectGeometryID: 1,
		Contained:        true,
		OverlapArea:      1000,
		TotalArea:        1000,
		FunctionID:       2,
	}
	// containment takes precedence even when areas are equal
	assert.False(t, cropEligible(candidate))
}

func TestCropEligibleBuildingsExcluded(t *testing.T) {
	candidate := cropCandidate{
		ObjectGeometryID: 1,
		OverlapArea:      500,
		TotalArea:        1000,
		FunctionID:       config.BuildingFunctionID,
	}
	assert.False(t, cropEligible(candidate))
}

func TestCropEligibleZeroOverlap(t *testing.T) {
	candidate := cropCandidate{
		ObjectGeometryID: 1,
		OverlapArea:      0,
		TotalArea:        1000,
		FunctionID:       2,
	}
	assert.False(t, cropEligible(candidate))

	candidate.TotalArea = 0
	assert.False(t, cropEligible(candidate), "degenerate source geometry is skipped")
}
