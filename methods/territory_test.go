package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// District-2(0) -> City-1(1, city) -> Neighborhood-7(2) and friends.
func contextTree() []TerritoryNode {
	return []TerritoryNode{
		{TerritoryID: 1, ParentID: nil, Name: "District-2", Level: 0},
		{TerritoryID: 2, ParentID: ptr(1), Name: "City-1", Level: 1, IsCity: true},
		{TerritoryID: 3, ParentID: ptr(2), Name: "Neighborhood-7", Level: 2},
		{TerritoryID: 4, ParentID: ptr(2), Name: "Neighborhood-8", Level: 2},
		{TerritoryID: 5, ParentID: ptr(3), Name: "Block-1", Level: 3},
	}
}

func TestHighestCityLevel(t *testing.T) {
	level, ok := HighestCityLevel(contextTree())
	require.True(t, ok)
	assert.Equal(t, 1, level)
}

func TestHighestCityLevelPicksDeepest(t *testing.T) {
	nodes := contextTree()
	nodes = append(nodes, TerritoryNode{TerritoryID: 6, ParentID: ptr(3), Name: "Inner-City", Level: 3, IsCity: true})
	level, ok := HighestCityLevel(nodes)
	require.True(t, ok)
	assert.Equal(t, 3, level)
}

func TestHighestCityLevelNoCity(t *testing.T) {
	nodes := []TerritoryNode{
		{TerritoryID: 1, ParentID: nil, Level: 0},
		{TerritoryID: 2, ParentID: ptr(1), Level: 1},
	}
	_, ok := HighestCityLevel(nodes)
	assert.False(t, ok, "subtree without a city must report absence, not a level")
}

func TestClassifyByLevel(t *testing.T) {
	nodes := contextTree()
	cityLevel, ok := HighestCityLevel(nodes)
	require.True(t, ok)

	// city level 1: neighbourhoods sit at level 0 here, districts at -1
	neighbourhoods, districts := classifyByLevel(nodes, cityLevel)
	require.Len(t, neighbourhoods, 1)
	assert.Equal(t, "District-2", neighbourhoods[0].Name)
	assert.Empty(t, districts)
}

func TestClassifyByLevelDeepTree(t *testing.T) {
	nodes := []TerritoryNode{
		{TerritoryID: 1, ParentID: nil, Name: "Region", Level: 0},
		{TerritoryID: 2, ParentID: ptr(1), Name: "District-2", Level: 1},
		{TerritoryID: 3, ParentID: ptr(2), Name: "Suburb", Level: 2},
		{TerritoryID: 4, ParentID: ptr(3), Name: "City-1", Level: 3, IsCity: true},
		{TerritoryID: 5, ParentID: ptr(3), Name: "Neighborhood-7", Level: 3},
		{TerritoryID: 6, ParentID: ptr(3), Name: "Neighborhood-8", Level: 3},
	}
	cityLevel, ok := HighestCityLevel(nodes)
	require.True(t, ok)
	assert.Equal(t, 3, cityLevel)

	neighbourhoods, districts := classifyByLevel(nodes, cityLevel)
	require.Len(t, neighbourhoods, 1)
	assert.Equal(t, "Suburb", neighbourhoods[0].Name)
	require.Len(t, districts, 1)
	assert.Equal(t, "District-2", districts[0].Name)
}

func TestClassifyByLevelIdempotent(t *testing.T) {
	nodes := contextTree()
	cityLevel, _ := HighestCityLevel(nodes)
	first, firstDistricts := classifyByLevel(nodes, cityLevel)
	second, secondDistricts := classifyByLevel(nodes, cityLevel)
	assert.Equal(t, first, second)
	assert.Equal(t, firstDistricts, secondDistricts)
}

func TestNodeIDs(t *testing.T) {
	ids := nodeIDs(contextTree())
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
}
