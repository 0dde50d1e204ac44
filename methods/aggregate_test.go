package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

// root(0) -> A(1), B(1); A -> A1(2), A2(2). Services: A1=10, A2=20, B=5.
func capacityTree() ([]TerritoryNode, map[int64]CountCapacity) {
	nodes := []TerritoryNode{
		{TerritoryID: 1, ParentID: nil, Name: "root", Level: 0},
		{TerritoryID: 2, ParentID: ptr(1), Name: "A", Level: 1},
		{TerritoryID: 3, ParentID: ptr(1), Name: "B", Level: 1},
		{TerritoryID: 4, ParentID: ptr(2), Name: "A1", Level: 2},
		{TerritoryID: 5, ParentID: ptr(2), Name: "A2", Level: 2},
	}
	direct := map[int64]CountCapacity{
		4: {Count: 1, Capacity: 10},
		5: {Count: 1, Capacity: 20},
		3: {Count: 1, Capacity: 5},
	}
	return nodes, direct
}

func TestFoldServiceTotalsRootLevel(t *testing.T) {
	nodes, direct := capacityTree()
	rows := foldServiceTotals(nodes, direct, 0)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].TerritoryID)
	assert.Equal(t, int64(3), rows[0].Count)
	assert.Equal(t, int64(35), rows[0].Capacity)
}

func TestFoldServiceTotalsMidLevel(t *testing.T) {
	nodes, direct := capacityTree()
	rows := foldServiceTotals(nodes, direct, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].TerritoryID)
	assert.Equal(t, int64(30), rows[0].Capacity)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, int64(3), rows[1].TerritoryID)
	assert.Equal(t, int64(5), rows[1].Capacity)
	assert.Equal(t, int64(1), rows[1].Count)
}

func TestFoldServiceTotalsLeafLevel(t *testing.T) {
	nodes, direct := capacityTree()
	rows := foldServiceTotals(nodes, direct, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(10), rows[0].Capacity)
	assert.Equal(t, int64(20), rows[1].Capacity)
}

func TestFoldServiceTotalsMissingDefaultsToZero(t *testing.T) {
	nodes := []TerritoryNode{
		{TerritoryID: 1, ParentID: nil, Level: 0},
		{TerritoryID: 2, ParentID: ptr(1), Level: 1},
	}
	rows := foldServiceTotals(nodes, map[int64]CountCapacity{}, 1)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Count)
	assert.Zero(t, rows[0].Capacity)
}

func TestFoldServiceTotalsNoDoubleCountAcrossSiblings(t *testing.T) {
	// deep chain under one sibling must not leak into the other
	nodes := []TerritoryNode{
		{TerritoryID: 1, ParentID: nil, Level: 0},
		{TerritoryID: 2, ParentID: ptr(1), Level: 1},
		{TerritoryID: 3, ParentID: ptr(1), Level: 1},
		{TerritoryID: 4, ParentID: ptr(2), Level: 2},
		{TerritoryID: 5, ParentID: ptr(4), Level: 3},
	}
	direct := map[int64]CountCapacity{
		5: {Count: 2, Capacity: 100},
	}
	rows := foldServiceTotals(nodes, direct, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(100), rows[0].Capacity)
	assert.Zero(t, rows[1].Capacity)

	root := foldServiceTotals(nodes, direct, 0)
	require.Len(t, root, 1)
	assert.Equal(t, int64(100), root[0].Capacity)
	assert.Equal(t, int64(2), root[0].Count)
}
