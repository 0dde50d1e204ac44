package methods

import (
	"sort"

	"gorm.io/gorm"
)

// CountCapacity is the direct (non-rolled-up) service totals of one
// territory.
type CountCapacity struct {
	Count    int64
	Capacity int64
}

// ServicesCountCapacity is one emitted aggregation row.
type ServicesCountCapacity struct {
	TerritoryID int64 `json:"territory_id"`
	Count       int64 `json:"count"`
	Capacity    int64 `json:"capacity"`
}

// ServicesCapacityByLevel computes, for every territory at the requested
// level under the given root, the total count and capacity of services
// anywhere in that territory's subtree. Each service is counted once per
// ancestor through a single bottom-up fold, so sibling subtrees never double
// count.
func ServicesCapacityByLevel(DB *gorm.DB, territoryID int64, level int, serviceTypeID *int64) ([]ServicesCountCapacity, error) {
	nodes, err := DescendantNodes(DB, territoryID)
	if err != nil {
		return nil, err
	}
	// Only the sub-forest at or below the requested level matters; anything
	// above it can neither be emitted nor contribute to an emitted row.
	filtered := nodes[:0:0]
	for _, node := range nodes {
		if node.Level >= level {
			filtered = append(filtered, node)
		}
	}
	if len(filtered) == 0 {
		return []ServicesCountCapacity{}, nil
	}

	direct, err := directServiceTotals(DB, nodeIDs(filtered), serviceTypeID)
	if err != nil {
		return nil, err
	}
	return foldServiceTotals(filtered, direct, level), nil
}

// directServiceTotals queries per-territory service count and capacity
// through the geometry -> triad -> service join chain. Territories without
// services simply do not appear; callers treat absence as zero.
func directServiceTotals(DB *gorm.DB, territoryIDs []int64, serviceTypeID *int64) (map[int64]CountCapacity, error) {
	query := DB.Table("territories_data t").
		Select(`t.territory_id,
			COUNT(s.service_id) AS count,
			COALESCE(SUM(s.capacity_real), 0) AS capacity`).
		Joins("LEFT JOIN object_geometries_data og ON og.territory_id = t.territory_id").
		Joins("LEFT JOIN urban_objects_data uo ON uo.object_geometry_id = og.object_geometry_id").
		Joins("LEFT JOIN services_data s ON s.service_id = uo.service_id").
		Where("t.territory_id IN ?", territoryIDs).
		Group("t.territory_id")
	if serviceTypeID != nil {
		query = query.Where("s.service_type_id = ?", *serviceTypeID)
	}

	var rows []struct {
		TerritoryID int64 `gorm:"column:territory_id"`
		Count       int64 `gorm:"column:count"`
		Capacity    int64 `gorm:"column:capacity"`
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make(map[int64]CountCapacity, len(rows))
	for _, row := range rows {
		totals[row.TerritoryID] = CountCapacity{Count: row.Count, Capacity: row.Capacity}
	}
	return totals, nil
}

// foldServiceTotals accumulates direct totals bottom-up along parent links
// and emits the rows whose level equals the requested one, ordered by
// territory id. Missing totals default to zero.
func foldServiceTotals(nodes []TerritoryNode, direct map[int64]CountCapacity, level int) []ServicesCountCapacity {
	inSet := make(map[int64]bool, len(nodes))
	for _, node := range nodes {
		inSet[node.TerritoryID] = true
	}

	totals := make(map[int64]CountCapacity, len(nodes))
	for _, node := range nodes {
		totals[node.TerritoryID] = direct[node.TerritoryID]
	}

	// Deepest first so every child is folded into its parent exactly once.
	ordered := make([]TerritoryNode, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Level > ordered[j].Level })
	for _, node := range ordered {
		if node.ParentID == nil || !inSet[*node.ParentID] {
			continue
		}
		parent := totals[*node.ParentID]
		child := totals[node.TerritoryID]
		parent.Count += child.Count
		parent.Capacity += child.Capacity
		totals[*node.ParentID] = parent
	}

	result := []ServicesCountCapacity{}
	for _, node := range nodes {
		if node.Level != level {
			continue
		}
		total := totals[node.TerritoryID]
		result = append(result, ServicesCountCapacity{
			TerritoryID: node.TerritoryID,
			Count:       total.Count,
			Capacity:    total.Capacity,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TerritoryID < result[j].TerritoryID })
	return result
}
