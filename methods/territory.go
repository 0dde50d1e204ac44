package methods

import (
	"github.com/GrainArc/ScenarioMap/models"
	"gorm.io/gorm"
)

// TerritoryNode is the slim row the tree algorithms operate on. Geometry
// stays in the database, only identity and hierarchy come to Go.
type TerritoryNode struct {
	TerritoryID int64  `gorm:"column:territory_id"`
	ParentID    *int64 `gorm:"column:parent_id"`
	Name        string `gorm:"column:name"`
	Level       int    `gorm:"column:level"`
	IsCity      bool   `gorm:"column:is_city"`
}

// AncestorsAndSelf walks parent_id upward from the given territory and
// returns the chain ordered root first.
func AncestorsAndSelf(DB *gorm.DB, territoryID int64) ([]models.TerritoryData, error) {
	var chain []models.TerritoryData
	id := territoryID
	for {
		var row models.TerritoryData
		err := DB.Where("territory_id = ?", id).Take(&row).Error
		if err == gorm.ErrRecordNotFound {
			if id == territoryID {
				return nil, NewNotFound(territoryID, "territory")
			}
			return nil, NewNotFound(id, "parent territory")
		}
		if err != nil {
			return nil, err
		}
		chain = append([]models.TerritoryData{row}, chain...)
		if row.ParentID == nil {
			break
		}
		id = *row.ParentID
	}
	return chain, nil
}

// DescendantNodes collects the whole subtree under rootID (root included)
// with an iterative worklist over plain parent_id adjacency queries. No
// database-specific recursive syntax so the traversal stays portable.
func DescendantNodes(DB *gorm.DB, rootID int64) ([]TerritoryNode, error) {
	var root TerritoryNode
	err := DB.Model(&models.TerritoryData{}).
		Select("territory_id", "parent_id", "name", "level", "is_city").
		Where("territory_id = ?", rootID).
		Take(&root).Error
	if err == gorm.ErrRecordNotFound {
		return nil, NewNotFound(rootID, "territory")
	}
	if err != nil {
		return nil, err
	}

	nodes := []TerritoryNode{root}
	frontier := []int64{rootID}
	for len(frontier) > 0 {
		var children []TerritoryNode
		err = DB.Model(&models.TerritoryData{}).
			Select("territory_id", "parent_id", "name", "level", "is_city").
			Where("parent_id IN ?", frontier).
			Order("territory_id").
			Find(&children).Error
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, child := range children {
			nodes = append(nodes, child)
			frontier = append(frontier, child.TerritoryID)
		}
	}
	return nodes, nil
}

// Descendants returns territory ids of the subtree, optionally keeping the
// seed itself and optionally filtered to city territories. This backs every
// "include child territories" filter of the API.
func Descendants(DB *gorm.DB, territoryID int64, includeSelf bool, citiesOnly bool) ([]int64, error) {
	nodes, err := DescendantNodes(DB, territoryID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		if !includeSelf && node.TerritoryID == territoryID {
			continue
		}
		if citiesOnly && !node.IsCity {
			continue
		}
		ids = append(ids, node.TerritoryID)
	}
	return ids, nil
}

// HighestCityLevel finds the deepest level among city-flagged territories of
// a subtree. The second value is false when the subtree holds no city at
// all; callers must degrade, not fail, on that.
func HighestCityLevel(nodes []TerritoryNode) (int, bool) {
	level := 0
	found := false
	for _, node := range nodes {
		if node.IsCity && (!found || node.Level > level) {
			level = node.Level
			found = true
		}
	}
	return level, found
}

// classifyByLevel splits subtree nodes by their level relative to the city
// level: city-1 are neighbourhoods, city-2 are districts.
func classifyByLevel(nodes []TerritoryNode, cityLevel int) (neighbourhoods []TerritoryNode, districts []TerritoryNode) {
	for _, node := range nodes {
		switch node.Level {
		case cityLevel - 1:
			neighbourhoods = append(neighbourhoods, node)
		case cityLevel - 2:
			districts = append(districts, node)
		}
	}
	return neighbourhoods, districts
}

// AddTerritory validates the parent and derives level = parent level + 1.
// Roots (parent_id = NULL) get level 0.
func AddTerritory(DB *gorm.DB, territory *models.TerritoryData) error {
	if territory.ParentID != nil {
		var parent models.TerritoryData
		err := DB.Where("territory_id = ?", *territory.ParentID).Take(&parent).Error
		if err == gorm.ErrRecordNotFound {
			return NewNotFound(*territory.ParentID, "parent territory")
		}
		if err != nil {
			return err
		}
		territory.Level = parent.Level + 1
	} else {
		territory.Level = 0
	}
	return DB.Create(territory).Error
}
