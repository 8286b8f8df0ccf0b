package points

import (
	"slices"

	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
)

// position -> points, index 0 is the winner
var (
	flatTable           = []int{50, 30, 20, 18, 16, 14, 12, 10, 8, 7, 6, 5, 4, 3, 2}
	mediumMountainTable = []int{30, 25, 22, 19, 17, 15, 13, 11, 9, 7, 6, 5, 4, 3, 2}
	highMountainTable   = []int{20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	timeTrialTable      = []int{20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	sprintTable         = []int{20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	climbTables = map[model.ClimbCategory][]int{
		model.ClimbC4: {1},
		model.ClimbC3: {2, 1},
		model.ClimbC2: {5, 3, 2, 1},
		model.ClimbC1: {10, 8, 6, 4, 2, 1},
		model.ClimbHC: {20, 15, 12, 10, 8, 6, 4, 2},
	}
)

// PositionPoints looks up the 1-based position in table.
// Positions outside the table score 0.
func PositionPoints(table []int, position int) int {
	if position < 1 || position > len(table) {
		return 0
	}
	return table[position-1]
}

// FinishTable returns the finish position table for the stage kind
func FinishTable(kind model.StageKind) []int {
	switch kind {
	case model.StageFlat:
		return slices.Clone(flatTable)
	case model.StageMediumMountain:
		return slices.Clone(mediumMountainTable)
	case model.StageHighMountain:
		return slices.Clone(highMountainTable)
	case model.StageTimeTrial:
		return slices.Clone(timeTrialTable)
	}
	return []int{}
}

// SprintTable returns the table used for intermediate sprints
func SprintTable() []int {
	return slices.Clone(sprintTable)
}

// ClimbTable returns the KOM table for the climb category
func ClimbTable(category model.ClimbCategory) []int {
	return slices.Clone(climbTables[category])
}
