package model

import "fmt"

type (
	StageKind     string
	SegmentKind   string
	ClimbCategory string
	StageState    string
)

const (
	StageFlat           StageKind = "flat"
	StageMediumMountain StageKind = "medium-mountain"
	StageHighMountain   StageKind = "high-mountain"
	StageTimeTrial      StageKind = "time-trial"
)

const (
	SegmentSprint SegmentKind = "sprint"
	SegmentClimb  SegmentKind = "climb"
)

// climb categories, ascending severity
const (
	ClimbC4 ClimbCategory = "C4"
	ClimbC3 ClimbCategory = "C3"
	ClimbC2 ClimbCategory = "C2"
	ClimbC1 ClimbCategory = "C1"
	ClimbHC ClimbCategory = "HC"
)

const (
	StatePreparing         StageState = "preparing"
	StateCollectingResults StageState = "collecting-results"
)

var climbSeverity = map[ClimbCategory]int{
	ClimbC4: 1, ClimbC3: 2, ClimbC2: 3, ClimbC1: 4, ClimbHC: 5,
}

func (k StageKind) Valid() bool {
	switch k {
	case StageFlat, StageMediumMountain, StageHighMountain, StageTimeTrial:
		return true
	}
	return false
}

func ParseStageKind(s string) (StageKind, error) {
	k := StageKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStageKind, s)
	}
	return k, nil
}

func (c ClimbCategory) Valid() bool {
	_, ok := climbSeverity[c]
	return ok
}

// Severity returns 1 for C4 up to 5 for HC, 0 for unknown categories
func (c ClimbCategory) Severity() int {
	return climbSeverity[c]
}

func ParseClimbCategory(s string) (ClimbCategory, error) {
	c := ClimbCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidClimbCategory, s)
	}
	return c, nil
}
