package model

import "github.com/shopspring/decimal"

type Segment struct {
	ID       int             `json:"id"`
	StageID  int             `json:"stageId"`
	Kind     SegmentKind     `json:"kind"`
	Category ClimbCategory   `json:"category,omitempty"`
	Location decimal.Decimal `json:"location"` // km from stage start
	// climbs only
	AverageGradient decimal.Decimal `json:"averageGradient"`
	Length          decimal.Decimal `json:"length"`
}

func NewIntermediateSprint(id, stageID int, location decimal.Decimal) *Segment {
	return &Segment{ID: id, StageID: stageID, Kind: SegmentSprint, Location: location}
}

func NewCategorizedClimb(
	id, stageID int,
	location decimal.Decimal,
	category ClimbCategory,
	averageGradient, length decimal.Decimal,
) *Segment {
	return &Segment{
		ID:              id,
		StageID:         stageID,
		Kind:            SegmentClimb,
		Category:        category,
		Location:        location,
		AverageGradient: averageGradient,
		Length:          length,
	}
}

func (s *Segment) IsSprint() bool { return s.Kind == SegmentSprint }

func (s *Segment) IsClimb() bool { return s.Kind == SegmentClimb }
