package model

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Race struct {
	ID          int
	Name        string
	Description string

	stages []*Stage
}

func NewRace(id int, name, description string) *Race {
	return &Race{ID: id, Name: name, Description: description, stages: make([]*Stage, 0)}
}

func (r *Race) AddStage(s *Stage) {
	s.RaceID = r.ID
	r.stages = append(r.stages, s)
}

func (r *Race) RemoveStage(stageID int) bool {
	before := len(r.stages)
	r.stages = slices.DeleteFunc(r.stages, func(s *Stage) bool { return s.ID == stageID })
	return before != len(r.stages)
}

func (r *Race) Stage(stageID int) (*Stage, bool) {
	return lo.Find(r.stages, func(s *Stage) bool { return s.ID == stageID })
}

// Stages returns the stages ordered by their scheduled start.
// Stages with equal start keep the order in which they were added.
func (r *Race) Stages() []*Stage {
	ret := slices.Clone(r.stages)
	slices.SortStableFunc(ret, func(a, b *Stage) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return ret
}

func (r *Race) NumberOfStages() int {
	return len(r.stages)
}

func (r *Race) TotalLength() decimal.Decimal {
	return lo.Reduce(r.stages, func(agg decimal.Decimal, s *Stage, _ int) decimal.Decimal {
		return agg.Add(s.Length)
	}, decimal.Zero)
}
