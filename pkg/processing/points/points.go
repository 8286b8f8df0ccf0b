package points

import (
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/ranking"
)

// Allocator computes the points a stage awards. Sprint type points
// (finish position plus intermediate sprints) and mountain points
// (categorized climbs) are tracked independently.
type Allocator struct {
	log *log.Logger
}

type AllocatorOption func(a *Allocator)

func WithLogger(l *log.Logger) AllocatorOption {
	return func(a *Allocator) {
		a.log = l
	}
}

func NewAllocator(opts ...AllocatorOption) *Allocator {
	ret := &Allocator{log: log.Default().Named("processing.points")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// StagePoints returns finish and intermediate sprint points per rider in
// stage rank order (elapsed time).
// Time trials rank the finish by elapsed time, all other stages by arrival.
func (a *Allocator) StagePoints(s *model.Stage) model.Standings[int] {
	totals := a.initTotals(s)
	table := FinishTable(s.Kind)
	var order []int
	if s.IsTimeTrial() {
		order = ranking.ByElapsedTime(s).RiderIDs()
	} else {
		order = ranking.ByFinishTime(s).RiderIDs()
	}
	a.award(totals, order, table)

	if !s.IsTimeTrial() {
		results := s.Results()
		for idx, seg := range s.Segments() {
			if !seg.IsSprint() {
				continue
			}
			a.log.Debug("awarding intermediate sprint",
				log.Int("stage", s.ID), log.Int("segment", seg.ID))
			a.award(totals, ranking.ByCheckpoint(results, idx).RiderIDs(), sprintTable)
		}
	}
	return a.inStageOrder(s, totals)
}

// StageMountainPoints returns the KOM points per rider in stage rank order
func (a *Allocator) StageMountainPoints(s *model.Stage) model.Standings[int] {
	totals := a.initTotals(s)
	results := s.Results()
	for idx, seg := range s.Segments() {
		if !seg.IsClimb() {
			continue
		}
		a.log.Debug("awarding climb",
			log.Int("stage", s.ID), log.Int("segment", seg.ID),
			log.String("category", string(seg.Category)))
		a.award(totals, ranking.ByCheckpoint(results, idx).RiderIDs(), climbTables[seg.Category])
	}
	return a.inStageOrder(s, totals)
}

func (a *Allocator) initTotals(s *model.Stage) map[int]int {
	return lo.SliceToMap(s.Results(), func(r *model.Result) (int, int) {
		return r.RiderID, 0
	})
}

func (a *Allocator) award(totals map[int]int, order []int, table []int) {
	for i, riderID := range order {
		totals[riderID] += PositionPoints(table, i+1)
	}
}

func (a *Allocator) inStageOrder(s *model.Stage, totals map[int]int) model.Standings[int] {
	return lo.Map(ranking.ByElapsedTime(s),
		func(item model.Standing[time.Duration], _ int) model.Standing[int] {
			return model.Standing[int]{RiderID: item.RiderID, Value: totals[item.RiderID]}
		})
}
