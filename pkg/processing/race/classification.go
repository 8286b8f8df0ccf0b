package race

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/elapsed"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/points"
)

// Aggregator computes the race level classifications.
// The participants of a race are the riders with a result in the first
// stage (by scheduled start). Riders missing in later stages contribute
// nothing for those stages.
type Aggregator struct {
	calc      *elapsed.Calculator
	allocator *points.Allocator
	log       *log.Logger
}

type AggregatorOption func(a *Aggregator)

func WithCalculator(c *elapsed.Calculator) AggregatorOption {
	return func(a *Aggregator) {
		a.calc = c
	}
}

func WithAllocator(p *points.Allocator) AggregatorOption {
	return func(a *Aggregator) {
		a.allocator = p
	}
}

func WithLogger(l *log.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.log = l
	}
}

func NewAggregator(opts ...AggregatorOption) *Aggregator {
	ret := &Aggregator{log: log.Default().Named("processing.race")}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.calc == nil {
		ret.calc = elapsed.NewCalculator()
	}
	if ret.allocator == nil {
		ret.allocator = points.NewAllocator()
	}
	return ret
}

// GeneralClassification ranks the participants by their total adjusted
// elapsed time. Equal totals keep the participant order of the first stage.
func (a *Aggregator) GeneralClassification(r *model.Race) model.Standings[time.Duration] {
	stages := r.Stages()
	participants := a.participants(stages)
	totals := lo.SliceToMap(participants, func(riderID int) (int, time.Duration) {
		return riderID, 0
	})
	for _, s := range stages {
		for _, item := range a.calc.AdjustedElapsedTimes(s.Results()) {
			if _, ok := totals[item.RiderID]; ok {
				totals[item.RiderID] += item.Value
			}
		}
	}
	ret := lo.Map(participants, func(riderID int, _ int) model.Standing[time.Duration] {
		return model.Standing[time.Duration]{RiderID: riderID, Value: totals[riderID]}
	})
	slices.SortStableFunc(ret, func(x, y model.Standing[time.Duration]) int {
		return cmp.Compare(x.Value, y.Value)
	})
	a.log.Debug("general classification computed",
		log.Int("race", r.ID),
		log.Int("stages", len(stages)),
		log.Int("riders", len(ret)))
	return ret
}

// PointsClassification sums the sprint type stage points. The entries are
// reported in general classification order.
func (a *Aggregator) PointsClassification(r *model.Race) model.Standings[int] {
	return a.alignToGC(r, a.sumPoints(r, a.allocator.StagePoints))
}

// MountainClassification sums the KOM stage points. The entries are
// reported in general classification order.
func (a *Aggregator) MountainClassification(r *model.Race) model.Standings[int] {
	return a.alignToGC(r, a.sumPoints(r, a.allocator.StageMountainPoints))
}

// PointsClassificationByPoints orders by descending point total,
// equal totals are ordered by general classification.
func (a *Aggregator) PointsClassificationByPoints(r *model.Race) model.Standings[int] {
	return byDescendingValue(a.PointsClassification(r))
}

// MountainClassificationByPoints orders by descending KOM total,
// equal totals are ordered by general classification.
func (a *Aggregator) MountainClassificationByPoints(r *model.Race) model.Standings[int] {
	return byDescendingValue(a.MountainClassification(r))
}

func (a *Aggregator) participants(stages []*model.Stage) []int {
	if len(stages) == 0 {
		return []int{}
	}
	return lo.Map(stages[0].Results(), func(res *model.Result, _ int) int {
		return res.RiderID
	})
}

func (a *Aggregator) sumPoints(
	r *model.Race,
	stagePoints func(s *model.Stage) model.Standings[int],
) map[int]int {
	totals := map[int]int{}
	for _, s := range r.Stages() {
		for _, item := range stagePoints(s) {
			totals[item.RiderID] += item.Value
		}
	}
	return totals
}

// alignToGC computes the general classification again instead of sharing a
// pass with the point totals. Nothing is cached between calls.
func (a *Aggregator) alignToGC(r *model.Race, totals map[int]int) model.Standings[int] {
	return lo.Map(a.GeneralClassification(r),
		func(item model.Standing[time.Duration], _ int) model.Standing[int] {
			return model.Standing[int]{RiderID: item.RiderID, Value: totals[item.RiderID]}
		})
}

func byDescendingValue(s model.Standings[int]) model.Standings[int] {
	ret := slices.Clone(s)
	slices.SortStableFunc(ret, func(x, y model.Standing[int]) int {
		return cmp.Compare(y.Value, x.Value)
	})
	return ret
}
