// Package ranking orders the riders of a stage by one of the recorded
// time bases. All functions recompute from the stage results.
package ranking

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/elapsed"
)

// ByElapsedTime ranks the riders by ascending elapsed time.
// Equal times keep the registration order.
func ByElapsedTime(s *model.Stage) model.Standings[time.Duration] {
	return lo.Map(elapsed.SortByElapsedTime(s.Results()),
		func(r *model.Result, _ int) model.Standing[time.Duration] {
			return model.Standing[time.Duration]{RiderID: r.RiderID, Value: elapsed.ElapsedTime(r)}
		})
}

// ByFinishTime ranks the riders by their absolute arrival at the finish
func ByFinishTime(s *model.Stage) model.Standings[time.Time] {
	return byTimestamp(s.Results(), (*model.Result).Finish)
}

// ByCheckpoint ranks the riders by their passing time of the segment at
// position segmentIdx (route order)
func ByCheckpoint(results []*model.Result, segmentIdx int) model.Standings[time.Time] {
	return byTimestamp(results, func(r *model.Result) time.Time {
		return r.SegmentTime(segmentIdx)
	})
}

// ByAdjustedElapsedTime ranks like ByElapsedTime but reports the bunch
// adjusted times
func ByAdjustedElapsedTime(
	s *model.Stage,
	calc *elapsed.Calculator,
) model.Standings[time.Duration] {
	return calc.AdjustedElapsedTimes(s.Results())
}

func byTimestamp(
	results []*model.Result,
	extract func(r *model.Result) time.Time,
) model.Standings[time.Time] {
	ret := lo.Map(results, func(r *model.Result, _ int) model.Standing[time.Time] {
		return model.Standing[time.Time]{RiderID: r.RiderID, Value: extract(r)}
	})
	slices.SortStableFunc(ret, func(a, b model.Standing[time.Time]) int {
		return a.Value.Compare(b.Value)
	})
	return ret
}
