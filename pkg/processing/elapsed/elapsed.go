package elapsed

import (
	"cmp"
	"slices"
	"time"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
)

// DefaultBunchingThreshold is the gap below which a finisher is credited
// with the time of the rider immediately ahead.
const DefaultBunchingThreshold = time.Second

// ElapsedTime is the duration between the first and the last checkpoint
func ElapsedTime(r *model.Result) time.Duration {
	return r.Finish().Sub(r.Start())
}

// SortByElapsedTime returns the results ordered by ascending elapsed time.
// Results with equal times keep their registration order.
func SortByElapsedTime(results []*model.Result) []*model.Result {
	ret := slices.Clone(results)
	slices.SortStableFunc(ret, func(a, b *model.Result) int {
		return cmp.Compare(ElapsedTime(a), ElapsedTime(b))
	})
	return ret
}

type Calculator struct {
	threshold time.Duration
	log       *log.Logger
}

type CalculatorOption func(c *Calculator)

func WithBunchingThreshold(d time.Duration) CalculatorOption {
	return func(c *Calculator) {
		c.threshold = d
	}
}

func WithLogger(l *log.Logger) CalculatorOption {
	return func(c *Calculator) {
		c.log = l
	}
}

func NewCalculator(opts ...CalculatorOption) *Calculator {
	ret := &Calculator{
		threshold: DefaultBunchingThreshold,
		log:       log.Default().Named("processing.elapsed"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (c *Calculator) BunchingThreshold() time.Duration {
	return c.threshold
}

// AdjustedElapsedTimes returns the riders ordered by elapsed time together
// with their bunch adjusted time.
// A rider finishing less than the threshold behind the rider immediately
// ahead gets the (adjusted) time of that rider. Only neighbors are compared,
// so a chain of close finishers collapses onto the time of its first rider
// even if the whole chain spans more than the threshold.
func (c *Calculator) AdjustedElapsedTimes(
	results []*model.Result,
) model.Standings[time.Duration] {
	sorted := SortByElapsedTime(results)
	ret := make(model.Standings[time.Duration], len(sorted))
	var prevRaw time.Duration
	for i, r := range sorted {
		raw := ElapsedTime(r)
		value := raw
		if i > 0 && raw-prevRaw < c.threshold {
			value = ret[i-1].Value
			c.log.Debug("bunched rider",
				log.Int("rider", r.RiderID),
				log.Duration("raw", raw),
				log.Duration("adjusted", value))
		}
		ret[i] = model.Standing[time.Duration]{RiderID: r.RiderID, Value: value}
		prevRaw = raw
	}
	return ret
}

// AdjustedElapsedTime returns the adjusted time of the rider. The second
// return value is false if the rider has no result in the given set.
func (c *Calculator) AdjustedElapsedTime(
	riderID int,
	results []*model.Result,
) (time.Duration, bool) {
	if !slices.ContainsFunc(results, func(r *model.Result) bool {
		return r.RiderID == riderID
	}) {
		return 0, false
	}
	return c.AdjustedElapsedTimes(results).Lookup(riderID)
}
