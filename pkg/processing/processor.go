package processing

import (
	"fmt"
	"time"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/elapsed"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/points"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/race"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/ranking"
)

type (
	StageLookup interface {
		StageByID(id int) (*model.Stage, bool)
	}
	RaceLookup interface {
		RaceByID(id int) (*model.Race, bool)
	}
	Lookup interface {
		StageLookup
		RaceLookup
	}
)

// Processor answers classification queries by stage and race id.
// Nothing is cached, every call recomputes from the stored results.
type Processor struct {
	stages     StageLookup
	races      RaceLookup
	threshold  time.Duration
	calc       *elapsed.Calculator
	allocator  *points.Allocator
	aggregator *race.Aggregator
	log        *log.Logger
}

type ProcessorOption func(proc *Processor)

func WithLookup(l Lookup) ProcessorOption {
	return func(proc *Processor) {
		proc.stages = l
		proc.races = l
	}
}

func WithStageLookup(l StageLookup) ProcessorOption {
	return func(proc *Processor) {
		proc.stages = l
	}
}

func WithRaceLookup(l RaceLookup) ProcessorOption {
	return func(proc *Processor) {
		proc.races = l
	}
}

func WithBunchingThreshold(d time.Duration) ProcessorOption {
	return func(proc *Processor) {
		proc.threshold = d
	}
}

func WithLogger(l *log.Logger) ProcessorOption {
	return func(proc *Processor) {
		proc.log = l
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{
		threshold: elapsed.DefaultBunchingThreshold,
		log:       log.Default().Named("processing"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.calc = elapsed.NewCalculator(
		elapsed.WithBunchingThreshold(ret.threshold),
		elapsed.WithLogger(ret.log.Named("elapsed")))
	ret.allocator = points.NewAllocator(points.WithLogger(ret.log.Named("points")))
	ret.aggregator = race.NewAggregator(
		race.WithCalculator(ret.calc),
		race.WithAllocator(ret.allocator),
		race.WithLogger(ret.log.Named("race")))
	return ret
}

func (p *Processor) BunchingThreshold() time.Duration {
	return p.calc.BunchingThreshold()
}

func (p *Processor) ElapsedTime(stageID, riderID int) (time.Duration, error) {
	_, res, err := p.lookupResult(stageID, riderID)
	if err != nil {
		return 0, err
	}
	return elapsed.ElapsedTime(res), nil
}

func (p *Processor) AdjustedElapsedTime(stageID, riderID int) (time.Duration, error) {
	s, _, err := p.lookupResult(stageID, riderID)
	if err != nil {
		return 0, err
	}
	d, ok := p.calc.AdjustedElapsedTime(riderID, s.Results())
	if !ok {
		return 0, noResult(stageID, riderID)
	}
	return d, nil
}

func (p *Processor) RankByElapsedTime(stageID int) (model.Standings[time.Duration], error) {
	return withStage(p, stageID, ranking.ByElapsedTime)
}

func (p *Processor) RankByFinishTime(stageID int) (model.Standings[time.Time], error) {
	return withStage(p, stageID, ranking.ByFinishTime)
}

// RankedAdjustedElapsedTimes returns the stage rank with the adjusted times
func (p *Processor) RankedAdjustedElapsedTimes(stageID int) (
	model.Standings[time.Duration], error,
) {
	return withStage(p, stageID, func(s *model.Stage) model.Standings[time.Duration] {
		return ranking.ByAdjustedElapsedTime(s, p.calc)
	})
}

func (p *Processor) StagePoints(stageID int) (model.Standings[int], error) {
	return withStage(p, stageID, p.allocator.StagePoints)
}

func (p *Processor) StageMountainPoints(stageID int) (model.Standings[int], error) {
	return withStage(p, stageID, p.allocator.StageMountainPoints)
}

func (p *Processor) GeneralClassification(raceID int) (model.Standings[time.Duration], error) {
	return withRace(p, raceID, p.aggregator.GeneralClassification)
}

// PointsClassification reports the point totals in general classification order
func (p *Processor) PointsClassification(raceID int) (model.Standings[int], error) {
	return withRace(p, raceID, p.aggregator.PointsClassification)
}

// MountainClassification reports the KOM totals in general classification order
func (p *Processor) MountainClassification(raceID int) (model.Standings[int], error) {
	return withRace(p, raceID, p.aggregator.MountainClassification)
}

func (p *Processor) PointsClassificationByPoints(raceID int) (model.Standings[int], error) {
	return withRace(p, raceID, p.aggregator.PointsClassificationByPoints)
}

func (p *Processor) MountainClassificationByPoints(raceID int) (model.Standings[int], error) {
	return withRace(p, raceID, p.aggregator.MountainClassificationByPoints)
}

func (p *Processor) lookupStage(stageID int) (*model.Stage, error) {
	if p.stages == nil {
		return nil, fmt.Errorf("stage %d: %w", stageID, model.ErrNoSuchStage)
	}
	s, ok := p.stages.StageByID(stageID)
	if !ok {
		return nil, fmt.Errorf("stage %d: %w", stageID, model.ErrNoSuchStage)
	}
	return s, nil
}

func (p *Processor) lookupRace(raceID int) (*model.Race, error) {
	if p.races == nil {
		return nil, fmt.Errorf("race %d: %w", raceID, model.ErrNoSuchRace)
	}
	r, ok := p.races.RaceByID(raceID)
	if !ok {
		return nil, fmt.Errorf("race %d: %w", raceID, model.ErrNoSuchRace)
	}
	return r, nil
}

func (p *Processor) lookupResult(stageID, riderID int) (*model.Stage, *model.Result, error) {
	s, err := p.lookupStage(stageID)
	if err != nil {
		return nil, nil, err
	}
	res, ok := s.Result(riderID)
	if !ok {
		return nil, nil, noResult(stageID, riderID)
	}
	return s, res, nil
}

func noResult(stageID, riderID int) error {
	return fmt.Errorf("rider %d stage %d: %w", riderID, stageID, model.ErrNoSuchRiderResult)
}

func withStage[V any](
	p *Processor,
	stageID int,
	compute func(s *model.Stage) model.Standings[V],
) (model.Standings[V], error) {
	s, err := p.lookupStage(stageID)
	if err != nil {
		return nil, err
	}
	return compute(s), nil
}

func withRace[V any](
	p *Processor,
	raceID int,
	compute func(r *model.Race) model.Standings[V],
) (model.Standings[V], error) {
	r, err := p.lookupRace(raceID)
	if err != nil {
		return nil, err
	}
	return compute(r), nil
}
