package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Stage owns its segments and results. Segments may only be changed while
// the stage is in preparation, results may only be registered once the
// preparation is concluded.
type Stage struct {
	ID          int
	RaceID      int
	Name        string
	Description string
	Length      decimal.Decimal // km
	StartTime   time.Time
	Kind        StageKind

	state    StageState
	segments []*Segment
	results  []*Result
}

func NewStage(
	id, raceID int,
	name, description string,
	length decimal.Decimal,
	startTime time.Time,
	kind StageKind,
) *Stage {
	return &Stage{
		ID:          id,
		RaceID:      raceID,
		Name:        name,
		Description: description,
		Length:      length,
		StartTime:   startTime,
		Kind:        kind,
		state:       StatePreparing,
		segments:    make([]*Segment, 0),
		results:     make([]*Result, 0),
	}
}

func (s *Stage) State() StageState {
	return s.state
}

func (s *Stage) IsTimeTrial() bool {
	return s.Kind == StageTimeTrial
}

func (s *Stage) AddSegment(seg *Segment) error {
	if err := s.checkSegmentsMutable(); err != nil {
		return err
	}
	if s.IsTimeTrial() {
		return fmt.Errorf("stage %d: %w", s.ID, ErrSegmentNotAllowedOnTimeTrial)
	}
	if !seg.Location.IsPositive() || !seg.Location.LessThan(s.Length) {
		return fmt.Errorf("%w: %s km (stage %d has %s km)",
			ErrInvalidLocation, seg.Location, s.ID, s.Length)
	}
	if seg.IsClimb() && !seg.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidClimbCategory, seg.Category)
	}
	seg.StageID = s.ID
	s.segments = append(s.segments, seg)
	return nil
}

func (s *Stage) RemoveSegment(segmentID int) error {
	if err := s.checkSegmentsMutable(); err != nil {
		return err
	}
	idx := slices.IndexFunc(s.segments, func(seg *Segment) bool { return seg.ID == segmentID })
	if idx == -1 {
		return fmt.Errorf("segment %d: %w", segmentID, ErrNoSuchSegment)
	}
	s.segments = slices.Delete(s.segments, idx, idx+1)
	return nil
}

// segments are frozen once results are collected. The error matches both
// ErrStageNotPreparing and ErrStageNotCollecting.
func (s *Stage) checkSegmentsMutable() error {
	if s.state != StatePreparing {
		return fmt.Errorf("stage %d: %w: %w", s.ID, ErrStageNotPreparing, ErrStageNotCollecting)
	}
	return nil
}

func (s *Stage) Segment(segmentID int) (*Segment, bool) {
	return lo.Find(s.segments, func(seg *Segment) bool { return seg.ID == segmentID })
}

// Segments returns the segments ordered by their location
func (s *Stage) Segments() []*Segment {
	ret := slices.Clone(s.segments)
	slices.SortStableFunc(ret, func(a, b *Segment) int {
		return a.Location.Cmp(b.Location)
	})
	return ret
}

// CheckpointCount is the number of checkpoints a result must provide
func (s *Stage) CheckpointCount() int {
	return len(s.segments) + 2
}

// ConcludePreparation moves the stage to collecting results. There is no
// way back.
func (s *Stage) ConcludePreparation() error {
	if s.state != StatePreparing {
		return fmt.Errorf("stage %d: %w", s.ID, ErrStageNotPreparing)
	}
	s.state = StateCollectingResults
	return nil
}

func (s *Stage) RegisterResult(r *Result) error {
	if s.state != StateCollectingResults {
		return fmt.Errorf("stage %d: %w", s.ID, ErrStageNotCollecting)
	}
	if lo.ContainsBy(s.results, func(item *Result) bool { return item.RiderID == r.RiderID }) {
		return fmt.Errorf("rider %d stage %d: %w", r.RiderID, s.ID, ErrDuplicateResult)
	}
	if len(r.Checkpoints) != s.CheckpointCount() {
		return fmt.Errorf("%w: got %d, stage %d expects %d",
			ErrWrongCheckpointCount, len(r.Checkpoints), s.ID, s.CheckpointCount())
	}
	for i := 1; i < len(r.Checkpoints); i++ {
		if r.Checkpoints[i].Before(r.Checkpoints[i-1]) {
			return fmt.Errorf("rider %d checkpoint %d: %w", r.RiderID, i, ErrInvalidCheckpoints)
		}
	}
	s.results = append(s.results, NewResult(s.ID, r.RiderID, r.Checkpoints...))
	return nil
}

// Result returns a copy of the rider's result
func (s *Stage) Result(riderID int) (*Result, bool) {
	r, ok := lo.Find(s.results, func(r *Result) bool { return r.RiderID == riderID })
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Results returns copies of the results in registration order
func (s *Stage) Results() []*Result {
	return lo.Map(s.results, func(r *Result, _ int) *Result { return r.Clone() })
}

func (s *Stage) NumberOfResults() int {
	return len(s.results)
}

func (s *Stage) DeleteResult(riderID int) error {
	if !s.RemoveRiderResults(riderID) {
		return fmt.Errorf("rider %d stage %d: %w", riderID, s.ID, ErrNoSuchRiderResult)
	}
	return nil
}

// RemoveRiderResults drops the result of the rider, reports whether one existed
func (s *Stage) RemoveRiderResults(riderID int) bool {
	before := len(s.results)
	s.results = slices.DeleteFunc(s.results, func(r *Result) bool { return r.RiderID == riderID })
	return len(s.results) != before
}
