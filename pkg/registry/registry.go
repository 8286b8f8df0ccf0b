package registry

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/elapsed"
)

const (
	maxNameLength  = 30
	minYearOfBirth = 1900
)

var minStageLength = decimal.NewFromInt(5)

// Registry owns teams, riders, races and their stages.
// Access is not synchronized, callers have to serialize it.
type Registry struct {
	ids    IDGenerator
	log    *log.Logger
	teams  []*model.Team
	riders []*model.Rider
	races  []*model.Race
}

type RaceDetails struct {
	ID             int
	Name           string
	Description    string
	NumberOfStages int
	TotalLength    decimal.Decimal
}

type RiderResult struct {
	Checkpoints []time.Time
	Elapsed     time.Duration
}

type Option func(r *Registry)

func WithIDGenerator(g IDGenerator) Option {
	return func(r *Registry) {
		r.ids = g
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

func New(opts ...Option) *Registry {
	ret := &Registry{
		ids: NewCounters(),
		log: log.Default().Named("registry"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.clear()
	return ret
}

func (r *Registry) clear() {
	r.teams = make([]*model.Team, 0)
	r.riders = make([]*model.Rider, 0)
	r.races = make([]*model.Race, 0)
}

// Erase removes all entities and restarts the identifier sequences
func (r *Registry) Erase() {
	r.clear()
	r.ids.Reset()
	r.log.Debug("registry erased")
}

// races

func (r *Registry) CreateRace(name, description string) (int, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}
	if _, ok := lo.Find(r.races, func(item *model.Race) bool { return item.Name == name }); ok {
		return 0, fmt.Errorf("race %q: %w", name, model.ErrIllegalName)
	}
	race := model.NewRace(r.ids.Next(EntityRace), name, description)
	r.races = append(r.races, race)
	r.log.Debug("race created", log.Int("id", race.ID), log.String("name", name))
	return race.ID, nil
}

func (r *Registry) RaceIDs() []int {
	return lo.Map(r.races, func(item *model.Race, _ int) int { return item.ID })
}

// RaceByID implements the race lookup of the processing package
func (r *Registry) RaceByID(id int) (*model.Race, bool) {
	return lo.Find(r.races, func(item *model.Race) bool { return item.ID == id })
}

func (r *Registry) RaceDetails(raceID int) (*RaceDetails, error) {
	race, err := r.race(raceID)
	if err != nil {
		return nil, err
	}
	return &RaceDetails{
		ID:             race.ID,
		Name:           race.Name,
		Description:    race.Description,
		NumberOfStages: race.NumberOfStages(),
		TotalLength:    race.TotalLength(),
	}, nil
}

func (r *Registry) NumberOfStages(raceID int) (int, error) {
	race, err := r.race(raceID)
	if err != nil {
		return 0, err
	}
	return race.NumberOfStages(), nil
}

func (r *Registry) RemoveRace(raceID int) error {
	idx := slices.IndexFunc(r.races, func(item *model.Race) bool { return item.ID == raceID })
	if idx == -1 {
		return fmt.Errorf("race %d: %w", raceID, model.ErrNoSuchRace)
	}
	r.races = slices.Delete(r.races, idx, idx+1)
	return nil
}

func (r *Registry) RemoveRaceByName(name string) error {
	idx := slices.IndexFunc(r.races, func(item *model.Race) bool { return item.Name == name })
	if idx == -1 {
		return fmt.Errorf("race %q: %w", name, model.ErrNoSuchRace)
	}
	r.races = slices.Delete(r.races, idx, idx+1)
	return nil
}

// stages

func (r *Registry) AddStage(
	raceID int,
	name, description string,
	length decimal.Decimal,
	startTime time.Time,
	kind model.StageKind,
) (int, error) {
	race, err := r.race(raceID)
	if err != nil {
		return 0, err
	}
	if err := validateName(name); err != nil {
		return 0, err
	}
	if _, ok := lo.Find(race.Stages(), func(s *model.Stage) bool { return s.Name == name }); ok {
		return 0, fmt.Errorf("stage %q in race %d: %w", name, raceID, model.ErrIllegalName)
	}
	if length.LessThan(minStageLength) {
		return 0, fmt.Errorf("%w: stage needs at least %s km, got %s",
			model.ErrInvalidLength, minStageLength, length)
	}
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidStageKind, kind)
	}
	s := model.NewStage(r.ids.Next(EntityStage), raceID, name, description, length, startTime, kind)
	race.AddStage(s)
	return s.ID, nil
}

// RaceStageIDs returns the stage ids ordered by scheduled start
func (r *Registry) RaceStageIDs(raceID int) ([]int, error) {
	race, err := r.race(raceID)
	if err != nil {
		return nil, err
	}
	return lo.Map(race.Stages(), func(s *model.Stage, _ int) int { return s.ID }), nil
}

// StageByID implements the stage lookup of the processing package
func (r *Registry) StageByID(id int) (*model.Stage, bool) {
	for _, race := range r.races {
		if s, ok := race.Stage(id); ok {
			return s, true
		}
	}
	return nil, false
}

func (r *Registry) StageLength(stageID int) (decimal.Decimal, error) {
	s, err := r.stage(stageID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Length, nil
}

func (r *Registry) RemoveStage(stageID int) error {
	for _, race := range r.races {
		if race.RemoveStage(stageID) {
			return nil
		}
	}
	return fmt.Errorf("stage %d: %w", stageID, model.ErrNoSuchStage)
}

func (r *Registry) AddIntermediateSprint(stageID int, location decimal.Decimal) (int, error) {
	s, err := r.stage(stageID)
	if err != nil {
		return 0, err
	}
	return r.addSegment(s, model.NewIntermediateSprint(0, stageID, location))
}

func (r *Registry) AddCategorizedClimb(
	stageID int,
	location decimal.Decimal,
	category model.ClimbCategory,
	averageGradient, length decimal.Decimal,
) (int, error) {
	s, err := r.stage(stageID)
	if err != nil {
		return 0, err
	}
	return r.addSegment(s,
		model.NewCategorizedClimb(0, stageID, location, category, averageGradient, length))
}

// the id is only consumed if the stage accepts the segment
func (r *Registry) addSegment(s *model.Stage, seg *model.Segment) (int, error) {
	if err := s.AddSegment(seg); err != nil {
		return 0, err
	}
	seg.ID = r.ids.Next(EntitySegment)
	return seg.ID, nil
}

func (r *Registry) RemoveSegment(segmentID int) error {
	for _, race := range r.races {
		for _, s := range race.Stages() {
			if _, ok := s.Segment(segmentID); ok {
				return s.RemoveSegment(segmentID)
			}
		}
	}
	return fmt.Errorf("segment %d: %w", segmentID, model.ErrNoSuchSegment)
}

func (r *Registry) ConcludeStagePreparation(stageID int) error {
	s, err := r.stage(stageID)
	if err != nil {
		return err
	}
	return s.ConcludePreparation()
}

// StageSegmentIDs returns the segment ids ordered by location
func (r *Registry) StageSegmentIDs(stageID int) ([]int, error) {
	s, err := r.stage(stageID)
	if err != nil {
		return nil, err
	}
	return lo.Map(s.Segments(), func(seg *model.Segment, _ int) int { return seg.ID }), nil
}

// teams and riders

func (r *Registry) CreateTeam(name, description string) (int, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}
	if _, ok := lo.Find(r.teams, func(item *model.Team) bool { return item.Name == name }); ok {
		return 0, fmt.Errorf("team %q: %w", name, model.ErrIllegalName)
	}
	team := &model.Team{ID: r.ids.Next(EntityTeam), Name: name, Description: description}
	r.teams = append(r.teams, team)
	return team.ID, nil
}

// RemoveTeam removes the team together with its riders and their results
func (r *Registry) RemoveTeam(teamID int) error {
	idx := slices.IndexFunc(r.teams, func(item *model.Team) bool { return item.ID == teamID })
	if idx == -1 {
		return fmt.Errorf("team %d: %w", teamID, model.ErrNoSuchTeam)
	}
	for _, rider := range r.ridersOf(teamID) {
		if err := r.RemoveRider(rider.ID); err != nil {
			return err
		}
	}
	r.teams = slices.Delete(r.teams, idx, idx+1)
	return nil
}

func (r *Registry) TeamIDs() []int {
	return lo.Map(r.teams, func(item *model.Team, _ int) int { return item.ID })
}

func (r *Registry) TeamRiders(teamID int) ([]int, error) {
	if _, err := r.team(teamID); err != nil {
		return nil, err
	}
	return lo.Map(r.ridersOf(teamID), func(item *model.Rider, _ int) int { return item.ID }), nil
}

func (r *Registry) CreateRider(teamID int, name string, yearOfBirth int) (int, error) {
	if _, err := r.team(teamID); err != nil {
		return 0, err
	}
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: rider name must not be blank", model.ErrInvalidName)
	}
	if yearOfBirth < minYearOfBirth {
		return 0, fmt.Errorf("%w: %d", model.ErrInvalidYearOfBirth, yearOfBirth)
	}
	rider := &model.Rider{
		ID:          r.ids.Next(EntityRider),
		TeamID:      teamID,
		Name:        name,
		YearOfBirth: yearOfBirth,
	}
	r.riders = append(r.riders, rider)
	return rider.ID, nil
}

// RemoveRider removes the rider and every result of the rider
func (r *Registry) RemoveRider(riderID int) error {
	idx := slices.IndexFunc(r.riders, func(item *model.Rider) bool { return item.ID == riderID })
	if idx == -1 {
		return fmt.Errorf("rider %d: %w", riderID, model.ErrNoSuchRider)
	}
	r.riders = slices.Delete(r.riders, idx, idx+1)
	removed := 0
	for _, race := range r.races {
		for _, s := range race.Stages() {
			if s.RemoveRiderResults(riderID) {
				removed++
			}
		}
	}
	r.log.Debug("rider removed", log.Int("rider", riderID), log.Int("results", removed))
	return nil
}

func (r *Registry) RiderByID(riderID int) (*model.Rider, bool) {
	return lo.Find(r.riders, func(item *model.Rider) bool { return item.ID == riderID })
}

// results

func (r *Registry) RegisterResult(stageID, riderID int, checkpoints ...time.Time) error {
	s, err := r.stage(stageID)
	if err != nil {
		return err
	}
	if _, ok := r.RiderByID(riderID); !ok {
		return fmt.Errorf("rider %d: %w", riderID, model.ErrNoSuchRider)
	}
	return s.RegisterResult(model.NewResult(stageID, riderID, checkpoints...))
}

// RiderResults returns the registered checkpoints of the rider together
// with the unadjusted elapsed time
func (r *Registry) RiderResults(stageID, riderID int) (*RiderResult, error) {
	s, err := r.stage(stageID)
	if err != nil {
		return nil, err
	}
	res, ok := s.Result(riderID)
	if !ok {
		return nil, fmt.Errorf("rider %d stage %d: %w", riderID, stageID, model.ErrNoSuchRiderResult)
	}
	return &RiderResult{
		Checkpoints: slices.Clone(res.Checkpoints),
		Elapsed:     elapsed.ElapsedTime(res),
	}, nil
}

func (r *Registry) DeleteRiderResults(stageID, riderID int) error {
	s, err := r.stage(stageID)
	if err != nil {
		return err
	}
	return s.DeleteResult(riderID)
}

func (r *Registry) race(raceID int) (*model.Race, error) {
	race, ok := r.RaceByID(raceID)
	if !ok {
		return nil, fmt.Errorf("race %d: %w", raceID, model.ErrNoSuchRace)
	}
	return race, nil
}

func (r *Registry) stage(stageID int) (*model.Stage, error) {
	s, ok := r.StageByID(stageID)
	if !ok {
		return nil, fmt.Errorf("stage %d: %w", stageID, model.ErrNoSuchStage)
	}
	return s, nil
}

func (r *Registry) team(teamID int) (*model.Team, error) {
	team, ok := lo.Find(r.teams, func(item *model.Team) bool { return item.ID == teamID })
	if !ok {
		return nil, fmt.Errorf("team %d: %w", teamID, model.ErrNoSuchTeam)
	}
	return team, nil
}

func (r *Registry) ridersOf(teamID int) []*model.Rider {
	return lo.Filter(r.riders, func(item *model.Rider, _ int) bool { return item.TeamID == teamID })
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name must not be empty", model.ErrInvalidName)
	case utf8.RuneCountInString(name) > maxNameLength:
		return fmt.Errorf("%w: %q exceeds %d characters", model.ErrInvalidName, name, maxNameLength)
	case strings.ContainsFunc(name, unicode.IsSpace):
		return fmt.Errorf("%w: %q contains whitespace", model.ErrInvalidName, name)
	}
	return nil
}
