// Package racefile reads the YAML description of a stage race and feeds it
// into a registry.
package racefile

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/registry"
)

// CheckpointLayout is the time of day layout of checkpoint values. Stages
// passing midnight use DatedCheckpointLayout instead.
const (
	CheckpointLayout      = "15:04:05.000"
	DatedCheckpointLayout = time.RFC3339Nano
)

type (
	File struct {
		Teams []Team `yaml:"teams"`
		Race  Race   `yaml:"race"`
	}
	Team struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Riders      []Rider `yaml:"riders"`
	}
	Rider struct {
		Name        string `yaml:"name"`
		YearOfBirth int    `yaml:"yearOfBirth"`
	}
	Race struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Stages      []Stage `yaml:"stages"`
	}
	Stage struct {
		Name        string    `yaml:"name"`
		Description string    `yaml:"description"`
		Length      string    `yaml:"length"` // km
		Start       time.Time `yaml:"start"`
		Kind        string    `yaml:"kind"`
		Segments    []Segment `yaml:"segments"`
		// concludes the preparation even if no results are listed
		Concluded bool     `yaml:"concluded"`
		Results   []Result `yaml:"results"`
	}
	Segment struct {
		Kind     string `yaml:"kind"` // sprint or climb
		Location string `yaml:"location"`
		Category string `yaml:"category"`
		Gradient string `yaml:"gradient"`
		Length   string `yaml:"length"`
	}
	Result struct {
		Rider       string   `yaml:"rider"`
		Checkpoints []string `yaml:"checkpoints"`
	}
)

// Applied maps the names of the race file to the registry ids
type Applied struct {
	RaceID   int
	StageIDs []int
	Riders   map[string]int
}

func Parse(r io.Reader) (*File, error) {
	var ret File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ret); err != nil {
		return nil, fmt.Errorf("parse race file: %w", err)
	}
	return &ret, nil
}

// Apply creates teams, riders, the race and its stages in the order of the
// file. Rider names must be unique within the file.
func (f *File) Apply(reg *registry.Registry) (*Applied, error) {
	ret := &Applied{Riders: map[string]int{}}
	for i := range f.Teams {
		if err := f.applyTeam(reg, &f.Teams[i], ret); err != nil {
			return nil, err
		}
	}
	raceID, err := reg.CreateRace(f.Race.Name, f.Race.Description)
	if err != nil {
		return nil, err
	}
	ret.RaceID = raceID
	for i := range f.Race.Stages {
		stageID, err := applyStage(reg, raceID, &f.Race.Stages[i], ret.Riders)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", f.Race.Stages[i].Name, err)
		}
		ret.StageIDs = append(ret.StageIDs, stageID)
	}
	return ret, nil
}

func (f *File) applyTeam(reg *registry.Registry, t *Team, applied *Applied) error {
	teamID, err := reg.CreateTeam(t.Name, t.Description)
	if err != nil {
		return err
	}
	for _, r := range t.Riders {
		if _, ok := applied.Riders[r.Name]; ok {
			return fmt.Errorf("rider %q: %w", r.Name, model.ErrIllegalName)
		}
		riderID, err := reg.CreateRider(teamID, r.Name, r.YearOfBirth)
		if err != nil {
			return err
		}
		applied.Riders[r.Name] = riderID
	}
	return nil
}

func applyStage(
	reg *registry.Registry,
	raceID int,
	s *Stage,
	riders map[string]int,
) (int, error) {
	length, err := parseDecimal(s.Length, "length")
	if err != nil {
		return 0, err
	}
	kind, err := model.ParseStageKind(s.Kind)
	if err != nil {
		return 0, err
	}
	stageID, err := reg.AddStage(raceID, s.Name, s.Description, length, s.Start, kind)
	if err != nil {
		return 0, err
	}
	for i := range s.Segments {
		if err := applySegment(reg, stageID, &s.Segments[i]); err != nil {
			return 0, fmt.Errorf("segment %d: %w", i+1, err)
		}
	}
	if !s.Concluded && len(s.Results) == 0 {
		return stageID, nil
	}
	if err := reg.ConcludeStagePreparation(stageID); err != nil {
		return 0, err
	}
	for _, res := range s.Results {
		riderID, ok := riders[res.Rider]
		if !ok {
			return 0, fmt.Errorf("rider %q: %w", res.Rider, model.ErrNoSuchRider)
		}
		checkpoints, err := ParseCheckpoints(res.Checkpoints)
		if err != nil {
			return 0, fmt.Errorf("rider %q: %w", res.Rider, err)
		}
		if err := reg.RegisterResult(stageID, riderID, checkpoints...); err != nil {
			return 0, err
		}
	}
	return stageID, nil
}

func applySegment(reg *registry.Registry, stageID int, seg *Segment) error {
	location, err := parseDecimal(seg.Location, "location")
	if err != nil {
		return err
	}
	switch model.SegmentKind(seg.Kind) {
	case model.SegmentSprint:
		_, err = reg.AddIntermediateSprint(stageID, location)
		return err
	case model.SegmentClimb:
		category, err := model.ParseClimbCategory(seg.Category)
		if err != nil {
			return err
		}
		gradient, err := parseOptionalDecimal(seg.Gradient, "gradient")
		if err != nil {
			return err
		}
		length, err := parseOptionalDecimal(seg.Length, "length")
		if err != nil {
			return err
		}
		_, err = reg.AddCategorizedClimb(stageID, location, category, gradient, length)
		return err
	default:
		return fmt.Errorf("unknown segment kind %q", seg.Kind)
	}
}

// ParseCheckpoints converts values in CheckpointLayout or
// DatedCheckpointLayout. All values of one result must use the same layout.
func ParseCheckpoints(values []string) ([]time.Time, error) {
	ret := make([]time.Time, 0, len(values))
	layout := ""
	for i, v := range values {
		t, l, err := parseCheckpoint(v)
		if err != nil {
			return nil, fmt.Errorf("%w: checkpoint %d: %w", model.ErrInvalidCheckpoints, i+1, err)
		}
		if layout != "" && l != layout {
			return nil, fmt.Errorf("%w: checkpoint %d: mixed time of day and dated values",
				model.ErrInvalidCheckpoints, i+1)
		}
		layout = l
		ret = append(ret, t)
	}
	return ret, nil
}

func parseCheckpoint(v string) (time.Time, string, error) {
	if t, err := time.Parse(CheckpointLayout, v); err == nil {
		return t, CheckpointLayout, nil
	}
	t, err := time.Parse(DatedCheckpointLayout, v)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%q matches neither %s nor %s",
			v, CheckpointLayout, DatedCheckpointLayout)
	}
	return t, DatedCheckpointLayout, nil
}

func parseDecimal(v, attr string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", attr, v, err)
	}
	return d, nil
}

func parseOptionalDecimal(v, attr string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(v, attr)
}
