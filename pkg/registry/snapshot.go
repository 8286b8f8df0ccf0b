package registry

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/utils"
	"github.com/mpapenbr/stagerace-classification-go/version"
)

type (
	// Snapshot is the serializable state of a Registry
	Snapshot struct {
		Version  string         `json:"version"`
		Teams    []*model.Team  `json:"teams"`
		Riders   []*model.Rider `json:"riders"`
		Races    []RaceData     `json:"races"`
		Counters map[Entity]int `json:"counters"`
	}
	RaceData struct {
		ID          int         `json:"id"`
		Name        string      `json:"name"`
		Description string      `json:"description"`
		Stages      []StageData `json:"stages"`
	}
	StageData struct {
		ID          int              `json:"id"`
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Length      decimal.Decimal  `json:"length"`
		StartTime   time.Time        `json:"startTime"`
		Kind        model.StageKind  `json:"kind"`
		State       model.StageState `json:"state"`
		Segments    []*model.Segment `json:"segments"`
		Results     []*model.Result  `json:"results"`
	}
)

// Snapshot captures the current state. The returned value shares no
// memory with the registry.
func (r *Registry) Snapshot() *Snapshot {
	ret := &Snapshot{
		Version: version.Version,
		Teams: lo.Map(r.teams, func(item *model.Team, _ int) *model.Team {
			t := *item
			return &t
		}),
		Riders: lo.Map(r.riders, func(item *model.Rider, _ int) *model.Rider {
			rider := *item
			return &rider
		}),
		Races:    lo.Map(r.races, func(item *model.Race, _ int) RaceData { return raceData(item) }),
		Counters: map[Entity]int{},
	}
	for _, e := range entities {
		ret.Counters[e] = r.highestID(e)
	}
	return ret
}

// Restore replaces the registry content with the snapshot. On error the
// registry is left empty.
func (r *Registry) Restore(snap *Snapshot) error {
	if err := utils.CheckSnapshotVersion(snap.Version, version.Version); err != nil {
		return err
	}
	r.Erase()
	if err := r.restore(snap); err != nil {
		r.Erase()
		return fmt.Errorf("%w: %w", model.ErrIncompatibleSnapshot, err)
	}
	r.log.Debug("registry restored",
		log.String("version", snap.Version),
		log.Int("races", len(r.races)),
		log.Int("teams", len(r.teams)))
	return nil
}

func (r *Registry) restore(snap *Snapshot) error {
	for _, t := range snap.Teams {
		team := *t
		r.teams = append(r.teams, &team)
		r.ids.Seen(EntityTeam, team.ID)
	}
	for _, item := range snap.Riders {
		if _, err := r.team(item.TeamID); err != nil {
			return err
		}
		rider := *item
		r.riders = append(r.riders, &rider)
		r.ids.Seen(EntityRider, rider.ID)
	}
	for i := range snap.Races {
		race, err := r.restoreRace(&snap.Races[i])
		if err != nil {
			return err
		}
		r.races = append(r.races, race)
	}
	for e, id := range snap.Counters {
		r.ids.Seen(e, id)
	}
	return nil
}

func (r *Registry) restoreRace(data *RaceData) (*model.Race, error) {
	race := model.NewRace(data.ID, data.Name, data.Description)
	r.ids.Seen(EntityRace, data.ID)
	for i := range data.Stages {
		sd := &data.Stages[i]
		s := model.NewStage(sd.ID, data.ID, sd.Name, sd.Description, sd.Length, sd.StartTime, sd.Kind)
		r.ids.Seen(EntityStage, sd.ID)
		for _, seg := range sd.Segments {
			cp := *seg
			if err := s.AddSegment(&cp); err != nil {
				return nil, err
			}
			r.ids.Seen(EntitySegment, cp.ID)
		}
		if sd.State == model.StateCollectingResults {
			if err := s.ConcludePreparation(); err != nil {
				return nil, err
			}
		}
		for _, res := range sd.Results {
			if _, ok := r.RiderByID(res.RiderID); !ok {
				return nil, fmt.Errorf("rider %d: %w", res.RiderID, model.ErrNoSuchRider)
			}
			if err := s.RegisterResult(model.NewResult(sd.ID, res.RiderID, res.Checkpoints...)); err != nil {
				return nil, err
			}
		}
		race.AddStage(s)
	}
	return race, nil
}

func raceData(race *model.Race) RaceData {
	return RaceData{
		ID:          race.ID,
		Name:        race.Name,
		Description: race.Description,
		Stages: lo.Map(race.Stages(), func(s *model.Stage, _ int) StageData {
			return StageData{
				ID:          s.ID,
				Name:        s.Name,
				Description: s.Description,
				Length:      s.Length,
				StartTime:   s.StartTime,
				Kind:        s.Kind,
				State:       s.State(),
				Segments: lo.Map(s.Segments(), func(seg *model.Segment, _ int) *model.Segment {
					cp := *seg
					return &cp
				}),
				Results: lo.Map(s.Results(), func(res *model.Result, _ int) *model.Result {
					return model.NewResult(res.StageID, res.RiderID, res.Checkpoints...)
				}),
			}
		}),
	}
}

// highestID reports the last id handed out for e. Only known for Counters,
// other generators keep track of their own state.
func (r *Registry) highestID(e Entity) int {
	if c, ok := r.ids.(Counters); ok {
		return c[e]
	}
	return 0
}
