//nolint:funlen // ok for tests
package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
)

var base = time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC)

func km(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(d int) time.Time { return time.Date(2024, 7, d, 12, 0, 0, 0, time.UTC) }

type fixture struct {
	reg     *Registry
	raceID  int
	stageID int
	teamID  int
	riders  []int
}

// one race with a flat stage containing a sprint, a team with two riders
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{reg: New()}
	var err error
	f.raceID, err = f.reg.CreateRace("tour", "")
	require.NoError(t, err)
	f.stageID, err = f.reg.AddStage(f.raceID, "stage-1", "", km(150), day(1), model.StageFlat)
	require.NoError(t, err)
	_, err = f.reg.AddIntermediateSprint(f.stageID, km(80))
	require.NoError(t, err)
	f.teamID, err = f.reg.CreateTeam("blue", "")
	require.NoError(t, err)
	for _, name := range []string{"Anna Alpha", "Bert Beta"} {
		id, err := f.reg.CreateRider(f.teamID, name, 1995)
		require.NoError(t, err)
		f.riders = append(f.riders, id)
	}
	return f
}

func TestCreateRace(t *testing.T) {
	reg := New()
	id, err := reg.CreateRace("tour", "three weeks")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = reg.CreateRace("tour", "")
	assert.ErrorIs(t, err, model.ErrIllegalName)

	for _, name := range []string{"", "with space", "tab\tname", strings.Repeat("x", 31)} {
		_, err = reg.CreateRace(name, "")
		assert.ErrorIs(t, err, model.ErrInvalidName, "name %q", name)
	}
	id, err = reg.CreateRace(strings.Repeat("x", 30), "")
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.Equal(t, []int{1, 2}, reg.RaceIDs())

	details, err := reg.RaceDetails(1)
	require.NoError(t, err)
	assert.Equal(t, "three weeks", details.Description)
	assert.Equal(t, 0, details.NumberOfStages)
}

func TestRemoveRace(t *testing.T) {
	f := newFixture(t)
	other, err := f.reg.CreateRace("giro", "")
	require.NoError(t, err)

	require.NoError(t, f.reg.RemoveRaceByName("giro"))
	assert.ErrorIs(t, f.reg.RemoveRaceByName("giro"), model.ErrNoSuchRace)
	assert.ErrorIs(t, f.reg.RemoveRace(other), model.ErrNoSuchRace)

	require.NoError(t, f.reg.RemoveRace(f.raceID))
	_, ok := f.reg.StageByID(f.stageID)
	assert.False(t, ok)
	assert.Empty(t, f.reg.RaceIDs())
}

func TestAddStage(t *testing.T) {
	f := newFixture(t)
	_, err := f.reg.AddStage(99, "x", "", km(100), day(2), model.StageFlat)
	assert.ErrorIs(t, err, model.ErrNoSuchRace)
	_, err = f.reg.AddStage(f.raceID, "stage-1", "", km(100), day(2), model.StageFlat)
	assert.ErrorIs(t, err, model.ErrIllegalName)
	_, err = f.reg.AddStage(f.raceID, "short", "", decimal.NewFromFloat(4.9), day(2), model.StageFlat)
	assert.ErrorIs(t, err, model.ErrInvalidLength)
	_, err = f.reg.AddStage(f.raceID, "odd", "", km(100), day(2), model.StageKind("cobbles"))
	assert.ErrorIs(t, err, model.ErrInvalidStageKind)

	prologue, err := f.reg.AddStage(f.raceID, "prologue", "", km(5), day(0), model.StageTimeTrial)
	require.NoError(t, err)
	ids, err := f.reg.RaceStageIDs(f.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{prologue, f.stageID}, ids)

	n, err := f.reg.NumberOfStages(f.raceID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	details, err := f.reg.RaceDetails(f.raceID)
	require.NoError(t, err)
	assert.True(t, km(155).Equal(details.TotalLength))

	length, err := f.reg.StageLength(prologue)
	require.NoError(t, err)
	assert.True(t, km(5).Equal(length))

	require.NoError(t, f.reg.RemoveStage(prologue))
	assert.ErrorIs(t, f.reg.RemoveStage(prologue), model.ErrNoSuchStage)
	_, err = f.reg.StageLength(prologue)
	assert.ErrorIs(t, err, model.ErrNoSuchStage)
}

func TestSegments(t *testing.T) {
	f := newFixture(t)
	climb, err := f.reg.AddCategorizedClimb(f.stageID, km(40), model.ClimbC2,
		decimal.NewFromFloat(6.5), km(8))
	require.NoError(t, err)

	ids, err := f.reg.StageSegmentIDs(f.stageID)
	require.NoError(t, err)
	assert.Equal(t, []int{climb, 1}, ids, "ordered by location")

	_, err = f.reg.AddIntermediateSprint(f.stageID, km(150))
	assert.ErrorIs(t, err, model.ErrInvalidLocation)
	_, err = f.reg.AddCategorizedClimb(f.stageID, km(10), model.ClimbCategory("C9"),
		decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, model.ErrInvalidClimbCategory)

	// rejected segments do not consume ids
	sprint, err := f.reg.AddIntermediateSprint(f.stageID, km(120))
	require.NoError(t, err)
	assert.Equal(t, 3, sprint)

	require.NoError(t, f.reg.RemoveSegment(sprint))
	assert.ErrorIs(t, f.reg.RemoveSegment(sprint), model.ErrNoSuchSegment)

	require.NoError(t, f.reg.ConcludeStagePreparation(f.stageID))
	assert.ErrorIs(t, f.reg.ConcludeStagePreparation(f.stageID), model.ErrStageNotPreparing)
	err = f.reg.RemoveSegment(climb)
	assert.ErrorIs(t, err, model.ErrStageNotPreparing)
	assert.ErrorIs(t, err, model.ErrStageNotCollecting)
	_, err = f.reg.AddIntermediateSprint(f.stageID, km(10))
	assert.ErrorIs(t, err, model.ErrStageNotPreparing)
	assert.ErrorIs(t, err, model.ErrStageNotCollecting)

	tt, err := f.reg.AddStage(f.raceID, "itt", "", km(30), day(2), model.StageTimeTrial)
	require.NoError(t, err)
	_, err = f.reg.AddIntermediateSprint(tt, km(10))
	assert.ErrorIs(t, err, model.ErrSegmentNotAllowedOnTimeTrial)
	_, err = f.reg.StageSegmentIDs(99)
	assert.ErrorIs(t, err, model.ErrNoSuchStage)
}

func TestTeamsAndRiders(t *testing.T) {
	f := newFixture(t)
	_, err := f.reg.CreateTeam("blue", "")
	assert.ErrorIs(t, err, model.ErrIllegalName)
	_, err = f.reg.CreateTeam("", "")
	assert.ErrorIs(t, err, model.ErrInvalidName)

	_, err = f.reg.CreateRider(99, "Carl", 1990)
	assert.ErrorIs(t, err, model.ErrNoSuchTeam)
	_, err = f.reg.CreateRider(f.teamID, "  ", 1990)
	assert.ErrorIs(t, err, model.ErrInvalidName)
	_, err = f.reg.CreateRider(f.teamID, "Carl", 1899)
	assert.ErrorIs(t, err, model.ErrInvalidYearOfBirth)

	riders, err := f.reg.TeamRiders(f.teamID)
	require.NoError(t, err)
	assert.Equal(t, f.riders, riders)
	assert.Equal(t, []int{f.teamID}, f.reg.TeamIDs())
	_, err = f.reg.TeamRiders(99)
	assert.ErrorIs(t, err, model.ErrNoSuchTeam)
}

func TestResults(t *testing.T) {
	f := newFixture(t)
	a := f.riders[0]
	cps := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}

	assert.ErrorIs(t, f.reg.RegisterResult(f.stageID, a, cps...), model.ErrStageNotCollecting)
	require.NoError(t, f.reg.ConcludeStagePreparation(f.stageID))

	assert.ErrorIs(t, f.reg.RegisterResult(99, a, cps...), model.ErrNoSuchStage)
	assert.ErrorIs(t, f.reg.RegisterResult(f.stageID, 99, cps...), model.ErrNoSuchRider)
	assert.ErrorIs(t, f.reg.RegisterResult(f.stageID, a, cps[:2]...), model.ErrWrongCheckpointCount)
	require.NoError(t, f.reg.RegisterResult(f.stageID, a, cps...))
	assert.ErrorIs(t, f.reg.RegisterResult(f.stageID, a, cps...), model.ErrDuplicateResult)

	res, err := f.reg.RiderResults(f.stageID, a)
	require.NoError(t, err)
	assert.Equal(t, cps, res.Checkpoints)
	assert.Equal(t, 2*time.Hour, res.Elapsed)

	_, err = f.reg.RiderResults(f.stageID, f.riders[1])
	assert.ErrorIs(t, err, model.ErrNoSuchRiderResult)

	require.NoError(t, f.reg.DeleteRiderResults(f.stageID, a))
	assert.ErrorIs(t, f.reg.DeleteRiderResults(f.stageID, a), model.ErrNoSuchRiderResult)
	assert.ErrorIs(t, f.reg.DeleteRiderResults(99, a), model.ErrNoSuchStage)
}

func TestRemoveRiderCascades(t *testing.T) {
	f := newFixture(t)
	a, b := f.riders[0], f.riders[1]
	require.NoError(t, f.reg.ConcludeStagePreparation(f.stageID))
	for _, id := range f.riders {
		require.NoError(t, f.reg.RegisterResult(f.stageID, id,
			base, base.Add(time.Hour), base.Add(2*time.Hour)))
	}
	require.NoError(t, f.reg.RemoveRider(a))
	assert.ErrorIs(t, f.reg.RemoveRider(a), model.ErrNoSuchRider)

	s, ok := f.reg.StageByID(f.stageID)
	require.True(t, ok)
	assert.Equal(t, 1, s.NumberOfResults())
	_, ok = s.Result(a)
	assert.False(t, ok)

	require.NoError(t, f.reg.RemoveTeam(f.teamID))
	assert.ErrorIs(t, f.reg.RemoveTeam(f.teamID), model.ErrNoSuchTeam)
	_, ok = f.reg.RiderByID(b)
	assert.False(t, ok)
	assert.Zero(t, s.NumberOfResults())
}

func TestErase(t *testing.T) {
	f := newFixture(t)
	f.reg.Erase()
	assert.Empty(t, f.reg.RaceIDs())
	assert.Empty(t, f.reg.TeamIDs())

	id, err := f.reg.CreateRace("tour", "")
	require.NoError(t, err)
	assert.Equal(t, 1, id, "ids restart after erase")
}

type fixedIDs struct{ next int }

func (g *fixedIDs) Next(Entity) int  { g.next += 10; return g.next }
func (g *fixedIDs) Seen(Entity, int) {}
func (g *fixedIDs) Reset()           { g.next = 0 }

func TestWithIDGenerator(t *testing.T) {
	reg := New(WithIDGenerator(&fixedIDs{}))
	race, err := reg.CreateRace("tour", "")
	require.NoError(t, err)
	team, err := reg.CreateTeam("blue", "")
	require.NoError(t, err)
	assert.Equal(t, 10, race)
	assert.Equal(t, 20, team)
}
