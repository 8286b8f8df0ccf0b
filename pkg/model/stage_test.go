//nolint:funlen // ok for tests
package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleStart = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func km(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func ts(h, m, s int) time.Time {
	return time.Date(0, 1, 1, h, m, s, 0, time.UTC)
}

func sampleStage(kind StageKind) *Stage {
	return NewStage(1, 1, "stage1", "", km(150), sampleStart, kind)
}

func TestStage_AddSegment(t *testing.T) {
	tests := []struct {
		name    string
		kind    StageKind
		prepare func(t *testing.T, s *Stage)
		seg     *Segment
		wantErr error
	}{
		{
			name: "sprint on flat stage",
			kind: StageFlat,
			seg:  NewIntermediateSprint(1, 0, km(80)),
		},
		{
			name: "climb on mountain stage",
			kind: StageHighMountain,
			seg:  NewCategorizedClimb(1, 0, km(120), ClimbHC, km(7.5), km(12)),
		},
		{
			name:    "time trial",
			kind:    StageTimeTrial,
			seg:     NewIntermediateSprint(1, 0, km(20)),
			wantErr: ErrSegmentNotAllowedOnTimeTrial,
		},
		{
			name:    "location at finish",
			kind:    StageFlat,
			seg:     NewIntermediateSprint(1, 0, km(150)),
			wantErr: ErrInvalidLocation,
		},
		{
			name:    "location at start",
			kind:    StageFlat,
			seg:     NewIntermediateSprint(1, 0, km(0)),
			wantErr: ErrInvalidLocation,
		},
		{
			name:    "unknown climb category",
			kind:    StageFlat,
			seg:     NewCategorizedClimb(1, 0, km(10), ClimbCategory("C9"), km(1), km(1)),
			wantErr: ErrInvalidClimbCategory,
		},
		{
			name:    "preparation concluded",
			kind:    StageFlat,
			prepare: func(t *testing.T, s *Stage) { require.NoError(t, s.ConcludePreparation()) },
			seg:     NewIntermediateSprint(1, 0, km(80)),
			wantErr: ErrStageNotPreparing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleStage(tt.kind)
			if tt.prepare != nil {
				tt.prepare(t, s)
			}
			err := s.AddSegment(tt.seg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErr == ErrStageNotPreparing {
					assert.ErrorIs(t, err, ErrStageNotCollecting)
				}
				assert.Empty(t, s.Segments())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []*Segment{tt.seg}, s.Segments())
			assert.Equal(t, s.ID, tt.seg.StageID)
		})
	}
}

func TestStage_SegmentsOrderedByLocation(t *testing.T) {
	s := sampleStage(StageMediumMountain)
	require.NoError(t, s.AddSegment(NewCategorizedClimb(1, 0, km(100), ClimbC2, km(5), km(4))))
	require.NoError(t, s.AddSegment(NewIntermediateSprint(2, 0, km(40))))
	require.NoError(t, s.AddSegment(NewCategorizedClimb(3, 0, km(70.5), ClimbC4, km(3), km(2))))

	ids := []int{}
	for _, seg := range s.Segments() {
		ids = append(ids, seg.ID)
	}
	assert.Equal(t, []int{2, 3, 1}, ids)
	assert.Equal(t, 5, s.CheckpointCount())
}

func TestStage_RemoveSegment(t *testing.T) {
	s := sampleStage(StageFlat)
	require.NoError(t, s.AddSegment(NewIntermediateSprint(1, 0, km(40))))

	assert.ErrorIs(t, s.RemoveSegment(2), ErrNoSuchSegment)
	require.NoError(t, s.RemoveSegment(1))
	assert.Empty(t, s.Segments())

	require.NoError(t, s.AddSegment(NewIntermediateSprint(3, 0, km(40))))
	require.NoError(t, s.ConcludePreparation())
	err := s.RemoveSegment(3)
	assert.ErrorIs(t, err, ErrStageNotPreparing)
	assert.ErrorIs(t, err, ErrStageNotCollecting)
	assert.Len(t, s.Segments(), 1)
}

func TestStage_ConcludePreparationIsOneWay(t *testing.T) {
	s := sampleStage(StageFlat)
	assert.Equal(t, StatePreparing, s.State())
	require.NoError(t, s.ConcludePreparation())
	assert.Equal(t, StateCollectingResults, s.State())
	assert.ErrorIs(t, s.ConcludePreparation(), ErrStageNotPreparing)
}

func TestStage_RegisterResult(t *testing.T) {
	s := sampleStage(StageFlat)
	require.NoError(t, s.AddSegment(NewIntermediateSprint(1, 0, km(40))))

	// still preparing
	err := s.RegisterResult(NewResult(0, 1, ts(12, 0, 0), ts(13, 0, 0), ts(14, 0, 0)))
	assert.ErrorIs(t, err, ErrStageNotCollecting)

	require.NoError(t, s.ConcludePreparation())

	err = s.RegisterResult(NewResult(0, 1, ts(12, 0, 0), ts(14, 0, 0)))
	assert.ErrorIs(t, err, ErrWrongCheckpointCount)

	err = s.RegisterResult(NewResult(0, 1, ts(12, 0, 0), ts(11, 0, 0), ts(14, 0, 0)))
	assert.ErrorIs(t, err, ErrInvalidCheckpoints)

	require.NoError(t, s.RegisterResult(NewResult(0, 1, ts(12, 0, 0), ts(13, 0, 0), ts(14, 0, 0))))
	err = s.RegisterResult(NewResult(0, 1, ts(12, 0, 0), ts(13, 0, 0), ts(14, 0, 0)))
	assert.ErrorIs(t, err, ErrDuplicateResult)

	got, ok := s.Result(1)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.StageID)
	assert.Equal(t, ts(12, 0, 0), got.Start())
	assert.Equal(t, ts(13, 0, 0), got.SegmentTime(0))
	assert.Equal(t, ts(14, 0, 0), got.Finish())
	assert.Equal(t, 1, s.NumberOfResults())
}

func TestStage_ResultsAreDetached(t *testing.T) {
	s := sampleStage(StageFlat)
	require.NoError(t, s.ConcludePreparation())
	registered := NewResult(0, 1, ts(12, 0, 0), ts(14, 0, 0))
	require.NoError(t, s.RegisterResult(registered))

	registered.Checkpoints[1] = ts(11, 0, 0)
	registered.RiderID = 2

	got, ok := s.Result(1)
	require.True(t, ok)
	assert.Equal(t, ts(14, 0, 0), got.Finish())
	_, ok = s.Result(2)
	assert.False(t, ok)

	got.Checkpoints[1] = ts(11, 0, 0)
	s.Results()[0].Checkpoints[0] = ts(15, 0, 0)
	again, _ := s.Result(1)
	assert.Equal(t, []time.Time{ts(12, 0, 0), ts(14, 0, 0)}, again.Checkpoints)
}

func TestStage_DeleteResult(t *testing.T) {
	s := sampleStage(StageTimeTrial)
	require.NoError(t, s.ConcludePreparation())
	require.NoError(t, s.RegisterResult(NewResult(0, 7, ts(12, 0, 0), ts(12, 30, 0))))
	require.NoError(t, s.RegisterResult(NewResult(0, 8, ts(12, 1, 0), ts(12, 32, 0))))

	require.NoError(t, s.DeleteResult(7))
	err := s.DeleteResult(7)
	assert.True(t, errors.Is(err, ErrNoSuchRiderResult))
	assert.Len(t, s.Results(), 1)
	assert.Equal(t, 8, s.Results()[0].RiderID)
}

func TestNewResult_CopiesCheckpoints(t *testing.T) {
	cp := []time.Time{ts(12, 0, 0), ts(13, 0, 0)}
	r := NewResult(1, 1, cp...)
	cp[0] = ts(0, 0, 0)
	assert.Equal(t, ts(12, 0, 0), r.Start())
}
