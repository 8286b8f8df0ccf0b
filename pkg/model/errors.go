package model

import "errors"

// errors reported by the classification engine
var (
	ErrNoSuchStage                  = errors.New("no such stage")
	ErrNoSuchRace                   = errors.New("no such race")
	ErrNoSuchRiderResult            = errors.New("no result for rider in stage")
	ErrWrongCheckpointCount         = errors.New("wrong number of checkpoints")
	ErrDuplicateResult              = errors.New("rider already has a result in stage")
	ErrStageNotCollecting           = errors.New("stage is not collecting results")
	ErrStageNotPreparing            = errors.New("stage is not in preparation")
	ErrSegmentNotAllowedOnTimeTrial = errors.New("time trial stages cannot contain segments")
)

// errors reported by the entity bookkeeping
var (
	ErrNoSuchSegment        = errors.New("no such segment")
	ErrNoSuchRider          = errors.New("no such rider")
	ErrNoSuchTeam           = errors.New("no such team")
	ErrInvalidLocation      = errors.New("location is not within stage length")
	ErrInvalidLength        = errors.New("invalid length")
	ErrInvalidCheckpoints   = errors.New("checkpoints are not in chronological order")
	ErrInvalidStageKind     = errors.New("invalid stage kind")
	ErrInvalidClimbCategory = errors.New("invalid climb category")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidYearOfBirth   = errors.New("invalid year of birth")
	ErrIllegalName          = errors.New("name already in use")
	ErrIncompatibleSnapshot = errors.New("incompatible snapshot")
)
