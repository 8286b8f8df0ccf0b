package model

import "time"

// Result holds the checkpoint timestamps of one rider in one stage.
// The first checkpoint is the start, the last one the finish and the ones
// in between belong to the stage segments in route order.
type Result struct {
	StageID     int         `json:"stageId"`
	RiderID     int         `json:"riderId"`
	Checkpoints []time.Time `json:"checkpoints"`
}

func NewResult(stageID, riderID int, checkpoints ...time.Time) *Result {
	cp := make([]time.Time, len(checkpoints))
	copy(cp, checkpoints)
	return &Result{StageID: stageID, RiderID: riderID, Checkpoints: cp}
}

func (r *Result) Clone() *Result {
	return NewResult(r.StageID, r.RiderID, r.Checkpoints...)
}

func (r *Result) Start() time.Time {
	return r.Checkpoints[0]
}

func (r *Result) Finish() time.Time {
	return r.Checkpoints[len(r.Checkpoints)-1]
}

// SegmentTime returns the checkpoint of the segment at position idx
// (0-based, route order)
func (r *Result) SegmentTime(idx int) time.Time {
	return r.Checkpoints[idx+1]
}
