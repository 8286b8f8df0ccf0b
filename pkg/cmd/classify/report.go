package classify

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/stagerace-classification-go/pkg/config"
	"github.com/mpapenbr/stagerace-classification-go/pkg/model"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing"
	"github.com/mpapenbr/stagerace-classification-go/pkg/registry"
)

type (
	Report struct {
		Race     string        `json:"race"`
		Ordering string        `json:"ordering"`
		Stages   []StageReport `json:"stages"`
		General  []Line        `json:"general"`
		Points   []Line        `json:"points"`
		Mountain []Line        `json:"mountain"`
	}
	StageReport struct {
		Name  string `json:"name"`
		Kind  string `json:"kind"`
		Lines []Line `json:"lines"`
	}
	// Line is one rider in a ranking. Only the attributes that belong to
	// the ranking are set.
	Line struct {
		Pos      int           `json:"pos"`
		RiderID  int           `json:"riderId"`
		Rider    string        `json:"rider"`
		Elapsed  time.Duration `json:"elapsed,omitempty"`
		Adjusted time.Duration `json:"adjusted,omitempty"`
		Points   int           `json:"points,omitempty"`
		Mountain int           `json:"mountain,omitempty"`
	}
)

//nolint:funlen // one section per ranking
func buildReport(
	reg *registry.Registry,
	proc *processing.Processor,
	raceID int,
	ordering string,
) (*Report, error) {
	race, ok := reg.RaceByID(raceID)
	if !ok {
		return nil, fmt.Errorf("race %d: %w", raceID, model.ErrNoSuchRace)
	}
	names := func(id int) string {
		if r, ok := reg.RiderByID(id); ok {
			return r.Name
		}
		return fmt.Sprintf("#%d", id)
	}
	ret := &Report{Race: race.Name, Ordering: ordering}

	for _, s := range race.Stages() {
		if s.State() != model.StateCollectingResults {
			continue
		}
		rank, err := proc.RankedAdjustedElapsedTimes(s.ID)
		if err != nil {
			return nil, err
		}
		sprint, err := proc.StagePoints(s.ID)
		if err != nil {
			return nil, err
		}
		kom, err := proc.StageMountainPoints(s.ID)
		if err != nil {
			return nil, err
		}
		lines := make([]Line, 0, len(rank))
		for i, item := range rank {
			raw, err := proc.ElapsedTime(s.ID, item.RiderID)
			if err != nil {
				return nil, err
			}
			pts, _ := sprint.Lookup(item.RiderID)
			mnt, _ := kom.Lookup(item.RiderID)
			lines = append(lines, Line{
				Pos:      i + 1,
				RiderID:  item.RiderID,
				Rider:    names(item.RiderID),
				Elapsed:  raw,
				Adjusted: item.Value,
				Points:   pts,
				Mountain: mnt,
			})
		}
		ret.Stages = append(ret.Stages, StageReport{Name: s.Name, Kind: string(s.Kind), Lines: lines})
	}

	gc, err := proc.GeneralClassification(raceID)
	if err != nil {
		return nil, err
	}
	ret.General = lo.Map(gc, func(item model.Standing[time.Duration], i int) Line {
		return Line{Pos: i + 1, RiderID: item.RiderID, Rider: names(item.RiderID), Adjusted: item.Value}
	})

	pointsFn, mountainFn := proc.PointsClassification, proc.MountainClassification
	if ordering == config.OrderingPoints {
		pointsFn, mountainFn = proc.PointsClassificationByPoints, proc.MountainClassificationByPoints
	}
	points, err := pointsFn(raceID)
	if err != nil {
		return nil, err
	}
	ret.Points = lo.Map(points, func(item model.Standing[int], i int) Line {
		return Line{Pos: i + 1, RiderID: item.RiderID, Rider: names(item.RiderID), Points: item.Value}
	})
	mountain, err := mountainFn(raceID)
	if err != nil {
		return nil, err
	}
	ret.Mountain = lo.Map(mountain, func(item model.Standing[int], i int) Line {
		return Line{
			Pos: i + 1, RiderID: item.RiderID, Rider: names(item.RiderID), Mountain: item.Value,
		}
	})
	return ret, nil
}

func writeJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range r.Stages {
		fmt.Fprintf(tw, "Stage %s (%s)\n", s.Name, s.Kind)
		fmt.Fprintln(tw, "Pos\tRider\tElapsed\tAdjusted\tPoints\tKOM")
		for _, l := range s.Lines {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n",
				l.Pos, l.Rider, formatDuration(l.Elapsed), formatDuration(l.Adjusted),
				l.Points, l.Mountain)
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "General classification %s\n", r.Race)
	fmt.Fprintln(tw, "Pos\tRider\tTime\tGap")
	for _, l := range r.General {
		gap := l.Adjusted - r.General[0].Adjusted
		fmt.Fprintf(tw, "%d\t%s\t%s\t+%s\n", l.Pos, l.Rider, formatDuration(l.Adjusted),
			formatDuration(gap))
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Points classification (%s order)\n", r.Ordering)
	fmt.Fprintln(tw, "Pos\tRider\tPoints")
	for _, l := range r.Points {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", l.Pos, l.Rider, l.Points)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Mountain classification (%s order)\n", r.Ordering)
	fmt.Fprintln(tw, "Pos\tRider\tKOM")
	for _, l := range r.Mountain {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", l.Pos, l.Rider, l.Mountain)
	}
	return tw.Flush()
}

// formats as h:mm:ss with milliseconds if present
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	if ms > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
