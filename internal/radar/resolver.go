package radar

import (
	"cmp"
	"fmt"
	"slices"
)

// Stage identifies a protocol class in the resolution pipeline.
type Stage string

const (
	StageExclusion Stage = "exclusion"
	StageRanging   Stage = "ranging"
	StageAllied    Stage = "allied"
	StagePriority  Stage = "priority"
)

// StageResult records the effect of one applied protocol class.
type StageResult struct {
	Stage    Stage    `json:"stage"`
	Protocol Protocol `json:"protocol"`
	// Candidate is the target chosen by this stage.
	Candidate Coordinate `json:"candidate"`
	// Remaining is the size of the working set handed to the next stage.
	Remaining int `json:"remaining"`
}

// Resolution is the outcome of a resolution with its per-stage trace.
type Resolution struct {
	Target Coordinate
	Stages []StageResult
}

// Matched reports whether any protocol class was applied.
func (r Resolution) Matched() bool {
	return len(r.Stages) > 0
}

// Resolve selects the attack coordinate for scan under protocols.
//
// Precondition: protocols must come from the closed set.
// Postcondition: Returns Origin when no protocol class applies; otherwise the
// position of an entry of scan, or an error wrapping ErrInvalidProtocol or
// ErrExhaustedCandidateSet. Never returns a default coordinate on error.
func Resolve(scan Scan, protocols []Protocol) (Coordinate, error) {
	res, err := Trace(scan, protocols)
	if err != nil {
		return Coordinate{}, err
	}
	return res.Target, nil
}

// Trace resolves like Resolve and also reports every applied stage.
//
// Postcondition: On success Stages lists the applied classes in pipeline order.
func Trace(scan Scan, protocols []Protocol) (Resolution, error) {
	pl, err := planFor(protocols)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Target: Origin}
	view := slices.Clone(scan)

	steps := []struct {
		stage Stage
		p     Protocol
		apply func(Scan, Protocol) (Scan, Coordinate, error)
	}{
		{StageExclusion, pl.exclude, exclude},
		{StageRanging, pl.ranging, rank},
		{StageAllied, pl.allied, allied},
		{StagePriority, pl.priority, prioritize},
	}
	for _, st := range steps {
		if st.p == "" {
			continue
		}
		// Every stage refuses to empty the view, so only the input can be empty.
		if len(view) == 0 {
			return Resolution{}, fmt.Errorf("%s stage (%s): %w", st.stage, st.p, ErrEmptyScan)
		}
		next, target, err := st.apply(view, st.p)
		if err != nil {
			return Resolution{}, err
		}
		view = next
		res.Target = target
		res.Stages = append(res.Stages, StageResult{
			Stage:     st.stage,
			Protocol:  st.p,
			Candidate: target,
			Remaining: len(view),
		})
	}
	return res, nil
}

func exclude(view Scan, p Protocol) (Scan, Coordinate, error) {
	out := make(Scan, 0, len(view))
	for _, e := range view {
		if !e.IsMech() {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, Coordinate{}, exhausted(StageExclusion, p)
	}
	return out, out[0].Position, nil
}

// rank orders by distance from the origin and drops entries beyond
// MaxAttackRange. Equal distances keep their input order.
func rank(view Scan, p Protocol) (Scan, Coordinate, error) {
	sorted := slices.Clone(view)
	slices.SortStableFunc(sorted, func(a, b ScanEntry) int {
		da, db := Distance(a.Position), Distance(b.Position)
		if p == FurthestEnemies {
			return cmp.Compare(db, da)
		}
		return cmp.Compare(da, db)
	})
	out := make(Scan, 0, len(sorted))
	for _, e := range sorted {
		if Distance(e.Position) <= MaxAttackRange {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, Coordinate{}, exhausted(StageRanging, p)
	}
	return out, out[0].Position, nil
}

func allied(view Scan, p Protocol) (Scan, Coordinate, error) {
	var out Scan
	switch p {
	case AssistAllies:
		out = slices.Clone(view)
		slices.SortStableFunc(out, compareAllies)
	case AvoidCrossfire:
		out = make(Scan, 0, len(view))
		for _, e := range view {
			if !e.HasAllies() {
				out = append(out, e)
			}
		}
	}
	if len(out) == 0 {
		return nil, Coordinate{}, exhausted(StageAllied, p)
	}
	return out, out[0].Position, nil
}

// compareAllies sorts by ally count descending. Entries without a reading
// come after every entry with one.
func compareAllies(a, b ScanEntry) int {
	switch {
	case a.HasAllies() && b.HasAllies():
		return cmp.Compare(*b.Allies, *a.Allies)
	case a.HasAllies():
		return -1
	case b.HasAllies():
		return 1
	}
	return 0
}

// prioritize never narrows the working set; it falls back to the first entry
// when no mech is present.
func prioritize(view Scan, _ Protocol) (Scan, Coordinate, error) {
	if i := slices.IndexFunc(view, ScanEntry.IsMech); i >= 0 {
		return view, view[i].Position, nil
	}
	return view, view[0].Position, nil
}
