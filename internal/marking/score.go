package marking

// ScoreResult is the outcome of evaluating one submitted answer against a
// built marking-point sequence.
type ScoreResult struct {
	AwardedMarks int      `json:"awarded_marks"`
	MaxMarks     int      `json:"max_marks"`
	SatisfiedIDs []string `json:"satisfied_point_ids"`
	MissedIDs    []string `json:"unsatisfied_required_point_ids"`
}

// Score normalizes the submission once and tests every marking point
// against it. An alternative is satisfied when every token it normalizes to
// appears in the submission's token set (order-insensitive containment, not
// substring matching, not set equality); a point is satisfied when any of
// its alternatives is.
//
// An empty point sequence yields a zero/zero result, not an error.
func Score(points []MarkingPoint, submitted string) ScoreResult {
	res := ScoreResult{
		SatisfiedIDs: []string{},
		MissedIDs:    []string{},
	}
	got := TokenSet(submitted)
	for _, p := range points {
		res.MaxMarks += p.MarkValue
		if pointSatisfied(p, got) {
			res.AwardedMarks += p.MarkValue
			res.SatisfiedIDs = append(res.SatisfiedIDs, p.ID)
		} else if p.Requirement != ReqStandalone {
			res.MissedIDs = append(res.MissedIDs, p.ID)
		}
	}
	if res.AwardedMarks < 0 {
		res.AwardedMarks = 0
	}
	if res.AwardedMarks > res.MaxMarks {
		res.AwardedMarks = res.MaxMarks
	}
	return res
}

// pointSatisfied treats any one matching alternative as satisfying the
// point. That includes all_of_group points, whose mark value is a sum of
// the group's rows: existing content was authored against this asymmetry,
// so it is kept as-is (see DESIGN.md before changing it).
func pointSatisfied(p MarkingPoint, got map[string]struct{}) bool {
	for _, alt := range p.Alternatives {
		want := Tokenize(alt)
		if len(want) == 0 {
			continue
		}
		ok := true
		for _, t := range want {
			if _, has := got[t]; !has {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
