package marking

import "fmt"

// KeySummary holds the whole-question scalars persisted alongside the
// question record after a rebuild.
type KeySummary struct {
	AnswerRequirement RequirementKind `json:"answer_requirement"`
	TotalAlternatives int             `json:"total_alternatives"`
	MaxMarks          int             `json:"max_marks"`
}

// Build compiles an ordered answer-row sequence into marking points.
//
// Rows are clustered by grouping key with precedence: alternative id, then
// context label, then a synthetic per-row key that makes the row its own
// singleton group. Each group is processed once at its first occurrence, so
// point order equals first-occurrence order of keys in the input. Rebuilds
// are wholesale: callers discard any previously built sequence.
func Build(rows []AnswerRow) ([]MarkingPoint, []Warning) {
	points := make([]MarkingPoint, 0, len(rows))
	var warnings []Warning

	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = groupKey(r, i)
	}

	seen := map[string]struct{}{}
	for i := range rows {
		key := keys[i]
		if _, done := seen[key]; done {
			continue
		}
		seen[key] = struct{}{}

		var related []AnswerRow
		for j := i; j < len(rows); j++ {
			if keys[j] == key {
				related = append(related, rows[j])
			}
		}

		kind, minMatches := Classify(related)

		mark := 0
		switch {
		case oneNeeded(kind):
			mark = marksOf(related[0])
			for _, r := range related[1:] {
				if marksOf(r) != mark {
					warnings = append(warnings, Warning{
						PointID: key,
						Code:    "marks_mismatch",
						Message: fmt.Sprintf("alternatives of %s disagree on marks; using %d from the first row", key, mark),
					})
					break
				}
			}
		case kind == ReqAnyKOfGroup && uniformMarks(related, marksOf(related[0])):
			// Rows with identical marks are phrasings of one point: a five-row
			// group of 1-mark phrasings is worth 1 mark, not 5.
			mark = marksOf(related[0])
		default:
			for _, r := range related {
				mark += marksOf(r)
			}
		}

		p := MarkingPoint{
			ID:          key,
			MarkValue:   mark,
			Requirement: kind,
			MinMatches:  minMatches,
		}
		if c := related[0].Context; c != nil {
			p.ContextLabel = c.Label
		}
		dedup := map[string]struct{}{}
		for _, r := range related {
			if _, dup := dedup[r.Text]; dup {
				continue
			}
			dedup[r.Text] = struct{}{}
			p.Alternatives = append(p.Alternatives, r.Text)
		}
		points = append(points, p)
	}
	return points, warnings
}

func groupKey(r AnswerRow, idx int) string {
	if r.AlternativeID != nil {
		return fmt.Sprintf("alt:%d", *r.AlternativeID)
	}
	if r.Context != nil && r.Context.Label != "" {
		return "ctx:" + r.Context.Label
	}
	return fmt.Sprintf("row:%d", idx)
}

// Summarize derives the per-question scalars the authoring side persists
// for display: a single requirement tag for the whole question, the raw row
// count, and the declared total marks.
func Summarize(points []MarkingPoint, rows []AnswerRow) KeySummary {
	s := KeySummary{TotalAlternatives: len(rows)}
	for _, p := range points {
		s.MaxMarks += p.MarkValue
	}
	if len(points) == 0 {
		return s
	}
	s.AnswerRequirement = points[0].Requirement
	for _, p := range points[1:] {
		if p.Requirement != s.AnswerRequirement {
			// Mixed kinds: every point must still be earned on its own.
			s.AnswerRequirement = ReqAllOfGroup
			break
		}
	}
	return s
}
