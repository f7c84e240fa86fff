// Package marking compiles teacher-authored answer keys into marking points
// and scores submitted answers against them. Building and scoring are pure:
// no I/O, no shared state, safe to run concurrently over the same built
// point sequence.
package marking

// RequirementKind is the policy governing how many alternatives within a
// group must be satisfied for the group's marking point to count.
type RequirementKind string

const (
	ReqSingleChoice         RequirementKind = "single_choice"
	ReqOneOfGroup           RequirementKind = "one_of_group"
	ReqAllOfGroup           RequirementKind = "all_of_group"
	ReqAnyKOfGroup          RequirementKind = "any_k_of_group"
	ReqAlternativeMethods   RequirementKind = "alternative_methods"
	ReqAcceptableVariations RequirementKind = "acceptable_variations"
	ReqStandalone           RequirementKind = "standalone"
)

// oneNeeded reports whether a single satisfied alternative earns the
// group's full mark value. For these kinds every row in the group is a
// phrasing of the same point, so marks are never summed.
func oneNeeded(k RequirementKind) bool {
	switch k {
	case ReqSingleChoice, ReqOneOfGroup, ReqAlternativeMethods, ReqAcceptableVariations, ReqStandalone:
		return true
	}
	return false
}

func knownKind(k RequirementKind) bool {
	switch k {
	case ReqSingleChoice, ReqOneOfGroup, ReqAllOfGroup, ReqAnyKOfGroup,
		ReqAlternativeMethods, ReqAcceptableVariations, ReqStandalone:
		return true
	}
	return false
}

// AnswerContext identifies which sub-blank of a multi-part question an
// answer row belongs to. Label doubles as a grouping key for rows that
// carry no alternative id.
type AnswerContext struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
}

// AnswerRow is one teacher-authored accepted alternative. Rows sharing an
// AlternativeID are alternatives of the same marking point.
type AnswerRow struct {
	Text          string          `json:"text"`
	Marks         int             `json:"marks"` // treated as 1 when <= 0
	AlternativeID *int            `json:"alternative_id,omitempty"`
	Context       *AnswerContext  `json:"context,omitempty"`
	Requirement   RequirementKind `json:"requirement,omitempty"` // author tag; empty means infer
}

func marksOf(r AnswerRow) int {
	if r.Marks <= 0 {
		return 1
	}
	return r.Marks
}

// MarkingPoint is one unit of credit in a question's answer key, immutable
// once built.
type MarkingPoint struct {
	ID           string          `json:"id"`
	Alternatives []string        `json:"alternatives"`
	MarkValue    int             `json:"mark_value"`
	Requirement  RequirementKind `json:"requirement"`
	MinMatches   int             `json:"min_matches,omitempty"`
	ContextLabel string          `json:"context_label,omitempty"` // feedback only, never affects scoring
}

// Warning flags a data-quality problem found while building points. The
// builder degrades gracefully: warnings go back to the author instead of
// failing the save.
type Warning struct {
	PointID string `json:"point_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
