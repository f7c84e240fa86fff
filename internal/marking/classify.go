package marking

// Classify decides how many alternatives within a group must be satisfied
// and, implicitly, how the group's mark value is computed. An explicit
// author tag on any row wins; unrecognized tags fall through to inference.
// Returns the kind and the minimum number of alternatives that kind asks
// for (informational for any_k/all_of; scoring is documented in score.go).
func Classify(related []AnswerRow) (RequirementKind, int) {
	for _, r := range related {
		if r.Requirement != "" && knownKind(r.Requirement) {
			return r.Requirement, minMatchesFor(r.Requirement, len(related))
		}
	}
	return infer(related)
}

// infer backfills legacy rows that predate explicit requirement tags. New
// authoring flows always set a tag, so this can go away once old keys are
// migrated.
func infer(related []AnswerRow) (RequirementKind, int) {
	n := len(related)
	if n <= 1 {
		return ReqStandalone, 1
	}
	if !uniformMarks(related, 1) {
		return ReqAllOfGroup, n
	}
	switch {
	case n == 2:
		// Legacy data surfaced this shape as "both required" in one code
		// path and "any one" in another; grading awards the single mark
		// for either alternative.
		return ReqOneOfGroup, 1
	case n <= 5:
		return ReqAnyKOfGroup, anyK(n)
	default:
		return ReqAlternativeMethods, 1
	}
}

func anyK(n int) int {
	k := n - 1
	if k > 3 {
		k = 3
	}
	if k < 1 {
		k = 1
	}
	return k
}

func minMatchesFor(kind RequirementKind, n int) int {
	switch kind {
	case ReqAllOfGroup:
		return n
	case ReqAnyKOfGroup:
		return anyK(n)
	default:
		return 1
	}
}

func uniformMarks(rows []AnswerRow, want int) bool {
	for _, r := range rows {
		if marksOf(r) != want {
			return false
		}
	}
	return true
}
