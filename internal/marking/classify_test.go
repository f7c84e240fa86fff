package marking

import "testing"

func rows(marks ...int) []AnswerRow {
	out := make([]AnswerRow, len(marks))
	for i, m := range marks {
		out[i] = AnswerRow{Text: "alt", Marks: m}
	}
	return out
}

func TestClassifyInference(t *testing.T) {
	tests := []struct {
		name     string
		related  []AnswerRow
		wantKind RequirementKind
		wantMin  int
	}{
		{name: "singleton", related: rows(1), wantKind: ReqStandalone, wantMin: 1},
		{name: "singleton high marks", related: rows(4), wantKind: ReqStandalone, wantMin: 1},
		{name: "pair uniform ones", related: rows(1, 1), wantKind: ReqOneOfGroup, wantMin: 1},
		{name: "three uniform ones", related: rows(1, 1, 1), wantKind: ReqAnyKOfGroup, wantMin: 2},
		{name: "four uniform ones", related: rows(1, 1, 1, 1), wantKind: ReqAnyKOfGroup, wantMin: 3},
		{name: "five uniform ones", related: rows(1, 1, 1, 1, 1), wantKind: ReqAnyKOfGroup, wantMin: 3},
		{name: "six uniform ones", related: rows(1, 1, 1, 1, 1, 1), wantKind: ReqAlternativeMethods, wantMin: 1},
		{name: "non-uniform marks", related: rows(1, 2), wantKind: ReqAllOfGroup, wantMin: 2},
		{name: "uniform but not one", related: rows(2, 2), wantKind: ReqAllOfGroup, wantMin: 2},
		{name: "zero marks treated as one", related: rows(0, 0), wantKind: ReqOneOfGroup, wantMin: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kind, min := Classify(tc.related)
			if kind != tc.wantKind {
				t.Fatalf("expected kind=%s, got=%s", tc.wantKind, kind)
			}
			if min != tc.wantMin {
				t.Fatalf("expected min=%d, got=%d", tc.wantMin, min)
			}
		})
	}
}

func TestClassifyExplicitTagWins(t *testing.T) {
	related := []AnswerRow{
		{Text: "a", Marks: 1},
		{Text: "b", Marks: 1, Requirement: ReqAllOfGroup},
	}
	kind, min := Classify(related)
	if kind != ReqAllOfGroup {
		t.Fatalf("expected explicit all_of_group to win, got %s", kind)
	}
	if min != 2 {
		t.Fatalf("expected min=2 for all_of_group of two, got %d", min)
	}
}

func TestClassifyUnrecognizedTagFallsBack(t *testing.T) {
	related := []AnswerRow{
		{Text: "a", Marks: 1, Requirement: RequirementKind("whatever")},
		{Text: "b", Marks: 1},
	}
	kind, _ := Classify(related)
	if kind != ReqOneOfGroup {
		t.Fatalf("expected inference to run on unrecognized tag, got %s", kind)
	}
}
