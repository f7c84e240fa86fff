package question

import (
	"context"
	"testing"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
)

func intPtr(v int) *int { return &v }

func seedQuestion(t *testing.T) (Store, context.Context) {
	t.Helper()
	st := NewInMemoryStore()
	ctx := context.Background()
	if err := st.PutQuestion(ctx, Question{ID: "q1", Prompt: "Why add antiseptic?", Format: "text"}); err != nil {
		t.Fatalf("put question: %v", err)
	}
	return st, ctx
}

func TestSaveAnswerKeyRebuildsWholesale(t *testing.T) {
	st, ctx := seedQuestion(t)

	res, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{
		{Text: "kill bacteria", Marks: 1, AlternativeID: intPtr(1)},
		{Text: "destroy bacteria", Marks: 1, AlternativeID: intPtr(1)},
	})
	if err != nil {
		t.Fatalf("save key: %v", err)
	}
	if len(res.Points) != 1 || res.Summary.MaxMarks != 1 || res.Summary.TotalAlternatives != 2 {
		t.Fatalf("unexpected first key result: %+v", res)
	}

	// Second save replaces the previous points entirely.
	res, err = st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{
		{Text: "oxygen", Marks: 2},
	})
	if err != nil {
		t.Fatalf("save key again: %v", err)
	}
	if len(res.Points) != 1 || res.Points[0].ID != "row:0" {
		t.Fatalf("expected the old grouping to be discarded, got %+v", res.Points)
	}

	full, err := st.GetQuestionFull(ctx, "q1")
	if err != nil {
		t.Fatalf("get full: %v", err)
	}
	if len(full.Points) != 1 || full.MaxMarks != 2 || full.TotalAlternatives != 1 {
		t.Fatalf("persisted snapshot not replaced: %+v", full)
	}
	if full.AnswerRequirement != marking.ReqStandalone {
		t.Fatalf("expected standalone summary, got %s", full.AnswerRequirement)
	}
}

func TestStudentReadStripsKey(t *testing.T) {
	st, ctx := seedQuestion(t)
	if _, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{{Text: "kill bacteria", Marks: 1}}); err != nil {
		t.Fatalf("save key: %v", err)
	}
	q, err := st.GetQuestion(ctx, "q1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.AnswerRows != nil || q.Points != nil {
		t.Fatalf("student view must not carry the key: %+v", q)
	}
	if q.MaxMarks != 1 {
		t.Fatalf("display scalars should survive sanitizing, got %+v", q)
	}
}

func TestPutQuestionKeepsCompiledKey(t *testing.T) {
	st, ctx := seedQuestion(t)
	if _, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{{Text: "kill bacteria", Marks: 1}}); err != nil {
		t.Fatalf("save key: %v", err)
	}
	if err := st.PutQuestion(ctx, Question{ID: "q1", Prompt: "Reworded prompt", Format: "text"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	full, _ := st.GetQuestionFull(ctx, "q1")
	if full.Prompt != "Reworded prompt" {
		t.Fatalf("prompt not updated: %q", full.Prompt)
	}
	if len(full.Points) != 1 {
		t.Fatalf("prompt edits must not drop the compiled key: %+v", full)
	}
}

func TestSaveAnswerKeyUnknownQuestion(t *testing.T) {
	st := NewInMemoryStore()
	if _, err := st.SaveAnswerKey(context.Background(), "nope", nil); err == nil {
		t.Fatalf("expected error for unknown question")
	}
}

func TestSaveAnswerKeySurfacesWarnings(t *testing.T) {
	st, ctx := seedQuestion(t)
	res, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{
		{Text: "a", Marks: 1, AlternativeID: intPtr(1), Requirement: marking.ReqOneOfGroup},
		{Text: "b", Marks: 2, AlternativeID: intPtr(1)},
	})
	if err != nil {
		t.Fatalf("save key: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != "marks_mismatch" {
		t.Fatalf("expected marks_mismatch warning back to the author, got %v", res.Warnings)
	}
}
