package session

import (
	"context"
	"errors"
	"testing"

	"github.com/paperdrill/paperdrill-platform/internal/marking"
	"github.com/paperdrill/paperdrill-platform/internal/question"
)

func intPtr(v int) *int { return &v }

func seed(t *testing.T) (Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	qs := question.NewInMemoryStore()

	if err := qs.PutQuestion(ctx, question.Question{ID: "q1", Prompt: "Why use antiseptic?", Format: "text"}); err != nil {
		t.Fatalf("put q1: %v", err)
	}
	if _, err := qs.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{
		{Text: "kill bacteria", Marks: 1, AlternativeID: intPtr(1)},
		{Text: "destroy bacteria", Marks: 1, AlternativeID: intPtr(1)},
		{Text: "bacteria cause illness", Marks: 1, AlternativeID: intPtr(6)},
		{Text: "bacteria cause disease", Marks: 1, AlternativeID: intPtr(6)},
	}); err != nil {
		t.Fatalf("save key q1: %v", err)
	}

	if err := qs.PutQuestion(ctx, question.Question{ID: "q2", Prompt: "Name the gas produced.", Format: "text"}); err != nil {
		t.Fatalf("put q2: %v", err)
	}
	if _, err := qs.SaveAnswerKey(ctx, "q2", []marking.AnswerRow{{Text: "CO2", Marks: 1}}); err != nil {
		t.Fatalf("save key q2: %v", err)
	}

	return NewInMemoryStore(qs, marking.NewGrader()), ctx
}

func TestSubmitAndFinish(t *testing.T) {
	st, ctx := seed(t)

	sess, err := st.NewSession(ctx, "u1", []string{"q1", "q2"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	sub, err := st.SubmitAnswer(ctx, sess.ID, "q1", "it will destroy bacteria")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Awarded != 1 || sub.MaxMarks != 2 {
		t.Fatalf("expected 1/2 on q1, got %d/%d", sub.Awarded, sub.MaxMarks)
	}
	if len(sub.MissedIDs) != 1 || sub.MissedIDs[0] != "alt:6" {
		t.Fatalf("expected alt:6 reported missed, got %v", sub.MissedIDs)
	}

	sub, err = st.SubmitAnswer(ctx, sess.ID, "q2", "CO₂")
	if err != nil {
		t.Fatalf("submit q2: %v", err)
	}
	if sub.Awarded != 1 {
		t.Fatalf("expected subscript answer to score, got %d", sub.Awarded)
	}

	done, err := st.Finish(ctx, sess.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if done.TotalAwarded != 2 || done.TotalMax != 3 {
		t.Fatalf("expected session total 2/3, got %d/%d", done.TotalAwarded, done.TotalMax)
	}

	// Finishing again is a no-op.
	again, err := st.Finish(ctx, sess.ID)
	if err != nil {
		t.Fatalf("finish twice: %v", err)
	}
	if again.TotalAwarded != done.TotalAwarded || again.FinishedAt != done.FinishedAt {
		t.Fatalf("expected idempotent finish, got %+v vs %+v", again, done)
	}
}

func TestResubmissionLatestCounts(t *testing.T) {
	st, ctx := seed(t)
	sess, _ := st.NewSession(ctx, "u1", []string{"q2"})

	if _, err := st.SubmitAnswer(ctx, sess.ID, "q2", "methane"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := st.SubmitAnswer(ctx, sess.ID, "q2", "CO2"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	subs, err := st.ListSubmissions(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("submissions are append-only; expected 2, got %d", len(subs))
	}

	done, _ := st.Finish(ctx, sess.ID)
	if done.TotalAwarded != 1 || done.TotalMax != 1 {
		t.Fatalf("expected the later submission to count, got %d/%d", done.TotalAwarded, done.TotalMax)
	}
}

func TestSubmitGuards(t *testing.T) {
	st, ctx := seed(t)
	sess, _ := st.NewSession(ctx, "u1", []string{"q1"})

	if _, err := st.SubmitAnswer(ctx, sess.ID, "q2", "CO2"); !errors.Is(err, ErrNotInSet) {
		t.Fatalf("expected ErrNotInSet, got %v", err)
	}
	if _, err := st.SubmitAnswer(ctx, "missing", "q1", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := st.Finish(ctx, sess.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if _, err := st.SubmitAnswer(ctx, sess.ID, "q1", "x"); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished after finish, got %v", err)
	}
}

func TestNewSessionValidatesQuestions(t *testing.T) {
	st, ctx := seed(t)
	if _, err := st.NewSession(ctx, "u1", []string{"q1", "ghost"}); !errors.Is(err, ErrNoSuchQ) {
		t.Fatalf("expected ErrNoSuchQ, got %v", err)
	}
	if _, err := st.NewSession(ctx, "", []string{"q1"}); err == nil {
		t.Fatalf("expected error for missing user")
	}
}

func TestManualFormatQueued(t *testing.T) {
	ctx := context.Background()
	qs := question.NewInMemoryStore()
	if err := qs.PutQuestion(ctx, question.Question{ID: "d1", Prompt: "Draw the circuit.", Format: "diagram"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := qs.SaveAnswerKey(ctx, "d1", []marking.AnswerRow{{Text: "series circuit", Marks: 2}}); err != nil {
		t.Fatalf("save key: %v", err)
	}
	st := NewInMemoryStore(qs, marking.NewGrader())
	sess, _ := st.NewSession(ctx, "u1", []string{"d1"})

	sub, err := st.SubmitAnswer(ctx, sess.ID, "d1", "asset:uploads/d1.png")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sub.NeedsManual || sub.Awarded != 0 || sub.MaxMarks != 2 {
		t.Fatalf("expected manual 0/2, got %+v", sub)
	}
}
