package question_test

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/paperdrill/paperdrill-platform/internal/db"
	"github.com/paperdrill/paperdrill-platform/internal/marking"
	"github.com/paperdrill/paperdrill-platform/internal/question"
)

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return dbh
}

func intPtr(v int) *int { return &v }

func Test_SQLStore_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	st := question.NewSQLStore(openTestDB(t, "qstore1.db"), "sqlite")

	if err := st.PutQuestion(ctx, question.Question{ID: "q1", Prompt: "Why add antiseptic?", Format: "text"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	res, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{
		{Text: "kill bacteria", Marks: 1, AlternativeID: intPtr(1)},
		{Text: "destroy bacteria", Marks: 1, AlternativeID: intPtr(1)},
		{Text: "prevents infection", Marks: 1, AlternativeID: intPtr(6)},
		{Text: "bacteria cause illness", Marks: 1, AlternativeID: intPtr(6)},
	})
	if err != nil {
		t.Fatalf("save key: %v", err)
	}
	if len(res.Points) != 2 || res.Summary.MaxMarks != 2 {
		t.Fatalf("unexpected key result: %+v", res)
	}

	// The JSON columns must round-trip the compiled points exactly.
	full, err := st.GetQuestionFull(ctx, "q1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(full.Points, res.Points) {
		t.Fatalf("points did not survive the column round-trip:\nsaved  %+v\nloaded %+v", res.Points, full.Points)
	}
	if len(full.AnswerRows) != 4 {
		t.Fatalf("expected 4 answer rows back, got %d", len(full.AnswerRows))
	}
	if full.AnswerRequirement != res.Summary.AnswerRequirement ||
		full.TotalAlternatives != 4 || full.MaxMarks != 2 {
		t.Fatalf("summary scalars not persisted: %+v", full)
	}

	// Student-safe read strips the key but keeps display scalars.
	safe, err := st.GetQuestion(ctx, "q1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if safe.AnswerRows != nil || safe.Points != nil {
		t.Fatalf("student view leaked the key: %+v", safe)
	}
	if safe.MaxMarks != 2 {
		t.Fatalf("expected max marks on student view, got %+v", safe)
	}
}

func Test_SQLStore_RekeyReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	st := question.NewSQLStore(openTestDB(t, "qstore2.db"), "sqlite")

	if err := st.PutQuestion(ctx, question.Question{ID: "q1", Prompt: "Name the gas.", Format: "text"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{
		{Text: "a", Marks: 1, AlternativeID: intPtr(1)},
		{Text: "b", Marks: 1, AlternativeID: intPtr(1)},
	}); err != nil {
		t.Fatalf("first key: %v", err)
	}
	if _, err := st.SaveAnswerKey(ctx, "q1", []marking.AnswerRow{{Text: "CO2", Marks: 2}}); err != nil {
		t.Fatalf("second key: %v", err)
	}

	full, err := st.GetQuestionFull(ctx, "q1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(full.Points) != 1 || full.Points[0].ID != "row:0" || full.MaxMarks != 2 {
		t.Fatalf("old grouping survived the rebuild: %+v", full)
	}
}

func Test_SQLStore_ListAndNotFound(t *testing.T) {
	ctx := context.Background()
	st := question.NewSQLStore(openTestDB(t, "qstore3.db"), "sqlite")

	for _, q := range []question.Question{
		{ID: "q1", Prompt: "Why add antiseptic?", Format: "text"},
		{ID: "q2", Prompt: "Name the gas produced.", Format: "text"},
	} {
		if err := st.PutQuestion(ctx, q); err != nil {
			t.Fatalf("put %s: %v", q.ID, err)
		}
	}

	got, err := st.ListQuestions(ctx, question.ListOpts{Q: "gas"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "q2" {
		t.Fatalf("expected the filter to match q2 only, got %+v", got)
	}

	if _, err := st.GetQuestionFull(ctx, "ghost"); !errors.Is(err, question.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.SaveAnswerKey(ctx, "ghost", nil); !errors.Is(err, question.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on rekey, got %v", err)
	}
}
