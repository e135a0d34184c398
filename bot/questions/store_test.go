package questions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		rec, err := s.Append(ctx, Record{AskerID: 100, AskerName: "alice", Body: "q"})
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		if rec.ID != int64(i) {
			t.Fatalf("Append %d: got id %d", i, rec.ID)
		}
	}

	// Answering a record must not disturb id assignment.
	if ok, err := s.MarkAnswered(ctx, 2, "a", "admin"); err != nil || !ok {
		t.Fatalf("MarkAnswered: ok=%v err=%v", ok, err)
	}
	rec, err := s.Append(ctx, Record{AskerID: 100, AskerName: "alice", Body: "q4"})
	if err != nil {
		t.Fatalf("Append after answer: %v", err)
	}
	if rec.ID != 4 {
		t.Fatalf("expected id 4 after interleaved answer, got %d", rec.ID)
	}
}

func TestMarkAnsweredUnknownID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Append(ctx, Record{AskerID: 1, Body: "q"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ok, err := s.MarkAnswered(ctx, 99, "a", "admin")
	if err != nil {
		t.Fatalf("MarkAnswered: %v", err)
	}
	if ok {
		t.Fatal("expected false for unknown id")
	}

	pending, err := s.ListUnanswered(ctx)
	if err != nil {
		t.Fatalf("ListUnanswered: %v", err)
	}
	if len(pending) != 1 || pending[0].Answered {
		t.Fatalf("store altered by failed MarkAnswered: %+v", pending)
	}
}

func TestMarkAnsweredSetsAllFields(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "questions.json")
	s, err := NewFileStore(path, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	rec, err := s.Append(ctx, Record{AskerID: 7, AskerName: "bob", Body: "why"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	ok, err := s.MarkAnswered(ctx, rec.ID, "because", "admin")
	if err != nil || !ok {
		t.Fatalf("MarkAnswered: ok=%v err=%v", ok, err)
	}

	got, found, err := s.FindByID(ctx, rec.ID)
	if err != nil || !found {
		t.Fatalf("FindByID: found=%v err=%v", found, err)
	}
	if !got.Answered || got.Answer != "because" || got.AnsweredBy != "admin" {
		t.Fatalf("answer fields not set: %+v", got)
	}
	if got.AnsweredAt == nil || !got.AnsweredAt.Equal(fixed) {
		t.Fatalf("answeredAt not set: %v", got.AnsweredAt)
	}

	pending, err := s.ListUnanswered(ctx)
	if err != nil {
		t.Fatalf("ListUnanswered: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("answered record still pending: %+v", pending)
	}
}

func TestReAnswerOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Append(ctx, Record{AskerID: 7, Body: "q"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ok, err := s.MarkAnswered(ctx, rec.ID, "first", "admin1"); err != nil || !ok {
		t.Fatalf("first MarkAnswered: ok=%v err=%v", ok, err)
	}
	if ok, err := s.MarkAnswered(ctx, rec.ID, "second", "admin2"); err != nil || !ok {
		t.Fatalf("second MarkAnswered: ok=%v err=%v", ok, err)
	}

	got, _, err := s.FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Answer != "second" || got.AnsweredBy != "admin2" {
		t.Fatalf("re-answer did not overwrite: %+v", got)
	}
}

func TestMissingFileYieldsEmpty(t *testing.T) {
	s := newTestStore(t)
	pending, err := s.ListUnanswered(context.Background())
	if err != nil {
		t.Fatalf("ListUnanswered: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty store, got %+v", pending)
	}
}

func TestCorruptFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	pending, err := s.ListUnanswered(context.Background())
	if err != nil {
		t.Fatalf("ListUnanswered: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty store for corrupt file, got %+v", pending)
	}

	// A corrupt file is treated as no data; the next append starts over at id 1.
	rec, err := s.Append(context.Background(), Record{AskerID: 1, Body: "q"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID != 1 {
		t.Fatalf("expected id 1 after corrupt reset, got %d", rec.ID)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	ctx := context.Background()

	s1, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := s1.Append(ctx, Record{AskerID: 5, AskerName: "eve", Body: "persists?"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, found, err := s2.FindByID(ctx, 1)
	if err != nil || !found {
		t.Fatalf("FindByID after reopen: found=%v err=%v", found, err)
	}
	if got.Body != "persists?" || got.AskerName != "eve" {
		t.Fatalf("record lost across reopen: %+v", got)
	}
}

func TestAppendWriteFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "questions.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if _, err := s.Append(context.Background(), Record{AskerID: 1, Body: "q"}); err == nil {
		t.Fatal("expected write error from read-only dir")
	}
}
