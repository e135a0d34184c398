package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/codewithmemo/memobot/bot/paging"
	"github.com/codewithmemo/memobot/bot/questions"
	"github.com/codewithmemo/memobot/bot/roster"
	"github.com/codewithmemo/memobot/core/telegram/state"
)

// fakeStore is an in-memory questions.Store with injectable failures.
type fakeStore struct {
	recs      []questions.Record
	appendErr error
	markErr   error
}

func (f *fakeStore) Append(_ context.Context, rec questions.Record) (questions.Record, error) {
	if f.appendErr != nil {
		return questions.Record{}, f.appendErr
	}
	var maxID int64
	for _, r := range f.recs {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	rec.ID = maxID + 1
	rec.Answered = false
	f.recs = append(f.recs, rec)
	return rec, nil
}

func (f *fakeStore) ListUnanswered(context.Context) ([]questions.Record, error) {
	var pending []questions.Record
	for _, r := range f.recs {
		if !r.Answered {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (questions.Record, bool, error) {
	for _, r := range f.recs {
		if r.ID == id {
			return r, true, nil
		}
	}
	return questions.Record{}, false, nil
}

func (f *fakeStore) MarkAnswered(_ context.Context, id int64, answer, answeredBy string) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	for i := range f.recs {
		if f.recs[i].ID == id {
			f.recs[i].Answered = true
			f.recs[i].Answer = answer
			f.recs[i].AnsweredBy = answeredBy
			return true, nil
		}
	}
	return false, nil
}

// fakeCourier records deliveries and fails for chosen chat ids.
type fakeCourier struct {
	sent map[int64][]string
	fail map[int64]bool
}

func newFakeCourier() *fakeCourier {
	return &fakeCourier{sent: make(map[int64][]string), fail: make(map[int64]bool)}
}

func (f *fakeCourier) SendTo(_ context.Context, chatID int64, text string) error {
	if f.fail[chatID] {
		return errors.New("unreachable")
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

func newController(store questions.Store, admins []int64, courier Courier) (*Controller, state.Manager) {
	states := state.NewMemoryManager()
	return New(store, roster.New(admins), states, courier), states
}

func TestVisitorAskFlow(t *testing.T) {
	store := &fakeStore{}
	courier := newFakeCourier()
	courier.fail[20] = true // one unreachable admin must not block the rest
	ctl, states := newController(store, []int64{10, 20, 30}, courier)
	ctx := context.Background()

	const visitor = int64(500)

	ctl.SelectAsk(visitor)
	if st := states.GetState(visitor); st != StateAwaitingQuestion {
		t.Fatalf("state after ask: %q", st)
	}

	reply, err := ctl.SubmitQuestion(ctx, visitor, "alice", "What is gradient descent?")
	if err != nil {
		t.Fatalf("SubmitQuestion: %v", err)
	}
	if !strings.Contains(reply, "Question Received") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if st := states.GetState(visitor); st != state.StateIdle {
		t.Fatalf("state not reset: %q", st)
	}

	if len(store.recs) != 1 || store.recs[0].ID != 1 || store.recs[0].Answered {
		t.Fatalf("stored record: %+v", store.recs)
	}

	for _, adminID := range []int64{10, 30} {
		msgs := courier.sent[adminID]
		if len(msgs) != 1 || !strings.Contains(msgs[0], "#1") {
			t.Fatalf("admin %d notification: %v", adminID, msgs)
		}
	}
	if len(courier.sent[20]) != 0 {
		t.Fatalf("unreachable admin received: %v", courier.sent[20])
	}
}

func TestSubmitQuestionStorageFailure(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("disk full")}
	courier := newFakeCourier()
	ctl, states := newController(store, []int64{10}, courier)

	const visitor = int64(500)
	ctl.SelectAsk(visitor)

	reply, err := ctl.SubmitQuestion(context.Background(), visitor, "alice", "q")
	if err == nil {
		t.Fatal("expected error from append failure")
	}
	if !strings.Contains(reply, "could not be saved") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	// The conversation stays open so the visitor can retry.
	if st := states.GetState(visitor); st != StateAwaitingQuestion {
		t.Fatalf("state changed on failure: %q", st)
	}
	if len(courier.sent) != 0 {
		t.Fatalf("fan-out ran despite failed append: %v", courier.sent)
	}
}

func TestAdminAnswerFlow(t *testing.T) {
	store := &fakeStore{}
	courier := newFakeCourier()
	ctl, states := newController(store, []int64{10}, courier)
	ctx := context.Background()

	const visitor, admin = int64(500), int64(10)

	ctl.SelectAsk(visitor)
	if _, err := ctl.SubmitQuestion(ctx, visitor, "alice", "What is gradient descent?"); err != nil {
		t.Fatalf("SubmitQuestion: %v", err)
	}

	ctl.SelectAnswer(admin, 1)
	if st := states.GetState(admin); st != StateAwaitingAnswer {
		t.Fatalf("state after select: %q", st)
	}

	reply, err := ctl.SubmitAnswer(ctx, admin, "admin", "It's an optimization algorithm.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !strings.Contains(reply, "#1") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if st := states.GetState(admin); st != state.StateIdle {
		t.Fatalf("admin state not reset: %q", st)
	}

	rec, found, _ := store.FindByID(ctx, 1)
	if !found || !rec.Answered || rec.Answer != "It's an optimization algorithm." {
		t.Fatalf("record not answered: %+v", rec)
	}

	// The asker got a delivery attempt with the answer text.
	msgs := courier.sent[visitor]
	found = false
	for _, m := range msgs {
		if strings.Contains(m, "optimization algorithm") {
			found = true
		}
	}
	if !found {
		t.Fatalf("asker did not receive the answer: %v", msgs)
	}
}

func TestSubmitAnswerUnknownID(t *testing.T) {
	store := &fakeStore{}
	courier := newFakeCourier()
	ctl, states := newController(store, []int64{10}, courier)
	ctx := context.Background()

	const admin = int64(10)
	ctl.SelectAnswer(admin, 99)

	reply, err := ctl.SubmitAnswer(ctx, admin, "admin", "text")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !strings.Contains(reply, "not found") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	// State resets even though the answer failed.
	if st := states.GetState(admin); st != state.StateIdle {
		t.Fatalf("state not reset: %q", st)
	}
}

func TestAnswerDeliveryFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{}
	courier := newFakeCourier()
	ctl, _ := newController(store, []int64{10}, courier)
	ctx := context.Background()

	const visitor, admin = int64(500), int64(10)
	ctl.SelectAsk(visitor)
	if _, err := ctl.SubmitQuestion(ctx, visitor, "alice", "q"); err != nil {
		t.Fatalf("SubmitQuestion: %v", err)
	}

	courier.fail[visitor] = true
	ctl.SelectAnswer(admin, 1)
	reply, err := ctl.SubmitAnswer(ctx, admin, "admin", "a")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !strings.Contains(reply, "saved") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	rec, _, _ := store.FindByID(ctx, 1)
	if !rec.Answered {
		t.Fatal("answer not durable despite delivery failure")
	}
}

func TestPendingViewAndWraparound(t *testing.T) {
	store := &fakeStore{}
	courier := newFakeCourier()
	ctl, _ := newController(store, []int64{10}, courier)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, questions.Record{AskerID: 1, AskerName: "a", Body: "q"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	item, err := ctl.PendingView(ctx)
	if err != nil {
		t.Fatalf("PendingView: %v", err)
	}
	if item.Empty || item.QuestionID != 1 || item.Cursor != (paging.Cursor{Index: 0, Total: 3}) {
		t.Fatalf("first item: %+v", item)
	}

	// From the last position "next" wraps back to the first entry.
	item, err = ctl.NextPending(ctx, paging.Cursor{Index: 2, Total: 3})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if item.Empty || item.QuestionID != 1 || item.Cursor.Index != 0 {
		t.Fatalf("wraparound item: %+v", item)
	}
}

func TestPendingEmptyQueue(t *testing.T) {
	store := &fakeStore{}
	ctl, _ := newController(store, []int64{10}, newFakeCourier())
	ctx := context.Background()

	item, err := ctl.PendingView(ctx)
	if err != nil {
		t.Fatalf("PendingView: %v", err)
	}
	if !item.Empty {
		t.Fatalf("expected empty view: %+v", item)
	}

	// Total 0 must never reach the modulo arithmetic.
	item, err = ctl.NextPending(ctx, paging.Cursor{Index: 0, Total: 0})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if !item.Empty {
		t.Fatalf("expected empty view for zero total: %+v", item)
	}
}

func TestNextPendingShrunkSnapshot(t *testing.T) {
	store := &fakeStore{}
	ctl, _ := newController(store, []int64{10}, newFakeCourier())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, questions.Record{AskerID: 1, AskerName: "a", Body: "q"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// Two questions get answered between clicks; the stale cursor still
	// carries total 3.
	for _, id := range []int64{2, 3} {
		if ok, err := store.MarkAnswered(ctx, id, "a", "admin"); err != nil || !ok {
			t.Fatalf("answer %d: ok=%v err=%v", id, ok, err)
		}
	}

	item, err := ctl.NextPending(ctx, paging.Cursor{Index: 1, Total: 3})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if !item.Empty {
		t.Fatalf("expected empty view for out-of-range index: %+v", item)
	}
}

func TestDebugDump(t *testing.T) {
	store := &fakeStore{}
	ctl, _ := newController(store, []int64{10, 30}, newFakeCourier())
	ctx := context.Background()

	if _, err := store.Append(ctx, questions.Record{AskerID: 1, Body: "q"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out := ctl.Debug(ctx, 10)
	for _, want := range []string{"Your id: 10", "Pending questions: 1", "[10 30]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("debug output missing %q:\n%s", want, out)
		}
	}
	// fakeStore exposes no file location, so the presence probe is skipped.
	if !strings.Contains(out, "Store file present: false") {
		t.Fatalf("expected file-present false for a pathless store:\n%s", out)
	}
}
