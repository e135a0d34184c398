package state

import "testing"

func TestGetDefaultsToIdle(t *testing.T) {
	m := NewMemoryManager()
	if st := m.GetState(42); st != StateIdle {
		t.Fatalf("unseen user state = %q, expected idle", st)
	}
	if m.InProgress(42) {
		t.Fatal("unseen user should not be in progress")
	}
	sess := m.Get(42)
	if sess.State != StateIdle {
		t.Fatalf("default session state = %q", sess.State)
	}
}

func TestSetStateOverwrites(t *testing.T) {
	const asking State = "asking"
	m := NewMemoryManager()
	m.SetState(7, asking)
	if st := m.GetState(7); st != asking {
		t.Fatalf("state = %q, expected %q", st, asking)
	}
	if !m.InProgress(7) {
		t.Fatal("expected in-progress state")
	}
	m.SetState(7, StateIdle)
	if m.InProgress(7) {
		t.Fatal("idle state must not count as in progress")
	}
}

func TestClearStateKeepsTempData(t *testing.T) {
	const answering State = "answering"
	m := NewMemoryManager()
	m.SetState(9, answering)
	m.SetTemp(9, "question_id", int64(5))
	m.ClearState(9)
	if st := m.GetState(9); st != StateIdle {
		t.Fatalf("state after clear = %q", st)
	}
	if id, ok := m.GetTempInt64(9, "question_id"); !ok || id != 5 {
		t.Fatalf("temp question id = %d, ok=%v", id, ok)
	}
	m.ClearTemp(9, "question_id")
	if _, ok := m.GetTempInt64(9, "question_id"); ok {
		t.Fatal("temp value should be cleared")
	}
}

func TestGetTempInt64TypeMismatch(t *testing.T) {
	m := NewMemoryManager()
	m.SetTemp(1, "question_id", "not-an-int")
	if _, ok := m.GetTempInt64(1, "question_id"); ok {
		t.Fatal("expected type mismatch to report not-found")
	}
}

func TestClearRemovesSession(t *testing.T) {
	const asking State = "asking"
	m := NewMemoryManager()
	m.SetState(3, asking)
	m.Clear(3)
	if st := m.GetState(3); st != StateIdle {
		t.Fatalf("state after session clear = %q", st)
	}
}
