package roster

import (
	"reflect"
	"testing"
)

func TestMembership(t *testing.T) {
	r := New([]int64{42, 7, 42})

	if !r.IsAdmin(42) || !r.IsAdmin(7) {
		t.Fatal("expected configured ids to be admins")
	}
	if r.IsAdmin(1000) {
		t.Fatal("unexpected admin for unknown id")
	}
	if r.Size() != 2 {
		t.Fatalf("expected duplicates collapsed, size=%d", r.Size())
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []int64{7, 42}) {
		t.Fatalf("IDs not in ascending order: %v", got)
	}
}

func TestNilRoster(t *testing.T) {
	var r *Roster
	if r.IsAdmin(1) {
		t.Fatal("nil roster must reject everyone")
	}
	if r.Size() != 0 || r.IDs() != nil {
		t.Fatal("nil roster must be empty")
	}
}
