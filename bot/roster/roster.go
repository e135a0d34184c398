package roster

import "sort"

// Roster is the immutable set of administrator account ids, loaded once at
// startup. Membership gates both menu rendering and admin actions.
type Roster struct {
	ids  map[int64]struct{}
	list []int64
}

// New builds a roster from the configured admin ids. Duplicates collapse.
func New(ids []int64) *Roster {
	r := &Roster{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		if _, ok := r.ids[id]; ok {
			continue
		}
		r.ids[id] = struct{}{}
		r.list = append(r.list, id)
	}
	sort.Slice(r.list, func(i, j int) bool { return r.list[i] < r.list[j] })
	return r
}

// IsAdmin reports whether the id belongs to the roster.
func (r *Roster) IsAdmin(id int64) bool {
	if r == nil {
		return false
	}
	_, ok := r.ids[id]
	return ok
}

// IDs returns the roster members in ascending order.
func (r *Roster) IDs() []int64 {
	if r == nil {
		return nil
	}
	out := make([]int64, len(r.list))
	copy(out, r.list)
	return out
}

// Size returns the number of roster members.
func (r *Roster) Size() int {
	if r == nil {
		return 0
	}
	return len(r.list)
}
