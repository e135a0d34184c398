package paging

import (
	"fmt"
	"strconv"
	"strings"
)

// Cursor tracks a position inside a pending-question snapshot. Total is
// captured when the cursor is created and not re-validated against later
// store mutations; callers re-fetch the snapshot on every step and must
// handle an index that fell out of range.
type Cursor struct {
	Index int
	Total int
}

const sep = "|"

// Encode renders the cursor as an opaque callback payload.
func (c Cursor) Encode() string {
	return strconv.Itoa(c.Index) + sep + strconv.Itoa(c.Total)
}

// Decode parses a payload produced by Encode.
func Decode(payload string) (Cursor, error) {
	parts := strings.Split(payload, sep)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("paging: malformed cursor %q", payload)
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("paging: bad index in cursor %q: %w", payload, err)
	}
	total, err := strconv.Atoi(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("paging: bad total in cursor %q: %w", payload, err)
	}
	if total < 0 || index < 0 {
		return Cursor{}, fmt.Errorf("paging: negative cursor %q", payload)
	}
	return Cursor{Index: index, Total: total}, nil
}

// Next advances cyclically within the captured total. Callers must branch
// on Total == 0 before calling; a zero total would divide by zero.
func (c Cursor) Next() Cursor {
	return Cursor{Index: (c.Index + 1) % c.Total, Total: c.Total}
}
