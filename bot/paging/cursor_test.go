package paging

import "testing"

func TestRoundTrip(t *testing.T) {
	for total := 0; total <= 4; total++ {
		for index := 0; index < total; index++ {
			c := Cursor{Index: index, Total: total}
			got, err := Decode(c.Encode())
			if err != nil {
				t.Fatalf("Decode(%q): %v", c.Encode(), err)
			}
			if got != c {
				t.Fatalf("round trip mismatch: %+v != %+v", got, c)
			}
		}
	}
}

func TestNextWrapsAround(t *testing.T) {
	c := Cursor{Index: 2, Total: 3}
	if next := c.Next(); next.Index != 0 || next.Total != 3 {
		t.Fatalf("expected wraparound to 0, got %+v", next)
	}
	c = Cursor{Index: 0, Total: 3}
	if next := c.Next(); next.Index != 1 {
		t.Fatalf("expected advance to 1, got %+v", next)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "1", "a|b", "1|", "|2", "1|2|3", "-1|3", "1|-3"} {
		if _, err := Decode(payload); err == nil {
			t.Fatalf("Decode(%q): expected error", payload)
		}
	}
}
