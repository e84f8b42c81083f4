package ids

import "testing"

func TestNewIsSortableAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 1000; i++ {
		id := New()
		if len(id) != 26 {
			t.Fatalf("unexpected id length: %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
		if prev != "" && id <= prev {
			t.Fatalf("ids not monotonic: %s then %s", prev, id)
		}
		prev = id
	}
}

func TestValid(t *testing.T) {
	if !Valid(New()) {
		t.Fatal("freshly generated id reported invalid")
	}
	for _, bad := range []string{"", "   ", "not-an-id", "12345", "0000000000000000000000000!"} {
		if Valid(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
