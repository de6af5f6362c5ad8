package stable

import "testing"

func TestIDDeterministic(t *testing.T) {
	a := ID("Test", "Demo Night", "2024-05-01T18:00:00-07:00")
	b := ID("Test", "Demo Night", "2024-05-01T18:00:00-07:00")
	if a != b {
		t.Fatalf("expected identical ids, got %q and %q", a, b)
	}
	if len(a) != IDLen {
		t.Fatalf("expected %d hex chars, got %d", IDLen, len(a))
	}
}

func TestIDIgnoresEmptyAndWhitespaceParts(t *testing.T) {
	if ID("a", "", "b") != ID("a", "b") {
		t.Fatal("empty parts should not contribute to the id")
	}
	if ID(" a ", "b") != ID("a", "b") {
		t.Fatal("parts should be trimmed before hashing")
	}
}

func TestIDDistinguishesInputs(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
	}{
		{name: "different titles", a: []string{"src", "one"}, b: []string{"src", "two"}},
		{name: "different sources", a: []string{"src1", "one"}, b: []string{"src2", "one"}},
		{name: "different dates", a: []string{"s", "t", "2024-05-01"}, b: []string{"s", "t", "2024-05-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ID(tt.a...) == ID(tt.b...) {
				t.Fatalf("expected distinct ids for %v and %v", tt.a, tt.b)
			}
		})
	}
}
