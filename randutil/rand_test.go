package randutil_test

import (
	"sort"
	"testing"

	"cssroll/randutil"
)

func TestNewSeeded_Deterministic(t *testing.T) {
	a := randutil.NewSeeded(42)
	b := randutil.NewSeeded(42)

	for i := 0; i < 100; i++ {
		if got, want := a.Between(0, 1000), b.Between(0, 1000); got != want {
			t.Fatalf("draw %d diverged: %d != %d", i, got, want)
		}
	}
}

func TestBetween_Bounds(t *testing.T) {
	r := randutil.NewSeeded(1)

	for i := 0; i < 1000; i++ {
		v := r.Between(3, 17)
		if v < 3 || v > 17 {
			t.Fatalf("Between(3, 17) = %d, out of range", v)
		}
	}
}

func TestBetween_SwappedBounds(t *testing.T) {
	r := randutil.NewSeeded(1)

	for i := 0; i < 1000; i++ {
		v := r.Between(17, 3)
		if v < 3 || v > 17 {
			t.Fatalf("Between(17, 3) = %d, out of range", v)
		}
	}
}

func TestBetween_Inclusive(t *testing.T) {
	r := randutil.NewSeeded(7)

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		seen[r.Between(1, 3)] = true
	}
	for _, v := range []int{1, 2, 3} {
		if !seen[v] {
			t.Errorf("value %d never drawn from [1, 3]", v)
		}
	}
}

func TestBetween_Degenerate(t *testing.T) {
	r := randutil.NewSeeded(1)
	if v := r.Between(5, 5); v != 5 {
		t.Errorf("Between(5, 5) = %d, want 5", v)
	}
}

func TestDecimalBetween(t *testing.T) {
	r := randutil.NewSeeded(2)

	for i := 0; i < 1000; i++ {
		v := r.DecimalBetween(2.5, 0.5)
		if v < 0.5 || v > 2.5 {
			t.Fatalf("DecimalBetween(2.5, 0.5) = %v, out of range", v)
		}
	}
}

func TestIsInt(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{1, true},
		{-42, true},
		{1.5, false},
		{-0.001, false},
		{1e10, true},
	}

	for _, tt := range tests {
		if got := randutil.IsInt(tt.v); got != tt.want {
			t.Errorf("IsInt(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{5, 10, 0, 5},  // swapped bounds
		{15, 10, 0, 10}, // swapped bounds
	}

	for _, tt := range tests {
		if got := randutil.Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestShuffle_Permutation(t *testing.T) {
	r := randutil.NewSeeded(3)

	original := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	items := make([]int, len(original))
	copy(items, original)

	randutil.Shuffle(r, items)

	if len(items) != len(original) {
		t.Fatalf("shuffle changed length: %d != %d", len(items), len(original))
	}

	sorted := make([]int, len(items))
	copy(sorted, items)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != original[i] {
			t.Fatalf("shuffle is not a permutation: %v", items)
		}
	}
}

func TestShuffle_ShortSlices(t *testing.T) {
	r := randutil.NewSeeded(3)

	var empty []string
	randutil.Shuffle(r, empty)
	if len(empty) != 0 {
		t.Error("empty slice changed")
	}

	one := []string{"only"}
	randutil.Shuffle(r, one)
	if one[0] != "only" {
		t.Errorf("single element slice changed: %v", one)
	}
}

func TestPick(t *testing.T) {
	r := randutil.NewSeeded(4)

	items := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		v, err := randutil.Pick(r, items)
		if err != nil {
			t.Fatalf("Pick() error = %v", err)
		}
		seen[v] = true
	}
	for _, want := range items {
		if !seen[want] {
			t.Errorf("element %q never picked", want)
		}
	}
}

func TestPick_Empty(t *testing.T) {
	r := randutil.NewSeeded(4)
	if _, err := randutil.Pick(r, []int{}); err == nil {
		t.Error("expected error picking from empty list")
	}
}

func TestRoll(t *testing.T) {
	r := randutil.NewSeeded(5)

	for i := 0; i < 500; i++ {
		v, err := r.Roll("2d6")
		if err != nil {
			t.Fatalf("Roll(2d6) error = %v", err)
		}
		if v < 2 || v > 12 {
			t.Fatalf("Roll(2d6) = %d, out of [2, 12]", v)
		}
	}
}

func TestRoll_OneSided(t *testing.T) {
	r := randutil.NewSeeded(5)

	for i := 0; i < 20; i++ {
		v, err := r.Roll("1d1")
		if err != nil {
			t.Fatalf("Roll(1d1) error = %v", err)
		}
		if v != 1 {
			t.Fatalf("Roll(1d1) = %d, want 1", v)
		}
	}
}

func TestRoll_Malformed(t *testing.T) {
	r := randutil.NewSeeded(5)

	for _, notation := range []string{"", "d6", "2d", "2x6", "-1d6", "1d0", "ad6", "1d6d6"} {
		if _, err := r.Roll(notation); err == nil {
			t.Errorf("Roll(%q) expected error", notation)
		}
	}
}
