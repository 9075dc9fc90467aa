package kdtree

import (
	"math"
	"testing"
)

func TestSaturatingAdd_Overflow(t *testing.T) {
	if got := saturatingAdd(math.MaxInt64, 1); got != math.MaxInt64 {
		t.Fatalf("got %d, want MaxInt64", got)
	}
	if got := saturatingAdd(math.MinInt64, -1); got != math.MinInt64 {
		t.Fatalf("got %d, want MinInt64", got)
	}
}

func TestSaturatingAdd_NoOverflow(t *testing.T) {
	if got := saturatingAdd(3, 4); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestSaturatingSub_Overflow(t *testing.T) {
	if got := saturatingSub(math.MinInt64, 1); got != math.MinInt64 {
		t.Fatalf("got %d, want MinInt64", got)
	}
}

func TestSaturatingSub_MinInt64Subtrahend(t *testing.T) {
	if got := saturatingSub(5, math.MinInt64); got != math.MaxInt64 {
		t.Fatalf("got %d, want MaxInt64", got)
	}
	if got := saturatingSub(-5, math.MinInt64); got != math.MaxInt64-4 {
		t.Fatalf("got %d, want MaxInt64-4 (-5 - MinInt64 fits, no clamping)", got)
	}
}

func TestSaturatingSub_NoOverflow(t *testing.T) {
	if got := saturatingSub(10, 3); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
