package kdtree

import "testing"

func TestDedupe_MergesEqualTuples(t *testing.T) {
	ref := []*node[string]{
		{tuple: []int64{0, 0}, values: []string{"a"}},
		{tuple: []int64{0, 0}, values: []string{"e"}},
		{tuple: []int64{0, 1}, values: []string{"c"}},
		{tuple: []int64{1, 0}, values: []string{"d"}},
		{tuple: []int64{1, 1}, values: []string{"b"}},
	}
	end := dedupe(ref)
	if end != 3 {
		t.Fatalf("got end=%d, want 3", end)
	}
	survivors := ref[:end+1]
	if len(survivors[0].values) != 2 {
		t.Fatalf("expected the first survivor to carry 2 merged values, got %d", len(survivors[0].values))
	}
}

func TestDedupe_NoDuplicates(t *testing.T) {
	ref := []*node[int]{
		{tuple: []int64{0}, values: []int{1}},
		{tuple: []int64{1}, values: []int{2}},
		{tuple: []int64{2}, values: []int{3}},
	}
	end := dedupe(ref)
	if end != 2 {
		t.Fatalf("got end=%d, want 2", end)
	}
}

func TestDedupe_OutOfOrderPanics(t *testing.T) {
	ref := []*node[int]{
		{tuple: []int64{5}, values: []int{1}},
		{tuple: []int64{1}, values: []int{2}},
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for out-of-order adjacent keys")
		}
		e, ok := r.(*Error)
		if !ok || e.Kind != SortInvariant {
			t.Fatalf("expected SortInvariant, got %v", r)
		}
	}()
	dedupe(ref)
}

func TestDedupe_Empty(t *testing.T) {
	if end := dedupe[int](nil); end != -1 {
		t.Fatalf("got %d, want -1", end)
	}
}
