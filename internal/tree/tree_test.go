package tree

import "testing"

type counterCreator struct{ next int }

func (c *counterCreator) AddGroup(name string, parentID int) (int, error) {
	c.next++
	return c.next, nil
}

func TestLookupByPathEmptyResolvesToRoot(t *testing.T) {
	tr := New(100, nil)
	id, ok := tr.LookupByPath("")
	if !ok || id != 100 {
		t.Errorf("LookupByPath(\"\") = (%d, %v), want (100, true)", id, ok)
	}
}

func TestLookupByPathMissingSegment(t *testing.T) {
	tr := New(100, []Node{{ID: 1, Name: "Eng", ParentID: 100}})
	if _, ok := tr.LookupByPath("Eng/Backend"); ok {
		t.Error("expected LookupByPath to fail for a missing child")
	}
}

func TestEnsurePathCreatesMissingSegmentsParentFirst(t *testing.T) {
	tr := New(100, nil)
	creator := &counterCreator{}

	id, err := tr.EnsurePath("Alice/Bob", creator)
	if err != nil {
		t.Fatalf("EnsurePath: %v", err)
	}
	if id != creator.next {
		t.Errorf("EnsurePath returned %d, want last created id %d", id, creator.next)
	}
	if creator.next != 2 {
		t.Errorf("expected 2 groups created, got %d", creator.next)
	}

	// A second EnsurePath call over the same path must not create anything
	// new — both segments already exist.
	id2, err := tr.EnsurePath("Alice/Bob", creator)
	if err != nil {
		t.Fatalf("EnsurePath (second call): %v", err)
	}
	if id2 != id {
		t.Errorf("second EnsurePath = %d, want %d (reused)", id2, id)
	}
	if creator.next != 2 {
		t.Errorf("second EnsurePath created new groups: counter = %d", creator.next)
	}
}

func TestEnsurePathEmptyResolvesToRootWithoutCreating(t *testing.T) {
	tr := New(100, nil)
	creator := &counterCreator{}

	id, err := tr.EnsurePath("", creator)
	if err != nil {
		t.Fatalf("EnsurePath: %v", err)
	}
	if id != 100 {
		t.Errorf("EnsurePath(\"\") = %d, want 100", id)
	}
	if creator.next != 0 {
		t.Errorf("EnsurePath(\"\") should not create anything, counter = %d", creator.next)
	}
}

func TestChildrenOf(t *testing.T) {
	tr := New(100, []Node{
		{ID: 1, Name: "Eng", ParentID: 100},
		{ID: 2, Name: "Sales", ParentID: 100},
		{ID: 3, Name: "Backend", ParentID: 1},
	})
	children := tr.ChildrenOf(100)
	if len(children) != 2 {
		t.Errorf("ChildrenOf(100) = %v, want 2 entries", children)
	}
}

func TestDepth(t *testing.T) {
	cases := map[string]int{"": 0, "A": 1, "A/B": 2, "A/B/C": 3}
	for path, want := range cases {
		if got := Depth(path); got != want {
			t.Errorf("Depth(%q) = %d, want %d", path, got, want)
		}
	}
}
