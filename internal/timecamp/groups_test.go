package timecamp

import "testing"

func TestGroupPathWalksToRoot(t *testing.T) {
	byID := map[int]rawGroup{
		1: {GroupID: 1, ParentID: 100, Name: "Eng"},
		2: {GroupID: 2, ParentID: 1, Name: "Backend"},
	}
	path, ok := groupPath(2, byID, 100)
	if !ok {
		t.Fatal("expected group to resolve under root")
	}
	if path != "Eng/Backend" {
		t.Errorf("path = %q, want %q", path, "Eng/Backend")
	}
}

func TestGroupPathRootItself(t *testing.T) {
	path, ok := groupPath(100, map[int]rawGroup{}, 100)
	if !ok || path != "" {
		t.Errorf("groupPath(root) = (%q, %v), want (\"\", true)", path, ok)
	}
}

func TestGroupPathOutsideRootIsExcluded(t *testing.T) {
	byID := map[int]rawGroup{
		1: {GroupID: 1, ParentID: 0, Name: "Orphan"},
	}
	_, ok := groupPath(1, byID, 100)
	if ok {
		t.Error("expected a group outside the root subtree to be excluded")
	}
}

func TestGroupPathCycleIsExcluded(t *testing.T) {
	byID := map[int]rawGroup{
		1: {GroupID: 1, ParentID: 2, Name: "A"},
		2: {GroupID: 2, ParentID: 1, Name: "B"},
	}
	_, ok := groupPath(1, byID, 100)
	if ok {
		t.Error("expected a cyclic parent chain to be excluded, not loop forever")
	}
}
