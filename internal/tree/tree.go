// Package tree implements C8: the in-memory model of the TimeCamp group
// hierarchy used by the sync engine to reconcile against the live API. The
// prepare engine does not use it; it builds breadcrumbs as plain strings.
// Nodes are kept
// in an arena indexed by id — parent/child relationships are ids, never
// pointers, so a malformed or cyclic input can never produce a pointer
// cycle (spec.md §9 "Tree vs pointer graph").
package tree

import "strings"

// Node is one group in the forest.
type Node struct {
	ID       int
	Name     string
	ParentID int
}

// Creator creates a new group under parentID and returns its id. The sync
// engine's groupCreator implements it over its API's AddGroup (the live
// client, or the dry-run decorator).
type Creator interface {
	AddGroup(name string, parentID int) (int, error)
}

// Tree is a forest rooted at RootID, with an id-indexed arena of nodes.
// The zero value is not usable — create instances with New.
type Tree struct {
	RootID   int
	nodes    map[int]Node
	children map[int][]int // parentID -> child ids, case-sensitive name lookup below
}

// New creates a Tree rooted at rootID, seeded with the given existing nodes
// (e.g. from timecamp.Client.GetGroups).
func New(rootID int, existing []Node) *Tree {
	t := &Tree{
		RootID:   rootID,
		nodes:    make(map[int]Node, len(existing)),
		children: make(map[int][]int),
	}
	for _, n := range existing {
		t.index(n)
	}
	return t
}

func (t *Tree) index(n Node) {
	t.nodes[n.ID] = n
	t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
}

// ChildrenOf returns the ids of the direct children of id (RootID included).
func (t *Tree) ChildrenOf(id int) []int {
	return t.children[id]
}

// childByName returns the id of the direct child of parentID named name,
// matched case-sensitively, or (0, false) if none exists.
func (t *Tree) childByName(parentID int, name string) (int, bool) {
	for _, childID := range t.children[parentID] {
		if t.nodes[childID].Name == name {
			return childID, true
		}
	}
	return 0, false
}

// LookupByPath resolves a slash-separated breadcrumb (relative to RootID) to
// a group id, without creating anything. An empty path resolves to RootID.
// Segments are matched exactly as given — prepare has already normalised
// them, so LookupByPath does not re-normalise (spec.md §4.C8).
func (t *Tree) LookupByPath(path string) (id int, ok bool) {
	if path == "" {
		return t.RootID, true
	}

	cur := t.RootID
	for _, seg := range strings.Split(path, "/") {
		child, found := t.childByName(cur, seg)
		if !found {
			return 0, false
		}
		cur = child
	}
	return cur, true
}

// EnsurePath resolves path to a group id, creating any missing segments
// (parent-before-child) via create. An empty path resolves to RootID
// without calling create.
func (t *Tree) EnsurePath(path string, create Creator) (int, error) {
	if path == "" {
		return t.RootID, nil
	}

	cur := t.RootID
	for _, seg := range strings.Split(path, "/") {
		if child, found := t.childByName(cur, seg); found {
			cur = child
			continue
		}

		newID, err := create.AddGroup(seg, cur)
		if err != nil {
			return 0, err
		}
		n := Node{ID: newID, Name: seg, ParentID: cur}
		t.index(n)
		cur = newID
	}
	return cur, nil
}

// Depth returns the number of segments in path (0 for the root path "").
// Used to sort a set of paths shallowest-first before ensuring them, so
// parents are always created before their children (spec.md §4.C6).
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, "/") + 1
}
