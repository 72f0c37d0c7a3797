// Package prepare implements C5: the pure, I/O-free transform from Person
// records to sorted DesiredUser records (spec.md §4.C5). Every exported
// function here is deterministic — running it twice on identical input
// yields byte-identical output (spec.md §8, property 1).
package prepare

import (
	"strings"
	"unicode"
)

// normalizeName trims, collapses internal whitespace runs to a single
// space, and strips control characters. Applied to names, departments, and
// each department path segment (spec.md §4.C5).
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastWasSpace = true
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// normalizeDepartmentPath splits s on "/", trims and normalises each
// segment, drops empty segments, and rejoins with "/". normalizeDepartmentPath
// is idempotent: normalizeDepartmentPath(normalizeDepartmentPath(s)) ==
// normalizeDepartmentPath(s) (spec.md §8, property 3).
func normalizeDepartmentPath(s string) string {
	rawSegments := strings.Split(s, "/")
	segments := make([]string, 0, len(rawSegments))
	for _, seg := range rawSegments {
		n := normalizeName(seg)
		if n != "" {
			segments = append(segments, n)
		}
	}
	return strings.Join(segments, "/")
}

// stripSkipPrefix tries each comma-separated alternative in skipPrefixes, in
// order, against path's segments. The first whose segments are a
// segment-aligned prefix of path's segments has those segments removed; if
// none match, path is returned unchanged (spec.md §4.C5, property 4: a
// prefix "Company" never matches "CompanyWide/Eng").
func stripSkipPrefix(path string, skipPrefixes []string) string {
	if path == "" || len(skipPrefixes) == 0 {
		return path
	}

	pathSegs := strings.Split(path, "/")

	for _, prefix := range skipPrefixes {
		prefixSegs := strings.Split(normalizeDepartmentPath(prefix), "/")
		if len(prefixSegs) == 0 || prefixSegs[0] == "" {
			continue
		}
		if len(prefixSegs) > len(pathSegs) {
			continue
		}
		matched := true
		for i, seg := range prefixSegs {
			if pathSegs[i] != seg {
				matched = false
				break
			}
		}
		if matched {
			remaining := pathSegs[len(prefixSegs):]
			return strings.Join(remaining, "/")
		}
	}
	return path
}
