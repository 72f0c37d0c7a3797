package prepare

import "github.com/hrsync/tcsync/internal/model"

// GroupPathConfig is the subset of internal/config.Config that drives group
// path derivation, extracted so this package stays free of a dependency on
// the config package (spec.md §4.C5 is pure and I/O-free).
type GroupPathConfig struct {
	UseDepartmentGroups   bool
	UseSupervisorGroups   bool
	UseJobTitleNameGroups bool
	SkipDepartments       []string
}

// groupPathStrategy is the small strategy interface spec.md §9 calls for in
// place of the source's (use_department_groups, use_supervisor_groups)
// branch-switch: one implementation per of the four interacting modes.
type groupPathStrategy interface {
	path(r *resolver, p model.Person) string
}

// selectStrategy picks the one mode spec.md §4.C5 describes for a given
// (use_department_groups, use_supervisor_groups) pair.
func selectStrategy(cfg GroupPathConfig) groupPathStrategy {
	switch {
	case cfg.UseDepartmentGroups && cfg.UseSupervisorGroups:
		return hybridStrategy{}
	case cfg.UseDepartmentGroups:
		return departmentOnlyStrategy{}
	case cfg.UseSupervisorGroups:
		return supervisorOnlyStrategy{}
	default:
		return flatStrategy{}
	}
}

type departmentOnlyStrategy struct{}

func (departmentOnlyStrategy) path(r *resolver, p model.Person) string {
	return r.departmentPath(p)
}

type supervisorOnlyStrategy struct{}

func (supervisorOnlyStrategy) path(r *resolver, p model.Person) string {
	return r.supervisorPath(p.ExternalID)
}

type hybridStrategy struct{}

func (hybridStrategy) path(r *resolver, p model.Person) string {
	dept := r.departmentPath(p)
	sup := r.supervisorPath(p.ExternalID)
	switch {
	case dept == "":
		return sup
	case sup == "":
		return dept
	default:
		return dept + "/" + sup
	}
}

type flatStrategy struct{}

func (flatStrategy) path(*resolver, model.Person) string { return "" }

// resolver holds the per-run state shared by the group path strategies: the
// full person graph (for supervisor-chain walks) and the config driving
// normalisation. It memoises supervisor paths since the same ancestor is
// typically walked by many descendants.
type resolver struct {
	byID     map[string]model.Person
	cfg      GroupPathConfig
	memo     map[string]string
	visiting map[string]bool
}

func newResolver(persons []model.Person, cfg GroupPathConfig) *resolver {
	byID := make(map[string]model.Person, len(persons))
	for _, p := range persons {
		byID[p.ExternalID] = p
	}
	return &resolver{
		byID:     byID,
		cfg:      cfg,
		memo:     make(map[string]string),
		visiting: make(map[string]bool),
	}
}

// departmentPath is the post-strip, normalised department path for p.
func (r *resolver) departmentPath(p model.Person) string {
	return stripSkipPrefix(normalizeDepartmentPath(p.Department), r.cfg.SkipDepartments)
}

// supervisorPath computes the breadcrumb for the supervisor-only mode,
// following spec.md §4.C5's worked example:
//
//	A (no supervisor, is supervisor)     -> "A"
//	B (supervisor A, is supervisor)      -> "A/B"
//	C (supervisor B, not supervisor)     -> "A/B"  (C is a leaf under B)
//	D (supervisor A, not supervisor)     -> "A"
//	E (no supervisor, not supervisor)    -> ""     (root)
//
// A cycle is broken at the point of revisit (spec.md §4.C5, §9): the node
// whose supervisor is already on the current walk is treated as if it had
// no supervisor, so no segment appears twice. A dangling supervisor_id
// (pointing at an absent Person) is treated the same way.
func (r *resolver) supervisorPath(id string) string {
	if cached, ok := r.memo[id]; ok {
		return cached
	}
	if r.visiting[id] {
		// Cycle: no further ancestor; the revisited node's segment is
		// added by its own, outer frame.
		return ""
	}

	r.visiting[id] = true
	defer delete(r.visiting, id)

	p, ok := r.byID[id]
	if !ok {
		return ""
	}

	var parentPath string
	if p.SupervisorID == "" || p.SupervisorID == id {
		parentPath = ""
	} else if _, exists := r.byID[p.SupervisorID]; !exists {
		parentPath = "" // dangling pointer: treat as no supervisor
	} else {
		parentPath = r.supervisorPath(p.SupervisorID)
	}

	result := r.ownSegment(id, parentPath)
	r.memo[id] = result
	return result
}

// ownSegment computes the path a Person contributes given its resolved
// parent path: supervisors append their own formatted segment, non-
// supervisor leaves simply inherit their supervisor's path unchanged.
func (r *resolver) ownSegment(id string, parentPath string) string {
	p, ok := r.byID[id]
	if !ok {
		return parentPath
	}
	if !p.IsSupervisor {
		return parentPath
	}
	segment := r.supervisorSegmentName(p)
	if parentPath == "" {
		return segment
	}
	return parentPath + "/" + segment
}

// supervisorSegmentName formats the path segment for a supervisor, per
// spec.md §4.C5: "<title> [<name>]" when use_job_title_name_groups is set
// and a job title is present, otherwise plain "<name>".
func (r *resolver) supervisorSegmentName(p model.Person) string {
	name := normalizeName(p.Name)
	if r.cfg.UseJobTitleNameGroups && p.JobTitle != "" {
		return normalizeName(p.JobTitle) + " [" + name + "]"
	}
	return name
}
