package prepare

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/model"
)

// Config is the full set of policy knobs the prepare engine reads — the
// prepare binary's projection of internal/config.Config (spec.md §4.C5,
// §9 "Global configuration": resolved once, passed down explicitly).
type Config struct {
	ShowExternalID        bool
	UseSupervisorGroups   bool
	UseDepartmentGroups   bool
	UseJobTitleNameUsers  bool
	UseJobTitleNameGroups bool
	SkipDepartments       []string
	ReplaceEmailDomain    string
	UseIsSupervisorRole   bool
}

// Run transforms persons into the sorted DesiredUser list spec.md §4.C5
// describes. It is pure and deterministic: identical (persons, cfg) always
// yields byte-identical output (spec.md §8, property 1). Persons with an
// unrecognised (e.g. empty) Status are omitted with a logged warning, per
// spec.md §4.C5 "Output".
func Run(persons []model.Person, cfg Config, logger *zap.Logger) []model.DesiredUser {
	log := logger.Named("prepare")

	strategy := selectStrategy(GroupPathConfig{
		UseDepartmentGroups:   cfg.UseDepartmentGroups,
		UseSupervisorGroups:   cfg.UseSupervisorGroups,
		UseJobTitleNameGroups: cfg.UseJobTitleNameGroups,
		SkipDepartments:       cfg.SkipDepartments,
	})
	r := newResolver(persons, GroupPathConfig{
		UseDepartmentGroups:   cfg.UseDepartmentGroups,
		UseSupervisorGroups:   cfg.UseSupervisorGroups,
		UseJobTitleNameGroups: cfg.UseJobTitleNameGroups,
		SkipDepartments:       cfg.SkipDepartments,
	})

	displayCfg := DisplayNameConfig{
		UseJobTitleNameUsers: cfg.UseJobTitleNameUsers,
		ShowExternalID:       cfg.ShowExternalID,
	}
	roleCfg := RoleConfig{UseIsSupervisorRole: cfg.UseIsSupervisorRole}
	replaceDomain := strings.TrimPrefix(cfg.ReplaceEmailDomain, "@")

	out := make([]model.DesiredUser, 0, len(persons))
	for _, p := range persons {
		if p.Status != model.StatusActive && p.Status != model.StatusInactive {
			log.Warn("skipping person with unrecognised status",
				zap.String("external_id", p.ExternalID), zap.String("status", string(p.Status)))
			continue
		}

		if p.SupervisorID != "" {
			if _, exists := r.byID[p.SupervisorID]; !exists {
				log.Warn("dangling supervisor_id, treating as no supervisor",
					zap.String("external_id", p.ExternalID), zap.String("supervisor_id", p.SupervisorID))
			}
		}

		name := normalizeName(p.Name)
		groupPath := strategy.path(r, p)

		du := model.DesiredUser{
			TimeCampExternalID:       p.ExternalID,
			TimeCampUserName:         formatDisplayName(name, normalizeName(p.JobTitle), p.ExternalID, displayCfg),
			TimeCampEmail:            resolveEmail(p.Email, replaceDomain),
			TimeCampRealEmail:        resolveRealEmail(p.RealEmail, replaceDomain),
			TimeCampGroupsBreadcrumb: groupPath,
			TimeCampStatus:           p.Status,
			TimeCampRole:             resolveRole(p, roleCfg),
		}
		out = append(out, du)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeCampEmail < out[j].TimeCampEmail
	})
	return out
}
