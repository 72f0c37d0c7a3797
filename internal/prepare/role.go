package prepare

import "github.com/hrsync/tcsync/internal/model"

// RoleConfig is the subset of config driving role resolution.
type RoleConfig struct {
	UseIsSupervisorRole bool
}

// resolveRole implements spec.md §4.C5 "Role resolution" precedence, highest
// first: force_global_admin_role, force_supervisor_role,
// use_is_supervisor_role && is_supervisor, role_id mapping, default user.
func resolveRole(p model.Person, cfg RoleConfig) model.Role {
	switch {
	case p.ForceGlobalAdminRole:
		return model.RoleAdministrator
	case p.ForceSupervisorRole:
		return model.RoleSupervisor
	case cfg.UseIsSupervisorRole && p.IsSupervisor:
		return model.RoleSupervisor
	case p.RoleID != nil:
		role, _ := model.RoleFromID(*p.RoleID)
		return role
	default:
		return model.RoleUser
	}
}
