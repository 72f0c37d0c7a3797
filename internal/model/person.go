// Package model defines the typed records exchanged between the three
// reconciliation stages: the intermediate Person record produced by a
// source-system fetcher, the DesiredUser record produced by the prepare
// engine, and the live TimeCamp entities read back by the sync engine.
package model

// Status is the lifecycle state of a Person or DesiredUser.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Role is a TimeCamp account role.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleSupervisor    Role = "supervisor"
	RoleUser          Role = "user"
)

// Person is the canonical intermediate record emitted by a source-system
// fetcher (BambooHR, Entra ID, LDAP, FactorialHR) and consumed by the
// prepare engine. ExternalID is stable across renames and is the only
// required field; everything else may be zero-valued.
type Person struct {
	ExternalID           string  `json:"external_id" validate:"required"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	RealEmail            string  `json:"real_email"`
	Status               Status  `json:"status" validate:"omitempty,oneof=active inactive"`
	Department           string  `json:"department"`
	SupervisorID         string  `json:"supervisor_id"`
	IsSupervisor         bool    `json:"is_supervisor"`
	JobTitle             string  `json:"job_title"`
	ForceGlobalAdminRole bool    `json:"force_global_admin_role"`
	ForceSupervisorRole  bool    `json:"force_supervisor_role"`
	RoleID               *int    `json:"role_id,omitempty"`
}

// PersonSet is the JSON envelope written by a fetcher and read by prepare,
// per spec's blob layout: {"users": [...]}.
type PersonSet struct {
	Users []Person `json:"users"`
}

// DesiredUser is the normalised, policy-applied projection of a Person onto
// TimeCamp's schema — the output of the prepare engine, and the input of
// the sync engine. A slice of DesiredUser is written to blob storage sorted
// ascending by TimeCampEmail.
type DesiredUser struct {
	TimeCampExternalID       string `json:"timecamp_external_id"`
	TimeCampUserName         string `json:"timecamp_user_name"`
	TimeCampEmail            string `json:"timecamp_email"`
	TimeCampRealEmail        string `json:"timecamp_real_email"`
	TimeCampGroupsBreadcrumb string `json:"timecamp_groups_breadcrumb"`
	TimeCampStatus           Status `json:"timecamp_status"`
	TimeCampRole             Role   `json:"timecamp_role"`
}

// RoleFromID maps a TimeCamp server role_id to the three-valued Role enum.
// The exact integer mapping is only partially documented upstream (see
// SPEC_FULL.md Decision D1) — this table is the single place that would
// need correcting against a live account.
var roleIDTable = map[int]Role{
	1: RoleAdministrator,
	2: RoleSupervisor,
	3: RoleUser,
}

// RoleFromID resolves a role_id hint to a Role, defaulting to RoleUser (and
// ok=false) for any value not in the table — callers should warn and
// continue rather than treat this as fatal, per spec.md §7.
func RoleFromID(id int) (role Role, ok bool) {
	r, found := roleIDTable[id]
	if !found {
		return RoleUser, false
	}
	return r, true
}

// RoleToID is the inverse of RoleFromID, used by the sync engine to encode a
// DesiredUser's resolved Role back onto the wire when writing role_id.
func RoleToID(role Role) (id int, ok bool) {
	for k, v := range roleIDTable {
		if v == role {
			return k, true
		}
	}
	return 0, false
}
