package sync

import (
	"strings"

	"github.com/hrsync/tcsync/internal/model"
	"github.com/hrsync/tcsync/internal/timecamp"
)

// buildUserDiff computes the minimal UserUpdate needed to converge live
// onto desired, per spec.md §4.C6 "User reconciliation — plan & execute".
// groupID is the already-resolved target group id for desired. Activation
// is handled separately (spec.md §4.C6 "Ordering", step 4), so an
// inactive-to-active transition is never part of this diff.
func buildUserDiff(desired model.DesiredUser, live model.User, groupID int, cfg Config) (fields timecamp.UserUpdate, changed bool) {
	if desired.TimeCampUserName != live.Name {
		fields.Name = &desired.TimeCampUserName
		changed = true
	}

	emailChanged := !strings.EqualFold(desired.TimeCampEmail, live.Email)
	if emailChanged {
		fields.Email = &desired.TimeCampEmail
		changed = true
		if live.AdditionalEmail == "" {
			oldEmail := live.Email
			fields.AdditionalEmail = &oldEmail
		}
	}

	// timecamp_real_email is optional (spec.md §3). An empty value is "no
	// opinion" rather than "clear it" — otherwise this rule would undo the
	// rename swap above on the very next run.
	if !emailChanged && !cfg.DisableAdditionalEmailSync && desired.TimeCampRealEmail != "" && desired.TimeCampRealEmail != live.AdditionalEmail {
		fields.AdditionalEmail = &desired.TimeCampRealEmail
		changed = true
	}

	if !cfg.DisableExternalIDSync && desired.TimeCampExternalID != live.ExternalID {
		fields.ExternalID = &desired.TimeCampExternalID
		changed = true
	}

	if !cfg.DisableGroupUpdates && groupID != live.GroupID {
		gid := groupID
		fields.GroupID = &gid
		changed = true
	}

	if !cfg.DisableRoleUpdates && desired.TimeCampRole != live.Role() {
		if roleID, ok := model.RoleToID(desired.TimeCampRole); ok {
			rid := roleID
			fields.RoleID = &rid
			changed = true
		}
	}

	return fields, changed
}
