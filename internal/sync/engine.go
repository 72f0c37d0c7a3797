package sync

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/errs"
	"github.com/hrsync/tcsync/internal/model"
	"github.com/hrsync/tcsync/internal/timecamp"
	"github.com/hrsync/tcsync/internal/tree"
)

// Config is the sync engine's projection of internal/config.Config —
// resolved once at process start and passed down explicitly, per spec.md
// §9 "Global configuration".
type Config struct {
	RootGroupID         int
	IgnoredUserIDs      []int
	UseSupervisorGroups bool

	DisableNewUsers            bool
	DisableUserDeactivation    bool
	DisableExternalIDSync      bool
	DisableAdditionalEmailSync bool
	DisableManualUserUpdates   bool
	DisableGroupUpdates        bool
	DisableRoleUpdates         bool
	DisableGroupsCreation      bool
	DisabledUsersGroupID       int

	DryRun bool
}

// Summary reports the operations a Run performed (or, under DryRun, would
// have performed) — the run-summary line spec.md §7 requires.
type Summary struct {
	UsersCreated     int
	UsersUpdated     int
	UsersReactivated int
	UsersDeactivated int
	UsersSkipped     int
	GroupsCreated    int
}

// Engine is the C6 convergence engine.
type Engine struct {
	api    API
	cfg    Config
	logger *zap.Logger
}

// New creates an Engine. If cfg.DryRun is set, every write api issues is
// replaced by a logged intent (spec.md §4.C6 "Dry-run").
func New(api API, cfg Config, logger *zap.Logger) *Engine {
	log := logger.Named("sync")
	if cfg.DryRun {
		api = NewDryRun(api, log)
	}
	return &Engine{api: api, cfg: cfg, logger: log}
}

type matchedPair struct {
	desired model.DesiredUser
	live    *model.User // nil for a create candidate
}

// Run reconciles desired against the live TimeCamp state and returns a
// Summary. A single user's failure is logged and skipped rather than
// aborting the run (spec.md §7), but a failure classified as fatal —
// reading live state, or a write call hitting an Auth/Config error via
// errs.Classify — aborts the run immediately instead of being absorbed
// as a per-user skip.
func (e *Engine) Run(ctx context.Context, desired []model.DesiredUser) (Summary, error) {
	var summary Summary

	liveUsers, err := e.api.GetUsers(ctx)
	if err != nil {
		return summary, err
	}
	liveGroups, err := e.api.GetGroups(ctx)
	if err != nil {
		return summary, err
	}

	t := tree.New(e.cfg.RootGroupID, nodesFromGroups(liveGroups))
	idx := newMatchIndex(liveUsers)

	pairs := make([]matchedPair, 0, len(desired))
	matchedLiveIDs := make(map[int]bool, len(liveUsers))
	for _, du := range desired {
		live := idx.find(du)
		pairs = append(pairs, matchedPair{desired: du, live: live})
		if live != nil {
			matchedLiveIDs[live.ID] = true
		}
	}

	groupIDs, failedPaths, err := e.reconcileGroups(ctx, t, pairs, &summary)
	if err != nil {
		return summary, err
	}
	resolveGroup := func(path string) int {
		if id, ok := groupIDs[path]; ok {
			return id
		}
		if id, ok := t.LookupByPath(path); ok {
			return id
		}
		return e.cfg.RootGroupID
	}

	ignored := make(map[int]bool, len(e.cfg.IgnoredUserIDs))
	for _, id := range e.cfg.IgnoredUserIDs {
		ignored[id] = true
	}
	skip := func(live *model.User) bool {
		if live == nil {
			return false
		}
		if ignored[live.ID] {
			return true
		}
		return live.AddedManually && e.cfg.DisableManualUserUpdates
	}

	// 2. Create new users.
	finalIDs := make(map[int]int, len(pairs)) // index into pairs -> live user id
	for i, p := range pairs {
		if p.live != nil {
			continue
		}
		if e.cfg.DisableNewUsers {
			summary.UsersSkipped++
			continue
		}
		if failedPaths[p.desired.TimeCampGroupsBreadcrumb] {
			e.logger.Error("skipping user routed through a group that failed to reconcile",
				zap.String("email", p.desired.TimeCampEmail), zap.String("path", p.desired.TimeCampGroupsBreadcrumb))
			summary.UsersSkipped++
			continue
		}
		groupID := resolveGroup(p.desired.TimeCampGroupsBreadcrumb)
		newID, err := e.api.AddUser(ctx, p.desired.TimeCampEmail, p.desired.TimeCampUserName, groupID)
		if err != nil {
			e.logger.Error("failed to create user", zap.String("email", p.desired.TimeCampEmail), zap.Error(err))
			if errs.Classify(err).Fatal() {
				return summary, err
			}
			summary.UsersSkipped++
			continue
		}
		if err := e.createFollowUp(ctx, newID, p.desired); err != nil && errs.Classify(err).Fatal() {
			return summary, err
		}
		summary.UsersCreated++
		finalIDs[i] = newID
	}

	// 3. Update existing users (attributes, then group moves — both folded
	// into one diff/apply since the engine issues one PATCH-like call).
	for i, p := range pairs {
		if p.live == nil || skip(p.live) {
			if p.live != nil && skip(p.live) {
				summary.UsersSkipped++
			}
			continue
		}
		if failedPaths[p.desired.TimeCampGroupsBreadcrumb] {
			e.logger.Error("skipping user routed through a group that failed to reconcile",
				zap.Int("user_id", p.live.ID), zap.String("path", p.desired.TimeCampGroupsBreadcrumb))
			summary.UsersSkipped++
			continue
		}
		groupID := resolveGroup(p.desired.TimeCampGroupsBreadcrumb)
		fields, changed := buildUserDiff(p.desired, *p.live, groupID, e.cfg)
		if changed {
			if err := e.api.UpdateUser(ctx, p.live.ID, fields); err != nil {
				e.logger.Error("failed to update user", zap.Int("user_id", p.live.ID), zap.Error(err))
				if errs.Classify(err).Fatal() {
					return summary, err
				}
			} else {
				summary.UsersUpdated++
				if p.live.AddedManually {
					if err := e.api.SetUserSetting(ctx, p.live.ID, "added_manually", "0"); err != nil {
						e.logger.Warn("failed to clear added_manually", zap.Int("user_id", p.live.ID), zap.Error(err))
						if errs.Classify(err).Fatal() {
							return summary, err
						}
					}
				}
			}
		}
		finalIDs[i] = p.live.ID
	}

	// 4. Activate returning users.
	for _, p := range pairs {
		if p.live == nil || skip(p.live) {
			continue
		}
		if p.desired.TimeCampStatus == model.StatusActive && !p.live.Enabled {
			active := true
			if err := e.api.UpdateUser(ctx, p.live.ID, timecamp.UserUpdate{Active: &active}); err != nil {
				e.logger.Error("failed to reactivate user", zap.Int("user_id", p.live.ID), zap.Error(err))
				if errs.Classify(err).Fatal() {
					return summary, err
				}
				continue
			}
			summary.UsersReactivated++
		}
	}

	// 5. Deactivate missing users (and move to the disabled-users group, if
	// configured).
	for _, lu := range liveUsers {
		if matchedLiveIDs[lu.ID] || ignored[lu.ID] || lu.AddedManually || !lu.Enabled {
			continue
		}
		if e.cfg.DisableUserDeactivation {
			continue
		}
		active := false
		fields := timecamp.UserUpdate{Active: &active}
		if e.cfg.DisabledUsersGroupID != 0 {
			gid := e.cfg.DisabledUsersGroupID
			fields.GroupID = &gid
		}
		if err := e.api.UpdateUser(ctx, lu.ID, fields); err != nil {
			e.logger.Error("failed to deactivate user", zap.Int("user_id", lu.ID), zap.Error(err))
			if errs.Classify(err).Fatal() {
				return summary, err
			}
			continue
		}
		summary.UsersDeactivated++
	}

	// 6. Fix up group managers last.
	if e.cfg.UseSupervisorGroups {
		for i, p := range pairs {
			if p.live != nil && skip(p.live) {
				continue
			}
			liveID, ok := finalIDs[i]
			if !ok {
				continue
			}
			groupID := resolveGroup(p.desired.TimeCampGroupsBreadcrumb)
			on := p.desired.TimeCampRole == model.RoleSupervisor
			if err := e.api.SetGroupManager(ctx, groupID, liveID, on); err != nil {
				e.logger.Warn("failed to set group manager", zap.Int("group_id", groupID), zap.Int("user_id", liveID), zap.Error(err))
				if errs.Classify(err).Fatal() {
					return summary, err
				}
			}
		}
	}

	return summary, nil
}

// createFollowUp issues the updates AddUser does not accept directly:
// external id, role, and additional email (spec.md §4.C6 "Unmatched
// DesiredUsers").
func (e *Engine) createFollowUp(ctx context.Context, userID int, desired model.DesiredUser) error {
	fields := timecamp.UserUpdate{}
	hasFollowUp := false
	if desired.TimeCampExternalID != "" {
		fields.ExternalID = &desired.TimeCampExternalID
		hasFollowUp = true
	}
	if roleID, ok := model.RoleToID(desired.TimeCampRole); ok && desired.TimeCampRole != model.RoleUser {
		fields.RoleID = &roleID
		hasFollowUp = true
	}
	if desired.TimeCampRealEmail != "" {
		fields.AdditionalEmail = &desired.TimeCampRealEmail
		hasFollowUp = true
	}
	if !hasFollowUp {
		return nil
	}
	if err := e.api.UpdateUser(ctx, userID, fields); err != nil {
		e.logger.Warn("follow-up update after create failed", zap.Int("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// reconcileGroups implements spec.md §4.C6 "Group reconciliation": collect
// the breadcrumbs actually referenced, ensure each (shallowest first), and
// return the resolved path -> group id map. A path whose creation fails is
// recorded in the returned failed set rather than falling back to the root
// group — per spec.md §7, a group creation failure is fatal for any user
// routed through that group, and callers must skip them rather than
// silently reroute them to root. A failure classified as fatal (e.g. an
// auth error) aborts the whole run immediately.
func (e *Engine) reconcileGroups(ctx context.Context, t *tree.Tree, pairs []matchedPair, summary *Summary) (map[string]int, map[string]bool, error) {
	required := make(map[string]bool)
	for _, p := range pairs {
		if p.live != nil || !e.cfg.DisableNewUsers {
			required[p.desired.TimeCampGroupsBreadcrumb] = true
		}
	}

	paths := make([]string, 0, len(required))
	for p := range required {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if tree.Depth(paths[i]) != tree.Depth(paths[j]) {
			return tree.Depth(paths[i]) < tree.Depth(paths[j])
		}
		return paths[i] < paths[j]
	})

	groupIDs := make(map[string]int, len(paths))
	if e.cfg.DisableGroupsCreation {
		for _, p := range paths {
			if id, ok := t.LookupByPath(p); ok {
				groupIDs[p] = id
			} else {
				groupIDs[p] = e.cfg.RootGroupID
			}
		}
		return groupIDs, nil, nil
	}

	failed := make(map[string]bool)
	creator := &groupCreator{ctx: ctx, api: e.api}
	for _, p := range paths {
		id, err := t.EnsurePath(p, creator)
		if err != nil {
			e.logger.Error("failed to ensure group path, skipping users routed through it", zap.String("path", p), zap.Error(err))
			if errs.Classify(err).Fatal() {
				summary.GroupsCreated = creator.created
				return groupIDs, failed, err
			}
			failed[p] = true
			continue
		}
		groupIDs[p] = id
	}
	summary.GroupsCreated = creator.created
	return groupIDs, failed, nil
}

// groupCreator adapts API.AddGroup to tree.Creator.
type groupCreator struct {
	ctx     context.Context
	api     API
	created int
}

func (c *groupCreator) AddGroup(name string, parentID int) (int, error) {
	id, err := c.api.AddGroup(c.ctx, name, parentID)
	if err != nil {
		return 0, err
	}
	c.created++
	return id, nil
}

func nodesFromGroups(groups []model.Group) []tree.Node {
	nodes := make([]tree.Node, 0, len(groups))
	for _, g := range groups {
		nodes = append(nodes, tree.Node{ID: g.ID, Name: g.Name, ParentID: g.ParentID})
	}
	return nodes
}
