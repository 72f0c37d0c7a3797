// Package sync implements C6: the convergence engine that diffs the
// prepare engine's DesiredUser list against live TimeCamp state and
// executes a minimal, correctly-ordered sequence of create/update/move/
// activate/deactivate operations (spec.md §4.C6).
package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/model"
	"github.com/hrsync/tcsync/internal/timecamp"
)

// API is the subset of *timecamp.Client the sync engine drives. Extracted
// as an interface so the engine can be tested against a fake and wrapped
// in a dry-run decorator without touching internal/timecamp.
type API interface {
	GetUsers(ctx context.Context) ([]model.User, error)
	GetGroups(ctx context.Context) ([]model.Group, error)
	AddUser(ctx context.Context, email, name string, groupID int) (int, error)
	UpdateUser(ctx context.Context, userID int, fields timecamp.UserUpdate) error
	AddGroup(ctx context.Context, name string, parentID int) (int, error)
	SetGroupManager(ctx context.Context, groupID, userID int, on bool) error
	SetUserSetting(ctx context.Context, userID int, key, value string) error
}

// dryRunAPI implements API by passing reads straight through to the
// wrapped API and replacing every write with a logged intent, per spec.md
// §4.C6 "Dry-run". Synthetic negative ids stand in for ids a real write
// would have returned, so dependent lookups within the same run (e.g. a
// newly "created" group being referenced by a newly "created" user) still
// resolve consistently.
type dryRunAPI struct {
	api      API
	logger   *zap.Logger
	userSeq  int
	groupSeq int
}

// NewDryRun wraps api so every mutating call is logged instead of executed.
func NewDryRun(api API, logger *zap.Logger) API {
	return &dryRunAPI{api: api, logger: logger.Named("dryrun"), userSeq: -1, groupSeq: -1}
}

func (d *dryRunAPI) GetUsers(ctx context.Context) ([]model.User, error)   { return d.api.GetUsers(ctx) }
func (d *dryRunAPI) GetGroups(ctx context.Context) ([]model.Group, error) { return d.api.GetGroups(ctx) }

func (d *dryRunAPI) AddUser(_ context.Context, email, name string, groupID int) (int, error) {
	d.logger.Info("would create user", zap.String("email", email), zap.String("name", name), zap.Int("group_id", groupID))
	id := d.userSeq
	d.userSeq--
	return id, nil
}

func (d *dryRunAPI) UpdateUser(_ context.Context, userID int, fields timecamp.UserUpdate) error {
	d.logger.Info("would update user", zap.Int("user_id", userID), zap.Any("fields", fields))
	return nil
}

func (d *dryRunAPI) AddGroup(_ context.Context, name string, parentID int) (int, error) {
	d.logger.Info("would create group", zap.String("name", name), zap.Int("parent_id", parentID))
	id := d.groupSeq
	d.groupSeq--
	return id, nil
}

func (d *dryRunAPI) SetGroupManager(_ context.Context, groupID, userID int, on bool) error {
	d.logger.Info("would set group manager", zap.Int("group_id", groupID), zap.Int("user_id", userID), zap.Bool("on", on))
	return nil
}

func (d *dryRunAPI) SetUserSetting(_ context.Context, userID int, key, value string) error {
	d.logger.Info("would set user setting", zap.Int("user_id", userID), zap.String("key", key), zap.String("value", value))
	return nil
}
