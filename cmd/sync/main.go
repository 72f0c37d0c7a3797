// Command sync is stage 3 of the pipeline: it reads timecamp_users.json
// (the DesiredUser array prepare wrote), fetches live TimeCamp state, and
// runs C6's convergence engine to reconcile one onto the other.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/blobstore"
	"github.com/hrsync/tcsync/internal/config"
	"github.com/hrsync/tcsync/internal/errs"
	"github.com/hrsync/tcsync/internal/logging"
	"github.com/hrsync/tcsync/internal/metrics"
	"github.com/hrsync/tcsync/internal/model"
	"github.com/hrsync/tcsync/internal/sync"
	"github.com/hrsync/tcsync/internal/timecamp"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliConfig struct {
	workDir string
	dryRun  bool
	debug   bool
	logLvl  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &cliConfig{}

	root := &cobra.Command{
		Use:   "sync",
		Short: "Converge TimeCamp onto the derived directory snapshot",
		Long: `sync reads timecamp_users.json (the DesiredUser array prepare produced),
fetches live TimeCamp users and groups, and issues the minimal set of
create/update/activate/deactivate calls needed to converge one onto the
other.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	root.AddCommand(newVersionCmd())

	root.PersistentFlags().StringVar(&cfg.workDir, "work-dir", ".", "Local directory backing blob storage (ignored when USE_S3_STORAGE is set)")
	root.PersistentFlags().BoolVar(&cfg.dryRun, "dry-run", false, "Log intended writes without calling the TimeCamp API")
	root.PersistentFlags().BoolVar(&cfg.debug, "debug", false, "Enable human-readable, caller-annotated logging")
	root.PersistentFlags().StringVar(&cfg.logLvl, "log-level", "info", "Log level (debug, info, warn, error)")

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sync %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func run(ctx context.Context, cli *cliConfig) error {
	logger, err := logging.Build(cli.logLvl, cli.debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	envCfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		return err
	}

	store, err := blobstore.New(ctx, envCfg, cli.workDir)
	if err != nil {
		return fmt.Errorf("failed to construct blob store: %w", err)
	}

	raw, err := store.GetJSON(ctx, "timecamp_users.json")
	if err != nil {
		return fmt.Errorf("failed to read timecamp_users.json: %w", err)
	}

	var desired []model.DesiredUser
	if err := json.Unmarshal(raw, &desired); err != nil {
		return fmt.Errorf("failed to decode timecamp_users.json: %w", err)
	}

	reg := metrics.New()
	client := timecamp.New(timecamp.Config{
		APIKey:      envCfg.APIKey,
		Domain:      envCfg.Domain,
		RootGroupID: envCfg.RootGroupID,
	}, logger)
	client.SetMetrics(reg)

	engine := sync.New(client, sync.Config{
		RootGroupID:         envCfg.RootGroupID,
		IgnoredUserIDs:      envCfg.IgnoredUserIDs,
		UseSupervisorGroups: envCfg.UseSupervisorGroups,

		DisableNewUsers:            envCfg.DisableNewUsers,
		DisableUserDeactivation:    envCfg.DisableUserDeactivation,
		DisableExternalIDSync:      envCfg.DisableExternalIDSync,
		DisableAdditionalEmailSync: envCfg.DisableAdditionalEmailSync,
		DisableManualUserUpdates:   envCfg.DisableManualUserUpdates,
		DisableGroupUpdates:        envCfg.DisableGroupUpdates,
		DisableRoleUpdates:         envCfg.DisableRoleUpdates,
		DisableGroupsCreation:      envCfg.DisableGroupsCreation,
		DisabledUsersGroupID:       envCfg.DisabledUsersGroupID,

		DryRun: cli.dryRun,
	}, logger)

	summary, runErr := engine.Run(ctx, desired)
	reg.RecordSummary(summary)

	if envCfg.MetricsPushgatewayURL != "" {
		if pushErr := reg.PushIfConfigured(envCfg.MetricsPushgatewayURL); pushErr != nil {
			logger.Warn("failed to push metrics", zap.Error(pushErr))
		}
	}

	logger.Info("sync run complete",
		zap.Int("users_created", summary.UsersCreated),
		zap.Int("users_updated", summary.UsersUpdated),
		zap.Int("users_reactivated", summary.UsersReactivated),
		zap.Int("users_deactivated", summary.UsersDeactivated),
		zap.Int("users_skipped", summary.UsersSkipped),
		zap.Int("groups_created", summary.GroupsCreated),
		zap.Bool("dry_run", cli.dryRun),
	)

	if runErr != nil {
		logger.Error("sync run failed", zap.Error(runErr), zap.Bool("fatal", errs.Classify(runErr).Fatal()))
		return runErr
	}

	return nil
}
