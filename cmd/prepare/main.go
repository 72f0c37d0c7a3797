// Command prepare is stage 2 of the pipeline: it reads users.json (the
// Person records a source-fetcher wrote to blob storage), runs C5's pure
// derivation, and writes timecamp_users.json — the sorted DesiredUser
// array C6 consumes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hrsync/tcsync/internal/blobstore"
	"github.com/hrsync/tcsync/internal/config"
	"github.com/hrsync/tcsync/internal/logging"
	"github.com/hrsync/tcsync/internal/model"
	"github.com/hrsync/tcsync/internal/prepare"
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
		Use:   "prepare",
		Short: "Derive TimeCamp-ready user records from source-system persons",
		Long: `prepare reads users.json (Person records produced by a source-system
fetcher), applies the group/name/role derivation policy, and writes
timecamp_users.json — the sorted input the sync binary converges against.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	root.AddCommand(newVersionCmd())

	root.PersistentFlags().StringVar(&cfg.workDir, "work-dir", ".", "Local directory backing blob storage (ignored when USE_S3_STORAGE is set)")
	root.PersistentFlags().BoolVar(&cfg.dryRun, "dry-run", false, "Log derived users without writing timecamp_users.json")
	root.PersistentFlags().BoolVar(&cfg.debug, "debug", false, "Enable human-readable, caller-annotated logging")
	root.PersistentFlags().StringVar(&cfg.logLvl, "log-level", "info", "Log level (debug, info, warn, error)")

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("prepare %s (commit: %s, built: %s)\n", version, commit, date)
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

	raw, err := store.GetJSON(ctx, "users.json")
	if err != nil {
		return fmt.Errorf("failed to read users.json: %w", err)
	}

	var set model.PersonSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return fmt.Errorf("failed to decode users.json: %w", err)
	}

	validate := validator.New()
	persons := make([]model.Person, 0, len(set.Users))
	for _, p := range set.Users {
		if err := validate.Struct(p); err != nil {
			logger.Warn("skipping invalid person record", zap.String("external_id", p.ExternalID), zap.Error(err))
			continue
		}
		persons = append(persons, p)
	}

	cfg := prepare.Config{
		ShowExternalID:        envCfg.ShowExternalID,
		UseSupervisorGroups:   envCfg.UseSupervisorGroups,
		UseDepartmentGroups:   envCfg.UseDepartmentGroups,
		UseJobTitleNameUsers:  envCfg.UseJobTitleNameUsers,
		UseJobTitleNameGroups: envCfg.UseJobTitleNameGroups,
		SkipDepartments:       envCfg.SkipDepartments,
		ReplaceEmailDomain:    envCfg.ReplaceEmailDomain,
		UseIsSupervisorRole:   envCfg.UseIsSupervisorRole,
	}

	desired := prepare.Run(persons, cfg, logger)

	out, err := json.MarshalIndent(desired, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode timecamp_users.json: %w", err)
	}

	if cli.dryRun {
		logger.Info("dry run: timecamp_users.json not written", zap.Int("derived_count", len(desired)))
	} else {
		if err := store.PutJSON(ctx, "timecamp_users.json", out); err != nil {
			return fmt.Errorf("failed to write timecamp_users.json: %w", err)
		}
	}

	logger.Info("prepare run complete",
		zap.Int("persons_read", len(set.Users)),
		zap.Int("persons_skipped", len(set.Users)-len(persons)),
		zap.Int("users_derived", len(desired)),
		zap.Bool("dry_run", cli.dryRun),
	)

	return nil
}
