// Package config resolves the typed Config object from the process
// environment exactly once at startup (spec.md §6.1, §9 "Global
// configuration"). Nothing downstream of Load consults os.Getenv again —
// the teacher's cmd/server/main.go has the same discipline, resolving its
// config struct once in newRootCmd/run and passing it down explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hrsync/tcsync/internal/errs"
)

var validate = validator.New()

// Config is the fully-resolved, immutable configuration for a pipeline run.
// Both the prepare and sync binaries load one of these; prepare reads the
// derivation-policy and blob-storage fields, sync reads the TimeCamp API,
// sync-toggle, blob-storage and metrics fields plus UseSupervisorGroups.
type Config struct {
	// TimeCamp API
	APIKey         string `validate:"required"`
	Domain         string `validate:"required,fqdn"`
	RootGroupID    int    `validate:"required"`
	IgnoredUserIDs []int

	// Group/name derivation policy (prepare)
	ShowExternalID        bool
	UseSupervisorGroups   bool
	UseDepartmentGroups   bool
	UseJobTitleNameUsers  bool
	UseJobTitleNameGroups bool
	SkipDepartments       []string
	ReplaceEmailDomain    string
	UseIsSupervisorRole   bool

	// Sync behavior toggles
	DisableNewUsers            bool
	DisableUserDeactivation    bool
	DisableExternalIDSync      bool
	DisableAdditionalEmailSync bool
	DisableManualUserUpdates   bool
	DisableGroupUpdates        bool
	DisableRoleUpdates         bool
	DisableGroupsCreation      bool
	DisabledUsersGroupID       int

	// Blob storage
	UseS3Storage   bool
	S3Endpoint     string
	S3AccessKeyID  string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3PathPrefix   string
	S3ForcePathStyle bool

	// Metrics (optional)
	MetricsPushgatewayURL string
}

// deprecatedAliases maps a canonical variable name to the pending rename
// mentioned in spec.md §9 that this implementation refuses to honor (see
// SPEC_FULL.md Decision D3). Only the handful the source was mid-migrating
// on are listed; any other unrecognized variable is simply ignored, as is
// conventional for env-var based configuration.
var deprecatedAliases = map[string]string{
	"TIMECAMP_DISABLE_NEW_USERS": "TIMECAMP_SKIP_NEW_USERS_CREATION",
}

// Load resolves Config from the environment. It returns an error wrapping
// errs.ErrConfig — fatal at process level per spec.md §7 — on any missing
// required variable, a non-integer TIMECAMP_ROOT_GROUP_ID or
// TIMECAMP_IGNORED_USER_IDS entry, a value rejected by struct validation,
// S3 enabled without a bucket, or deprecated-only variable usage. An
// unparseable optional boolean or integer falls back to its default.
func Load() (*Config, error) {
	for canonical, deprecated := range deprecatedAliases {
		if _, hasCanonical := os.LookupEnv(canonical); !hasCanonical {
			if _, hasDeprecated := os.LookupEnv(deprecated); hasDeprecated {
				return nil, fmt.Errorf("%w: %s is deprecated, set %s instead", errs.ErrConfig, deprecated, canonical)
			}
		}
	}

	apiKey, err := requiredString("TIMECAMP_API_KEY")
	if err != nil {
		return nil, err
	}

	rootGroupID, err := requiredInt("TIMECAMP_ROOT_GROUP_ID")
	if err != nil {
		return nil, err
	}

	ignoredIDs, err := optionalIntList("TIMECAMP_IGNORED_USER_IDS")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         apiKey,
		Domain:         optionalString("TIMECAMP_DOMAIN", "app.timecamp.com"),
		RootGroupID:    rootGroupID,
		IgnoredUserIDs: ignoredIDs,

		ShowExternalID:        optionalBool("TIMECAMP_SHOW_EXTERNAL_ID", true),
		UseSupervisorGroups:   optionalBool("TIMECAMP_USE_SUPERVISOR_GROUPS", false),
		UseDepartmentGroups:   optionalBool("TIMECAMP_USE_DEPARTMENT_GROUPS", true),
		UseJobTitleNameUsers:  optionalBool("TIMECAMP_USE_JOB_TITLE_NAME_USERS", false),
		UseJobTitleNameGroups: optionalBool("TIMECAMP_USE_JOB_TITLE_NAME_GROUPS", false),
		SkipDepartments:       optionalStringList("TIMECAMP_SKIP_DEPARTMENTS"),
		ReplaceEmailDomain:    strings.TrimPrefix(optionalString("TIMECAMP_REPLACE_EMAIL_DOMAIN", ""), "@"),
		UseIsSupervisorRole:   optionalBool("TIMECAMP_USE_IS_SUPERVISOR_ROLE", false),

		DisableNewUsers:            optionalBool("TIMECAMP_DISABLE_NEW_USERS", false),
		DisableUserDeactivation:    optionalBool("TIMECAMP_DISABLE_USER_DEACTIVATION", false),
		DisableExternalIDSync:      optionalBool("TIMECAMP_DISABLE_EXTERNAL_ID_SYNC", false),
		DisableAdditionalEmailSync: optionalBool("TIMECAMP_DISABLE_ADDITIONAL_EMAIL_SYNC", false),
		DisableManualUserUpdates:   optionalBool("TIMECAMP_DISABLE_MANUAL_USER_UPDATES", false),
		DisableGroupUpdates:        optionalBool("TIMECAMP_DISABLE_GROUP_UPDATES", false),
		DisableRoleUpdates:         optionalBool("TIMECAMP_DISABLE_ROLE_UPDATES", false),
		DisableGroupsCreation:      optionalBool("TIMECAMP_DISABLE_GROUPS_CREATION", false),
		DisabledUsersGroupID:       optionalInt("TIMECAMP_DISABLED_USERS_GROUP_ID", 0),

		UseS3Storage:     optionalBool("USE_S3_STORAGE", false),
		S3Endpoint:       optionalString("S3_ENDPOINT_URL", ""),
		S3AccessKeyID:    optionalString("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:      optionalString("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:         optionalString("S3_BUCKET_NAME", ""),
		S3Region:         optionalString("S3_REGION", ""),
		S3PathPrefix:     optionalString("S3_PATH_PREFIX", ""),
		S3ForcePathStyle: optionalBool("S3_FORCE_PATH_STYLE", false),

		MetricsPushgatewayURL: optionalString("METRICS_PUSHGATEWAY_URL", ""),
	}

	if cfg.UseS3Storage && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("%w: S3_BUCKET_NAME is required when USE_S3_STORAGE is set", errs.ErrConfig)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrConfig, err)
	}

	return cfg, nil
}

func requiredString(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", errs.ErrConfig, key)
	}
	return v, nil
}

func requiredInt(key string) (int, error) {
	raw, err := requiredString(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errs.ErrConfig, key, raw)
	}
	return n, nil
}

func optionalString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func optionalInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func optionalBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}

func optionalStringList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optionalIntList(key string) ([]int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s contains non-integer value %q", errs.ErrConfig, key, p)
		}
		out = append(out, n)
	}
	return out, nil
}
