package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		orig, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, orig)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	clearEnv(t, "TIMECAMP_API_KEY", "TIMECAMP_ROOT_GROUP_ID")
	os.Setenv("TIMECAMP_ROOT_GROUP_ID", "1")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when TIMECAMP_API_KEY is unset")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t, "TIMECAMP_API_KEY", "TIMECAMP_ROOT_GROUP_ID", "TIMECAMP_DOMAIN", "TIMECAMP_USE_DEPARTMENT_GROUPS")
	os.Setenv("TIMECAMP_API_KEY", "secret")
	os.Setenv("TIMECAMP_ROOT_GROUP_ID", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Domain != "app.timecamp.com" {
		t.Errorf("Domain default = %q, want app.timecamp.com", cfg.Domain)
	}
	if cfg.RootGroupID != 42 {
		t.Errorf("RootGroupID = %d, want 42", cfg.RootGroupID)
	}
	if !cfg.UseDepartmentGroups {
		t.Error("UseDepartmentGroups default should be true")
	}
}

func TestLoadRejectsDeprecatedOnlyVariable(t *testing.T) {
	clearEnv(t, "TIMECAMP_API_KEY", "TIMECAMP_ROOT_GROUP_ID", "TIMECAMP_DISABLE_NEW_USERS", "TIMECAMP_SKIP_NEW_USERS_CREATION")
	os.Setenv("TIMECAMP_API_KEY", "secret")
	os.Setenv("TIMECAMP_ROOT_GROUP_ID", "42")
	os.Setenv("TIMECAMP_SKIP_NEW_USERS_CREATION", "true")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when only the deprecated variable is set")
	}
}

func TestLoadAcceptsCanonicalEvenWhenDeprecatedAlsoSet(t *testing.T) {
	clearEnv(t, "TIMECAMP_API_KEY", "TIMECAMP_ROOT_GROUP_ID", "TIMECAMP_DISABLE_NEW_USERS", "TIMECAMP_SKIP_NEW_USERS_CREATION")
	os.Setenv("TIMECAMP_API_KEY", "secret")
	os.Setenv("TIMECAMP_ROOT_GROUP_ID", "42")
	os.Setenv("TIMECAMP_DISABLE_NEW_USERS", "true")
	os.Setenv("TIMECAMP_SKIP_NEW_USERS_CREATION", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DisableNewUsers {
		t.Error("DisableNewUsers should reflect the canonical variable")
	}
}

func TestLoadRequiresS3BucketWhenS3Enabled(t *testing.T) {
	clearEnv(t, "TIMECAMP_API_KEY", "TIMECAMP_ROOT_GROUP_ID", "USE_S3_STORAGE", "S3_BUCKET_NAME")
	os.Setenv("TIMECAMP_API_KEY", "secret")
	os.Setenv("TIMECAMP_ROOT_GROUP_ID", "42")
	os.Setenv("USE_S3_STORAGE", "true")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when USE_S3_STORAGE is set without S3_BUCKET_NAME")
	}
}

func TestOptionalIntListParsesCommaSeparated(t *testing.T) {
	clearEnv(t, "TIMECAMP_IGNORED_USER_IDS")
	os.Setenv("TIMECAMP_IGNORED_USER_IDS", "1, 2,3")

	got, err := optionalIntList("TIMECAMP_IGNORED_USER_IDS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
