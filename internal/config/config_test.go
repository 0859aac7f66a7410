package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != DefaultHTTPAddr {
		t.Fatalf("server addr = %q, want %q", cfg.Server.Addr, DefaultHTTPAddr)
	}
	if cfg.Postgres.Host != DefaultPGHost || cfg.Postgres.Port != DefaultPGPort {
		t.Fatalf("postgres defaults not applied: %+v", cfg.Postgres)
	}
	if cfg.Tracker.Interval != DefaultTrackerInterval {
		t.Fatalf("tracker interval = %q, want %q", cfg.Tracker.Interval, DefaultTrackerInterval)
	}
	if cfg.Roblox.UsersBaseURL == "" || cfg.Roblox.PresenceBaseURL == "" {
		t.Fatalf("roblox endpoint defaults not applied: %+v", cfg.Roblox)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[postgres]
host = "db.internal"
database = "garrison_test"

[roblox]
monitored_group_id = 100
monitored_place_id = 4238077359

[[ranks]]
group_role_id = "201"
role_id = "r-rank1"
tier = "low"
points = 10

[[ranks]]
group_role_id = "202"
role_id = "r-rank2"
tier = "mid"
points = 25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log config = %+v", cfg.Log)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Fatalf("postgres host = %q", cfg.Postgres.Host)
	}
	// Unset fields keep their defaults.
	if cfg.Postgres.Port != DefaultPGPort {
		t.Fatalf("postgres port = %d, want default", cfg.Postgres.Port)
	}
	if cfg.Roblox.MonitoredPlaceID != 4238077359 {
		t.Fatalf("monitored place = %d", cfg.Roblox.MonitoredPlaceID)
	}

	rank, ok := cfg.RankByGroupRole("202")
	if !ok || rank.RoleID != "r-rank2" || rank.Tier != TierMid {
		t.Fatalf("rank lookup = %+v (ok=%v)", rank, ok)
	}
	if _, ok := cfg.RankByGroupRole("999"); ok {
		t.Fatal("unknown group role id resolved to a rank")
	}
	if rank, ok := cfg.RankByRoleID("r-rank1"); !ok || rank.Points != 10 {
		t.Fatalf("rank by role id = %+v (ok=%v)", rank, ok)
	}
}

func TestLoadRejectsDuplicateGroupRole(t *testing.T) {
	path := writeConfig(t, `
[[ranks]]
group_role_id = "201"
role_id = "r-rank1"

[[ranks]]
group_role_id = "201"
role_id = "r-rank2"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("err = %v, want duplicate group_role_id error", err)
	}
}

func TestLoadRejectsUnknownTier(t *testing.T) {
	path := writeConfig(t, `
[[ranks]]
group_role_id = "201"
role_id = "r-rank1"
tier = "legendary"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "tier") {
		t.Fatalf("err = %v, want unknown tier error", err)
	}
}
