// Package config loads and exposes application configuration (TOML).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8090"
	DefaultPGHost          = "127.0.0.1"
	DefaultPGPort          = 5432
	DefaultPGUser          = "postgres"
	DefaultPGDatabase      = "garrison"
	DefaultPGSSLMode       = "disable"
	DefaultTrackerInterval = "1m"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Discord  DiscordConfig  `toml:"discord"`
	Roblox   RobloxConfig   `toml:"roblox"`
	Roles    RolesConfig    `toml:"roles"`
	Tracker  TrackerConfig  `toml:"tracker"`
	Ranks    []Rank         `toml:"ranks"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the operational HTTP listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// DiscordConfig holds the bot token source, guild, and channel ids.
// The token itself is read from the environment variable named by TokenEnv.
type DiscordConfig struct {
	TokenEnv           string `toml:"token_env"`
	GuildID            string `toml:"guild_id"`
	TrackerChannelID   string `toml:"tracker_channel_id"`
	RankRequestChannel string `toml:"rank_request_channel_id"`
}

// RobloxConfig holds Roblox API endpoints and the monitored group/place.
// CookieEnv names the environment variable carrying the .ROBLOSECURITY
// cookie required by the presence endpoint.
type RobloxConfig struct {
	UsersBaseURL      string `toml:"users_base_url"`
	GroupsBaseURL     string `toml:"groups_base_url"`
	PresenceBaseURL   string `toml:"presence_base_url"`
	ThumbnailsBaseURL string `toml:"thumbnails_base_url"`
	CookieEnv         string `toml:"cookie_env"`
	MonitoredGroupID  int64  `toml:"monitored_group_id"`
	MonitoredPlaceID  int64  `toml:"monitored_place_id"`
}

// RolesConfig maps verification states and rank tiers to Discord role ids.
type RolesConfig struct {
	Verified      string `toml:"verified"`
	Unverified    string `toml:"unverified"`
	Outsider      string `toml:"outsider"`
	Member        string `toml:"member"`
	BasicCategory string `toml:"basic_category"`
	LowCategory   string `toml:"low_category"`
	MidCategory   string `toml:"mid_category"`
	// SupporterGroupRole is the Roblox group role id that maps directly to
	// the supporter Discord role rather than through the rank table.
	SupporterGroupRole string `toml:"supporter_group_role"`
	Supporter          string `toml:"supporter"`
}

// TrackerConfig holds the presence tracker poll interval (Go duration string).
type TrackerConfig struct {
	Interval string `toml:"interval"`
}

// Rank tiers. Low covers entry ranks, Mid covers officer-track ranks;
// anything else gets neither category role.
const (
	TierLow = "low"
	TierMid = "mid"
)

// Rank maps one Roblox group role to a Discord role, tagged with its tier
// and the point threshold required to request it.
type Rank struct {
	GroupRoleID string `toml:"group_role_id"`
	RoleID      string `toml:"role_id"`
	Tier        string `toml:"tier"`
	Points      int    `toml:"points"`
}

// RankByGroupRole returns the rank table row for a Roblox group role id.
func (c Config) RankByGroupRole(groupRoleID string) (Rank, bool) {
	for _, r := range c.Ranks {
		if r.GroupRoleID == groupRoleID {
			return r, true
		}
	}
	return Rank{}, false
}

// RankByRoleID returns the rank table row for a Discord role id.
func (c Config) RankByRoleID(roleID string) (Rank, bool) {
	for _, r := range c.Ranks {
		if r.RoleID == roleID {
			return r, true
		}
	}
	return Rank{}, false
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Discord: DiscordConfig{
			TokenEnv: "DISCORD_TOKEN",
		},
		Roblox: RobloxConfig{
			UsersBaseURL:      "https://users.roblox.com",
			GroupsBaseURL:     "https://groups.roblox.com",
			PresenceBaseURL:   "https://presence.roblox.com",
			ThumbnailsBaseURL: "https://thumbnails.roblox.com",
			CookieEnv:         "ROBLOX_COOKIE",
		},
		Tracker: TrackerConfig{
			Interval: DefaultTrackerInterval,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	seen := make(map[string]struct{}, len(c.Ranks))
	for _, r := range c.Ranks {
		if r.GroupRoleID == "" || r.RoleID == "" {
			return fmt.Errorf("rank entry missing group_role_id or role_id")
		}
		if _, dup := seen[r.GroupRoleID]; dup {
			return fmt.Errorf("duplicate rank group_role_id %s", r.GroupRoleID)
		}
		seen[r.GroupRoleID] = struct{}{}
		switch r.Tier {
		case "", TierLow, TierMid:
		default:
			return fmt.Errorf("rank %s: unknown tier %q", r.GroupRoleID, r.Tier)
		}
	}
	return nil
}
