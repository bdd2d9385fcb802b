package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/questkeeper/internal/logger"
)

// EngineConfig holds all configuration for the quest server.
type EngineConfig struct {
	Logging     logger.Config     `yaml:"logging"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Database    DatabaseConfig    `yaml:"database"`
	Rewards     RewardsConfig     `yaml:"rewards"`
	Player      PlayerConfig      `yaml:"player"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

// CatalogConfig selects where quest and item content comes from.
type CatalogConfig struct {
	// Source is "yaml" (default) or "database".
	Source string `yaml:"source"`

	// QuestsPath is a YAML file or a directory of YAML files.
	QuestsPath string `yaml:"quests_path"`

	// ItemsPath is the item template YAML file. Empty means placeholder items.
	ItemsPath string `yaml:"items_path"`

	// HelpPath is an optional help topic YAML file replacing the built-in help.
	HelpPath string `yaml:"help_path"`
}

// DatabaseConfig holds the SQL content source settings.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `yaml:"conn_max_lifetime_seconds"`
}

// ConnMaxLifetime returns the pool lifetime as a duration
func (p PostgresConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(p.ConnMaxLifetimeSeconds) * time.Second
}

// RewardsConfig holds reward distribution settings.
type RewardsConfig struct {
	// DropOffset is the maximum absolute per-axis distance of a world drop from the player.
	DropOffset float64 `yaml:"drop_offset"`
}

// PlayerConfig holds the limits of a new session's player.
type PlayerConfig struct {
	MaxCarryWeight    float64 `yaml:"max_carry_weight"`
	MaxInventorySlots int     `yaml:"max_inventory_slots"`
	StartingGold      int     `yaml:"starting_gold"`

	// World grid a session's player stands in
	WorldWidth  int `yaml:"world_width"`
	WorldHeight int `yaml:"world_height"`
	TileStack   int `yaml:"tile_stack"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// RateLimitConfig holds per-session command throttling settings.
type RateLimitConfig struct {
	// MaxCommands is the number of commands allowed per window. 0 disables throttling.
	MaxCommands int `yaml:"max_commands"`

	// WindowSeconds is the length of the sliding window.
	WindowSeconds int `yaml:"window_seconds"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// Address is the listen address, e.g. ":4443"
	Address string `yaml:"address"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns an EngineConfig with secure defaults.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Logging: logger.DefaultConfig(),
		Catalog: CatalogConfig{
			Source:     "yaml",
			QuestsPath: "data/quests",
			ItemsPath:  "data/items.yaml",
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/questkeeper.db",
			Postgres: PostgresConfig{
				Host:                   "localhost",
				Port:                   5432,
				SSLMode:                "disable",
				MaxOpenConns:           25,
				MaxIdleConns:           5,
				ConnMaxLifetimeSeconds: 300,
			},
		},
		Rewards: RewardsConfig{
			DropOffset: 1.0,
		},
		Player: PlayerConfig{
			MaxCarryWeight:    100,
			MaxInventorySlots: 20,
			StartingGold:      0,
			WorldWidth:        32,
			WorldHeight:       32,
			TileStack:         8,
		},
		WebSocket: WebSocketConfig{
			Address:        ":4443",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,   // Default: 3 connections per IP
			MaxTotal: 100, // Default: 100 total connections
		},
		RateLimit: RateLimitConfig{
			MaxCommands:   20,
			WindowSeconds: 5,
		},
	}
}

// LoadConfig loads engine configuration from a YAML file.
// A missing file yields the defaults. Values absent from the file keep their defaults.
func LoadConfig(path string) (*EngineConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *EngineConfig) Validate() error {
	switch c.Catalog.Source {
	case "yaml", "database":
	default:
		return fmt.Errorf("catalog.source must be 'yaml' or 'database', got '%s'", c.Catalog.Source)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be 'sqlite' or 'postgres', got '%s'", c.Database.Driver)
	}

	if c.Rewards.DropOffset < 0 {
		return fmt.Errorf("rewards.drop_offset must not be negative, got %v", c.Rewards.DropOffset)
	}

	if c.Player.WorldWidth <= 0 || c.Player.WorldHeight <= 0 {
		return fmt.Errorf("player world size must be positive, got %dx%d", c.Player.WorldWidth, c.Player.WorldHeight)
	}

	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
