// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"uno-game-bot/internal/game/uno"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Game      GameConfig      `mapstructure:"game"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// GameConfig holds settings applied to new rooms.
type GameConfig struct {
	Preset      string        `mapstructure:"preset"`
	Rules       []string      `mapstructure:"rules"`
	HandSize    int           `mapstructure:"hand_size"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	Timer       TimerConfig   `mapstructure:"timer"`
}

// TimerConfig holds the turn clock alert thresholds.
type TimerConfig struct {
	TurnAlert  time.Duration `mapstructure:"turn_alert"`
	GameAlert  time.Duration `mapstructure:"game_alert"`
	TicksAlert int           `mapstructure:"ticks_alert"`
}

// StatsConfig holds player statistics configuration.
type StatsConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	QueueSize int  `mapstructure:"queue_size"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g., BOT_TOKEN, DATABASE_HOST, GAME_PRESET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is OK - env vars can provide all config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := uno.ParseRuleSet(cfg.Game.Rules); err != nil {
		return nil, fmt.Errorf("invalid game.rules: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("log.level", "info")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "unobot")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "unobot")
	v.SetDefault("database.pool_size", 4)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Game defaults
	v.SetDefault("game.preset", "classic")
	v.SetDefault("game.rules", []string{})
	v.SetDefault("game.hand_size", uno.DefaultHandSize)
	v.SetDefault("game.lock_timeout", "5s")
	v.SetDefault("game.timer.turn_alert", "90s")
	v.SetDefault("game.timer.game_alert", "1h")
	v.SetDefault("game.timer.ticks_alert", 300)

	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.queue_size", 256)
}

// RuleSet returns the rules enabled in new rooms. Load has validated them.
func (g *GameConfig) RuleSet() uno.RuleSet {
	rs, _ := uno.ParseRuleSet(g.Rules)
	return rs
}

// EngineConfig converts the game section into engine settings.
func (g *GameConfig) EngineConfig() uno.Config {
	return uno.Config{
		Rules:    g.RuleSet(),
		HandSize: g.HandSize,
		Timer: uno.TimerConfig{
			TurnAlert:  g.Timer.TurnAlert,
			GameAlert:  g.Timer.GameAlert,
			TicksAlert: g.Timer.TicksAlert,
		},
	}
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
