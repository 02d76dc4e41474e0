// Package config provides Viper-based configuration loading for the combat server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds websocket gateway settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP/websocket listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP/websocket listener.
	Port int `mapstructure:"port"`
	// AllowedOrigins lists origins permitted to open websocket connections.
	// An entry of "*" disables origin checking.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CombatConfig holds the combat engine tuning knobs.
type CombatConfig struct {
	// ActionPointCapacity is the number of independently recharging action
	// point slots each participant carries.
	ActionPointCapacity int `mapstructure:"action_point_capacity"`
	// RechargeInterval is how long a used action point slot stays unavailable.
	RechargeInterval time.Duration `mapstructure:"recharge_interval"`
	// DefendMagnitude is the default defense buff strength for the defend action.
	DefendMagnitude int `mapstructure:"defend_magnitude"`
	// DefendDuration is the default defense buff duration in action ticks.
	DefendDuration int `mapstructure:"defend_duration"`
	// NPCTickInterval is how often each NPC driver polls for an available
	// action point slot.
	NPCTickInterval time.Duration `mapstructure:"npc_tick_interval"`
}

// ContentConfig holds paths to static game content.
type ContentConfig struct {
	// ActionsPath is the action catalog YAML file; empty uses the built-in catalog.
	ActionsPath string `mapstructure:"actions_path"`
	// NPCsDir is the directory of NPC template YAML files; empty uses the
	// built-in default template only.
	NPCsDir string `mapstructure:"npcs_dir"`
	// NPCPolicyScript is an optional Lua script driving NPC action selection;
	// empty uses the built-in weakest-target policy.
	NPCPolicyScript string `mapstructure:"npc_policy_script"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Combat  CombatConfig  `mapstructure:"combat"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if len(s.AllowedOrigins) == 0 {
		errs = append(errs, "server.allowed_origins must not be empty")
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.ActionPointCapacity < 1 {
		errs = append(errs, fmt.Sprintf("combat.action_point_capacity must be >= 1, got %d", c.ActionPointCapacity))
	}
	if c.RechargeInterval <= 0 {
		errs = append(errs, "combat.recharge_interval must be > 0")
	}
	if c.DefendMagnitude < 1 {
		errs = append(errs, fmt.Sprintf("combat.defend_magnitude must be >= 1, got %d", c.DefendMagnitude))
	}
	if c.DefendDuration < 1 {
		errs = append(errs, fmt.Sprintf("combat.defend_duration must be >= 1, got %d", c.DefendDuration))
	}
	if c.NPCTickInterval <= 0 {
		errs = append(errs, "combat.npc_tick_interval must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return unmarshal(v)
}

// LoadDefaults builds a Config from defaults and environment overrides only,
// for running without a configuration file.
//
// Postcondition: Returns a valid Config or a non-nil error.
func LoadDefaults() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("combat.action_point_capacity", 3)
	v.SetDefault("combat.recharge_interval", "3s")
	v.SetDefault("combat.defend_magnitude", 5)
	v.SetDefault("combat.defend_duration", 2)
	v.SetDefault("combat.npc_tick_interval", "1500ms")

	v.SetDefault("content.actions_path", "")
	v.SetDefault("content.npcs_dir", "")
	v.SetDefault("content.npc_policy_script", "")
}
