// Package config provides Viper-based configuration loading for the
// shard server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the client listener settings.
type ServerConfig struct {
	// Host is the bind address for the WebSocket listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the WebSocket listener.
	Port int `mapstructure:"port"`
	// WriteTimeout is the per-message socket write deadline.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// SendQueueSize is the per-connection outbound queue depth; a client
	// that falls this far behind is disconnected.
	SendQueueSize int `mapstructure:"send_queue_size"`
}

// Addr returns the "host:port" listen address.
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

// WorldConfig holds simulation and content settings.
type WorldConfig struct {
	// SavePath is where world snapshots are written; empty disables
	// persistence.
	SavePath string `mapstructure:"save_path"`
	// MapPath is the terrain map file; empty uses a flat plane.
	MapPath string `mapstructure:"map_path"`
	// MapWidth and MapHeight size the fallback flat plane.
	MapWidth  int `mapstructure:"map_width"`
	MapHeight int `mapstructure:"map_height"`
	// ContentDir holds YAML item and mobile definition overrides.
	ContentDir string `mapstructure:"content_dir"`
	// ScriptDir holds the Lua behavior scripts.
	ScriptDir string `mapstructure:"script_dir"`
	// ScriptInstructionLimit bounds each behavior hook invocation;
	// zero uses the built-in default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	World   WorldConfig   `mapstructure:"world"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWorld(c.World); err != nil {
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
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.SendQueueSize < 1 {
		errs = append(errs, fmt.Sprintf("server.send_queue_size must be >= 1, got %d", s.SendQueueSize))
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
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateWorld(w WorldConfig) error {
	var errs []string
	if w.MapPath == "" {
		if w.MapWidth < 1 || w.MapHeight < 1 {
			errs = append(errs, fmt.Sprintf("world.map_width and world.map_height must be >= 1 without a map file, got %dx%d", w.MapWidth, w.MapHeight))
		}
	}
	if w.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("world.script_instruction_limit must be >= 0, got %d", w.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SHARD_ prefix
	v.SetEnvPrefix("SHARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults failed to unmarshal: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 2593)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.send_queue_size", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("world.save_path", "world.sav")
	v.SetDefault("world.map_path", "")
	v.SetDefault("world.map_width", 1024)
	v.SetDefault("world.map_height", 1024)
	v.SetDefault("world.content_dir", "")
	v.SetDefault("world.script_dir", "")
	v.SetDefault("world.script_instruction_limit", 0)
}
