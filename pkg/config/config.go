// Package config loads and validates the server configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (NFS2D_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete server configuration.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains the socket and lifecycle settings
	Server ServerConfig `mapstructure:"server"`

	// Resolver bounds the inode scans used to resolve file handles
	Resolver ResolverConfig `mapstructure:"resolver"`

	// Exports defines the directories published to clients
	Exports []ExportConfig `mapstructure:"exports" validate:"dive"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains the socket and lifecycle settings.
type ServerConfig struct {
	// Bind is the address both UDP sockets listen on
	Bind string `mapstructure:"bind" validate:"required"`

	// NFSPort is the UDP port for the NFS program
	NFSPort uint16 `mapstructure:"nfs_port"`

	// MountPort is the UDP port for the Mount program
	MountPort uint16 `mapstructure:"mount_port"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`

	// RateLimit is the sustained datagrams-per-second budget; 0 disables it
	RateLimit uint `mapstructure:"rate_limit"`

	// RateBurst is the burst capacity of the rate limiter
	RateBurst uint `mapstructure:"rate_burst"`
}

// ResolverConfig bounds the recursive inode scans.
type ResolverConfig struct {
	// MaxScanEntries caps how many directory entries one handle resolution
	// may visit before giving up
	MaxScanEntries int `mapstructure:"max_scan_entries" validate:"gte=0"`

	// MaxScanDepth caps the directory nesting a scan descends into
	MaxScanDepth int `mapstructure:"max_scan_depth" validate:"gte=0"`
}

// ExportConfig defines a single published directory.
type ExportConfig struct {
	// Name is the mount name clients pass to MNT (without leading slash)
	Name string `mapstructure:"name" validate:"required"`

	// Path is the absolute directory being exported
	Path string `mapstructure:"path" validate:"required,startswith=/"`

	// Options is the free-form per-export options section, decoded into
	// typed export options by DecodeExportOptions
	Options map[string]any `mapstructure:"options"`
}

// Load loads configuration from file, environment, and defaults.
// An empty configPath skips the file and uses environment plus defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("NFS2D")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
