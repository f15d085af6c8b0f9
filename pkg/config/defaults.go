package config

import (
	"strings"
	"time"

	"github.com/marmos91/nfs2d/internal/vfs"
)

// Default ports. 2049 is the registered NFS port; 20048 is the port
// nfs-utils binds rpc.mountd to when given a fixed port.
const (
	DefaultNFSPort   uint16 = 2049
	DefaultMountPort uint16 = 20048
)

// ApplyDefaults fills in unspecified configuration fields. Zero values are
// replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyResolverDefaults(&cfg.Resolver)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Bind == "" {
		cfg.Bind = "0.0.0.0"
	}
	if cfg.NFSPort == 0 {
		cfg.NFSPort = DefaultNFSPort
	}
	if cfg.MountPort == 0 {
		cfg.MountPort = DefaultMountPort
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyResolverDefaults(cfg *ResolverConfig) {
	if cfg.MaxScanEntries == 0 {
		cfg.MaxScanEntries = vfs.DefaultMaxScanEntries
	}
	if cfg.MaxScanDepth == 0 {
		cfg.MaxScanDepth = vfs.DefaultMaxScanDepth
	}
}
