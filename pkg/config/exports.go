package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/nfs2d/internal/export"
)

// exportOptions mirrors the free-form per-export options section.
type exportOptions struct {
	ReadOnly *bool    `mapstructure:"read_only"`
	AnonUID  *uint32  `mapstructure:"anon_uid"`
	AnonGID  *uint32  `mapstructure:"anon_gid"`
	Clients  []string `mapstructure:"clients"`
}

// DecodeExportOptions decodes an export's options map into typed options.
// Missing fields get the traditional NFS defaults: read-only with the
// anonymous identity mapped to nobody (65534).
func DecodeExportOptions(raw map[string]any) (export.Options, error) {
	opts := export.Options{
		ReadOnly: true,
		AnonUID:  65534,
		AnonGID:  65534,
	}

	if len(raw) == 0 {
		return opts, nil
	}

	var decoded exportOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &decoded,
		ErrorUnused: true,
	})
	if err != nil {
		return export.Options{}, fmt.Errorf("build options decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return export.Options{}, fmt.Errorf("decode export options: %w", err)
	}

	if decoded.ReadOnly != nil {
		opts.ReadOnly = *decoded.ReadOnly
	}
	if decoded.AnonUID != nil {
		opts.AnonUID = *decoded.AnonUID
	}
	if decoded.AnonGID != nil {
		opts.AnonGID = *decoded.AnonGID
	}
	opts.Clients = decoded.Clients

	return opts, nil
}

// BuildExportTable converts the configured exports into the immutable table
// served by the Mount and NFS handlers.
func BuildExportTable(cfg *Config) (*export.Table, error) {
	entries := make([]export.Entry, 0, len(cfg.Exports))

	for i, exp := range cfg.Exports {
		opts, err := DecodeExportOptions(exp.Options)
		if err != nil {
			return nil, fmt.Errorf("exports[%d] (%s): %w", i, exp.Name, err)
		}
		entries = append(entries, export.Entry{
			Name:    exp.Name,
			Path:    exp.Path,
			Options: opts,
		})
	}

	return export.NewTable(entries)
}
