// Package config provides shared configuration types for mapdesc.
// It is decoupled from CLI concerns so the generator and catalog can be
// configured without going through cobra.
package config

import (
	"fmt"
	"strings"
)

// TargetConfig holds the PostGIS connection used to discover tables.
type TargetConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
	SSLMode  string `koanf:"sslmode"`

	// Schemas restricts discovery to these schemas. Empty means all.
	Schemas []string `koanf:"schemas"`
}

// Validate checks that the target can be connected to.
func (t *TargetConfig) Validate() error {
	if t == nil {
		return fmt.Errorf("target is not configured")
	}
	if t.Database == "" {
		return fmt.Errorf("target database is required")
	}
	switch strings.ToLower(t.SSLMode) {
	case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("unknown sslmode %q", t.SSLMode)
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("invalid port %d", t.Port)
	}
	return nil
}
