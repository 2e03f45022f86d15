package config

import "github.com/fmidev/mapdesc/internal/naming"

// Default configuration values.
const (
	DefaultTablesFile = "tables"
	DefaultOutputDir  = "."
	DefaultHost       = "localhost"
	DefaultPort       = 5432
	DefaultSSLMode    = "disable"
)

// DefaultSuffixes returns a fresh copy of the default suffix list.
func DefaultSuffixes() []string {
	return append([]string(nil), naming.DefaultSuffixes...)
}

// ApplyTargetDefaults applies connection defaults to a TargetConfig.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	if t.Host == "" {
		t.Host = DefaultHost
	}
	if t.Port == 0 {
		t.Port = DefaultPort
	}
	if t.SSLMode == "" {
		t.SSLMode = DefaultSSLMode
	}
}
