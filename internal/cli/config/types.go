// Package config provides configuration management for the mapdesc CLI.
//
// It extends the shared types from internal/config with CLI-specific
// fields. TargetConfig is re-exported here via a type alias.
package config

import (
	intconfig "github.com/fmidev/mapdesc/internal/config"
)

// TargetConfig is an alias for the shared PostGIS target configuration.
type TargetConfig = intconfig.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	TablesFile   string               `koanf:"tables_file"`
	OutputDir    string               `koanf:"output_dir"`
	Suffixes     []string             `koanf:"suffixes"`
	Strict       bool                 `koanf:"strict"`
	CreateDirs   bool                 `koanf:"create_dirs"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Environment  string               `koanf:"environment"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific overrides, selected with --env.
type EnvConfig struct {
	TablesFile string        `koanf:"tables_file"`
	OutputDir  string        `koanf:"output_dir"`
	Target     *TargetConfig `koanf:"target"`
}

// Default configuration values, shared with internal/config.
const (
	DefaultTablesFile = intconfig.DefaultTablesFile
	DefaultOutputDir  = intconfig.DefaultOutputDir
	DefaultOutput     = "auto"
)
