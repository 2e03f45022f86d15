package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/fmidev/mapdesc/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TablesFile == "" {
		return fmt.Errorf("tables_file is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.OutputFormat != "" && !slices.Contains(output.Modes(), c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of %v)", c.OutputFormat, output.Modes())
	}
	return nil
}

// ValidateDirectories checks that the output directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.OutputDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("output directory does not exist: %s\nHint: Create the directory or use --output-dir to specify a different path", c.OutputDir)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", c.OutputDir)
	}
	return nil
}
