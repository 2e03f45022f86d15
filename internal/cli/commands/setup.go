package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmidev/mapdesc/internal/cli/config"
	"github.com/fmidev/mapdesc/internal/cli/output"
	intconfig "github.com/fmidev/mapdesc/internal/config"
	"github.com/fmidev/mapdesc/internal/generator"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the loaded configuration
// and the command's output streams.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// GeneratorOptions maps the configuration onto generator options. Echo is
// where descriptor contents are printed, nil for none.
func (c *CommandContext) GeneratorOptions(echo io.Writer) generator.Options {
	return generator.Options{
		TablesFile: c.Cfg.TablesFile,
		OutputDir:  c.Cfg.OutputDir,
		Suffixes:   c.Cfg.Suffixes,
		Strict:     c.Cfg.Strict,
		CreateDirs: c.Cfg.CreateDirs,
		Echo:       echo,
		Logger:     c.Logger,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		TablesFile:   getEnvOrDefault("MAPDESC_TABLES_FILE", intconfig.DefaultTablesFile),
		OutputDir:    getEnvOrDefault("MAPDESC_OUTPUT_DIR", intconfig.DefaultOutputDir),
		Suffixes:     intconfig.DefaultSuffixes(),
		Strict:       os.Getenv("MAPDESC_STRICT") == "true",
		CreateDirs:   os.Getenv("MAPDESC_CREATE_DIRS") == "true",
		Verbose:      os.Getenv("MAPDESC_VERBOSE") == "true",
		OutputFormat: os.Getenv("MAPDESC_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
