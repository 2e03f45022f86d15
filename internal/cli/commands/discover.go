package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmidev/mapdesc/internal/catalog"
	"github.com/fmidev/mapdesc/internal/cli/config"
	intconfig "github.com/fmidev/mapdesc/internal/config"
	"github.com/fmidev/mapdesc/internal/tables"
)

// tableSource lists geometry tables.
type tableSource interface {
	Tables(ctx context.Context, schemas []string) ([]tables.Row, error)
	Close() error
}

// openCatalog is replaced in tests.
var openCatalog = func(ctx context.Context, target *config.TargetConfig, logger *slog.Logger) (tableSource, error) {
	c, err := catalog.Open(ctx, target, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DiscoverOptions holds the discover command's local flags.
type DiscoverOptions struct {
	Stdout bool
}

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand() *cobra.Command {
	opts := &DiscoverOptions{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Write the table list from a PostGIS database",
		Long: `Connect to the configured PostGIS target and list every table registered
in geometry_columns as a "schema table" row.

The rows replace the table list file unless --stdout is given. An empty
result is an error and leaves the file untouched. Use --schema to restrict
the listing to some schemas.

The target comes from the "target" section of mapdesc.yaml or the
MAPDESC_TARGET__* environment variables.`,
		Example: `  # Refresh ./tables from the database
  mapdesc discover

  # Only two schemas, printed instead of written
  mapdesc discover --schema geo --schema hydro --stdout

  # Rows as JSON
  mapdesc discover --stdout -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiscover(cmd.Context(), NewCommandContext(cmd), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print rows instead of writing the table list")
	cmd.Flags().StringSlice("schema", nil, "Only list tables in this schema (repeatable)")

	return cmd
}

func runDiscover(ctx context.Context, cc *CommandContext, opts *DiscoverOptions) error {
	target := cc.Cfg.Target
	if target == nil {
		return fmt.Errorf("no database target configured: set target.database in %s", intconfig.ConfigFileName)
	}

	cat, err := openCatalog(ctx, target, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = cat.Close() }()

	rows, err := cat.Tables(ctx, target.Schemas)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if opts.Stdout {
		if r.EffectiveMode().IsStructured() {
			return r.Structured(rows)
		}
		return tables.Write(r.Writer(), rows)
	}

	// An empty result usually means a wrong --schema or target, so keep the
	// existing list.
	if len(rows) == 0 {
		return fmt.Errorf("no tables found in geometry_columns, not overwriting %s", cc.Cfg.TablesFile)
	}

	if err := writeTablesFile(cc.Cfg.TablesFile, rows); err != nil {
		return err
	}

	cc.Logger.Info("table list written",
		slog.String("path", cc.Cfg.TablesFile),
		slog.Int("rows", len(rows)),
	)
	if !r.EffectiveMode().IsStructured() {
		r.Success(fmt.Sprintf("wrote %d row(s) to %s", len(rows), cc.Cfg.TablesFile))
	}
	return nil
}

func writeTablesFile(path string, rows []tables.Row) (err error) {
	f, err := os.Create(path) //nolint:gosec // path comes from the user's configuration
	if err != nil {
		return fmt.Errorf("failed to create table list: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close table list: %w", cerr)
		}
	}()

	var w io.Writer = f
	if err := tables.Write(w, rows); err != nil {
		return fmt.Errorf("failed to write table list: %w", err)
	}
	return nil
}
