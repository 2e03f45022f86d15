// Package generator drives the descriptor pipeline: read the table list,
// derive short names, and write one descriptor per row.
package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fmidev/mapdesc/internal/descriptor"
	"github.com/fmidev/mapdesc/internal/naming"
	"github.com/fmidev/mapdesc/internal/tables"
)

// Options configures a generation run.
type Options struct {
	TablesFile string
	OutputDir  string
	Suffixes   []string
	Strict     bool
	CreateDirs bool
	// Echo receives "<path>:\n<content>" for each file before it is written.
	Echo   io.Writer
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Output is one written descriptor.
type Output struct {
	Row       tables.Row `json:"row" yaml:"row"`
	ShortName string     `json:"short_name" yaml:"short_name"`
	Path      string     `json:"path" yaml:"path"`
}

// Skip is a malformed row left out of the run.
type Skip struct {
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason" yaml:"reason"`
}

// Result summarizes a run.
type Result struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	Written []Output `json:"written" yaml:"written"`
	Skipped []Skip   `json:"skipped" yaml:"skipped"`
}

func skipsFrom(errs []*tables.RowError) []Skip {
	skips := make([]Skip, 0, len(errs))
	for _, e := range errs {
		skips = append(skips, Skip{Line: e.Line, Text: e.Text, Reason: e.Error()})
	}
	return skips
}

// Run executes one generation pass. Rows are processed in list order and
// the first write error stops the run. Cancelling ctx stops the run
// between rows.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.logger()
	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	list, err := tables.Load(opts.TablesFile, tables.Options{Strict: opts.Strict, Logger: logger})
	if err != nil {
		return nil, err
	}

	normalizer := naming.New(opts.Suffixes)
	w := descriptor.NewWriter(opts.OutputDir, opts.Echo, logger)
	w.CreateDirs = opts.CreateDirs

	res := &Result{
		RunID:   runID,
		Written: make([]Output, 0, len(list.Rows)),
		Skipped: skipsFrom(list.Skipped),
	}

	for _, row := range list.Rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		short := normalizer.ShortName(row.Table)
		path, err := w.Write(descriptor.Descriptor{Schema: row.Schema, Table: row.Table}, short)
		if err != nil {
			return res, fmt.Errorf("line %d (%s): %w", row.Line, row, err)
		}

		logger.Info("wrote descriptor",
			slog.String("schema", row.Schema),
			slog.String("table", row.Table),
			slog.String("short_name", short),
			slog.String("path", path),
		)
		res.Written = append(res.Written, Output{Row: row, ShortName: short, Path: path})
	}

	logger.Info("generation complete",
		slog.Int("written", len(res.Written)),
		slog.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}
