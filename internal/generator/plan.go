package generator

import (
	"github.com/fmidev/mapdesc/internal/descriptor"
	"github.com/fmidev/mapdesc/internal/naming"
	"github.com/fmidev/mapdesc/internal/tables"
)

// PlanEntry is the planned output of one row.
type PlanEntry struct {
	Row       tables.Row `json:"row" yaml:"row"`
	ShortName string     `json:"short_name" yaml:"short_name"`
	Path      string     `json:"path" yaml:"path"`
	// Overwrites is the line number of the earlier row writing the same
	// path, or zero.
	Overwrites int `json:"overwrites,omitempty" yaml:"overwrites,omitempty"`
}

// Plan describes a run without touching the output directory.
type Plan struct {
	Entries []PlanEntry `json:"entries" yaml:"entries"`
	Skipped []Skip      `json:"skipped" yaml:"skipped"`
}

// Collisions counts entries whose file would be overwritten later in the run.
func (p *Plan) Collisions() int {
	n := 0
	for _, e := range p.Entries {
		if e.Overwrites != 0 {
			n++
		}
	}
	return n
}

// BuildPlan reads the table list and computes every output path.
func BuildPlan(opts Options) (*Plan, error) {
	list, err := tables.Load(opts.TablesFile, tables.Options{Strict: opts.Strict, Logger: opts.logger()})
	if err != nil {
		return nil, err
	}

	normalizer := naming.New(opts.Suffixes)
	seen := make(map[string]int, len(list.Rows))
	plan := &Plan{
		Entries: make([]PlanEntry, 0, len(list.Rows)),
		Skipped: skipsFrom(list.Skipped),
	}

	for _, row := range list.Rows {
		short := normalizer.ShortName(row.Table)
		entry := PlanEntry{
			Row:       row,
			ShortName: short,
			Path:      descriptor.Path(opts.OutputDir, row.Schema, short),
		}
		if prev, ok := seen[entry.Path]; ok {
			entry.Overwrites = prev
		}
		seen[entry.Path] = row.Line
		plan.Entries = append(plan.Entries, entry)
	}
	return plan, nil
}
