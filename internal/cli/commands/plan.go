package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fmidev/mapdesc/internal/generator"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where each row would be written",
		Long: `Read the table list and show the descriptor path of every row without
writing anything.

Rows whose path was already produced by an earlier row are marked: the
later row overwrites the earlier file when generate runs.`,
		Example: `  # Preview the default table list
  mapdesc plan

  # Machine-readable plan
  mapdesc plan -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(NewCommandContext(cmd))
		},
	}

	cmd.Flags().Bool("strict", false, "Treat malformed rows as fatal")

	return cmd
}

func runPlan(cc *CommandContext) error {
	plan, err := generator.BuildPlan(cc.GeneratorOptions(nil))
	if err != nil {
		return err
	}

	r := cc.Renderer
	if r.EffectiveMode().IsStructured() {
		return r.Structured(plan)
	}

	pathStyle := r.Styles().Path
	rows := make([][]string, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		note := ""
		if e.Overwrites != 0 {
			note = fmt.Sprintf("overwrites line %d", e.Overwrites)
		}
		rows = append(rows, []string{strconv.Itoa(e.Row.Line), e.Row.Schema, e.Row.Table, pathStyle.Render(e.Path), note})
	}
	r.Table([]string{"Line", "Schema", "Table", "Path", "Note"}, rows)

	for _, s := range plan.Skipped {
		r.Warning("skipped " + s.Reason)
	}
	r.Muted(fmt.Sprintf("%d descriptor(s), %d collision(s), %d skipped",
		len(plan.Entries), plan.Collisions(), len(plan.Skipped)))
	return nil
}
