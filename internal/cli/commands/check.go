package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmidev/mapdesc/internal/descriptor"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate descriptor files under the output directory",
		Long: `Decode every <schema>/*.json file below the output directory and check it
against the keys the map layer accepts: schema, table, pgname, where,
lines, mindistance and minarea.

Unknown keys, wrong value types and a missing schema or table are errors.
A schema value that differs from the file's directory is a warning.
The command exits non-zero when any error is found.`,
		Example: `  # Check the current directory
  mapdesc check

  # Check another tree
  mapdesc check --output-dir layers/maps`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(NewCommandContext(cmd))
		},
	}

	return cmd
}

func runCheck(cc *CommandContext) error {
	if err := cc.Cfg.ValidateDirectories(); err != nil {
		return err
	}

	report, err := descriptor.Check(cc.Cfg.OutputDir)
	if err != nil {
		return err
	}

	r := cc.Renderer
	errCount := 0
	for _, f := range report.Findings {
		if f.Severity == descriptor.SeverityError {
			errCount++
		}
	}

	if r.EffectiveMode().IsStructured() {
		if err := r.Structured(report); err != nil {
			return err
		}
	} else {
		if len(report.Findings) > 0 {
			pathStyle := r.Styles().Path
			rows := make([][]string, 0, len(report.Findings))
			for _, f := range report.Findings {
				rows = append(rows, []string{string(f.Severity), pathStyle.Render(f.Path), f.Message})
			}
			r.Table([]string{"Severity", "File", "Problem"}, rows)
		}
		if errCount == 0 {
			r.Success(fmt.Sprintf("%d descriptor(s) checked", report.Files))
		}
	}

	cc.Logger.Debug("check complete",
		"files", report.Files,
		"findings", len(report.Findings),
	)

	if report.HasErrors() {
		return fmt.Errorf("%d of %d descriptor check(s) failed", errCount, report.Files)
	}
	return nil
}
