package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fmidev/mapdesc/internal/generator"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"run"},
		Short:   "Write one descriptor file per table list row",
		Long: `Read the table list and write <schema>/<shortname>.json below the output
directory for every "schema table" row.

The short name is the table name with the configured suffixes removed
(_eureffin, _wgs84, _ykj and _fmi20 by default). The descriptor embeds the
original table name. Each file is printed as "<path>:" followed by its
content before it is written. Existing files are overwritten.

Schema directories must already exist unless --create-dirs is given.
Malformed rows are skipped with a warning unless --strict is given.`,
		Example: `  # Generate from ./tables into the current directory
  mapdesc generate

  # Use another list and output tree
  mapdesc generate --tables lists/tables --output-dir layers/maps

  # Fail on the first malformed row
  mapdesc generate --strict

  # Regenerate whenever the list changes
  mapdesc generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return runWatch(ctx, cc)
			}
			return runGenerate(cmd.Context(), cc)
		},
	}

	cmd.Flags().Bool("strict", false, "Treat malformed rows as fatal")
	cmd.Flags().Bool("create-dirs", false, "Create missing schema directories")
	cmd.Flags().BoolVar(&watch, "watch", false, "Regenerate when the table list changes")

	return cmd
}

// echoWriter returns where descriptor contents are printed. Structured
// modes print a single result document instead.
func echoWriter(cc *CommandContext) io.Writer {
	if cc.Renderer.EffectiveMode().IsStructured() {
		return nil
	}
	return cc.Renderer.Writer()
}

func runGenerate(ctx context.Context, cc *CommandContext) error {
	res, err := generator.Run(ctx, cc.GeneratorOptions(echoWriter(cc)))
	if err != nil {
		return err
	}
	return reportResult(cc, res)
}

func runWatch(ctx context.Context, cc *CommandContext) error {
	r := cc.Renderer
	r.Warning(fmt.Sprintf("watching %s, press Ctrl+C to stop", cc.Cfg.TablesFile))

	return generator.Watch(ctx, cc.GeneratorOptions(echoWriter(cc)), func(res *generator.Result, err error) {
		if err != nil {
			r.Error(err.Error())
			return
		}
		_ = reportResult(cc, res)
	})
}

// reportResult prints skipped rows. Standard output carries only the
// descriptor echo in text mode, so warnings go to error output.
func reportResult(cc *CommandContext, res *generator.Result) error {
	r := cc.Renderer
	if r.EffectiveMode().IsStructured() {
		return r.Structured(res)
	}
	for _, s := range res.Skipped {
		r.Warning("skipped " + s.Reason)
	}
	return nil
}
