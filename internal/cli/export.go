package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/openskills/internal/export"
	"github.com/klauern/openskills/internal/ui"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the loaded registry for external tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "Output format (json, yaml, toml, markdown)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "File to write to (defaults to stdout)",
			},
			&cli.BoolFlag{
				Name:  "no-body",
				Usage: "Omit the verbatim skill bodies",
			},
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "Include load diagnostics in the export",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			format, err := export.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			result, err := loadSkills(cmd)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			output := cmd.String("output")
			if output != "" {
				// #nosec G304 - output is the user-provided destination
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			exporter := export.New(export.Options{
				Format:             format,
				IncludeBody:        !cmd.Bool("no-body"),
				IncludeDiagnostics: cmd.Bool("diagnostics"),
			})
			if err := exporter.Export(result.Registry.List(), result.Diagnostics, w); err != nil {
				return err
			}

			if output != "" {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("exported %d skill(s) to %s",
					result.Registry.Len(), output)))
			}
			return nil
		},
	}
}
