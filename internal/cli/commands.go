// Package cli provides command definitions for openskills.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/openskills/internal/export"
	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/ui"
	"github.com/klauern/openskills/internal/validation"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Load configured roots and list all skills",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (table, json, yaml)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit non-zero if any skill was rejected",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			result, err := loadSkills(cmd)
			if err != nil {
				return err
			}

			format := cmd.String("format")
			if format == "" {
				format = result.Config.Output.Format
			}

			switch format {
			case "table", "":
				printEntryTable(result.Registry.List())
			case "json", "yaml":
				exportFormat, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				exporter := export.New(export.Options{
					Format:             exportFormat,
					IncludeDiagnostics: true,
				})
				if err := exporter.Export(result.Registry.List(), result.Diagnostics, os.Stdout); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format %q (valid: table, json, yaml)", format)
			}

			if format == "table" || format == "" {
				printDiagnostics(result.Diagnostics)
			}

			if (cmd.Bool("strict") || result.Config.Load.Strict) && len(result.Diagnostics) > 0 {
				return fmt.Errorf("%d skill(s) rejected", len(result.Diagnostics))
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one skill's manifest and instructions",
		UsageText: "openskills show <name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "body-only",
				Usage: "Print only the verbatim skill body",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("show requires exactly 1 argument: <name>")
			}

			result, err := loadSkills(cmd)
			if err != nil {
				return err
			}

			entry, err := result.Registry.Lookup(args.Get(0))
			if err != nil {
				return err
			}

			if cmd.Bool("body-only") {
				// The body is the contract with consuming agents: verbatim,
				// no templating, no trailing decoration.
				fmt.Print(entry.Content)
				return nil
			}

			fmt.Println(ui.Header(entry.Name()))
			fmt.Println(entry.Description())
			fmt.Println()
			fmt.Printf("%s %s\n", ui.Dim("Source:"), entry.SourcePath)
			for _, ref := range entry.References {
				fmt.Printf("%s %s\n", ui.Dim("Reference:"), ref)
			}
			for _, script := range entry.Scripts {
				fmt.Printf("%s %s\n", ui.Dim("Script:"), script)
			}
			for _, asset := range entry.Assets {
				fmt.Printf("%s %s\n", ui.Dim("Asset:"), asset)
			}
			fmt.Println()
			fmt.Print(entry.Content)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate skill directories without loading a registry",
		UsageText: "openskills validate [dir ...]",
		Description: `Parse and validate skill directories, reporting problems per candidate.

   With no arguments, all configured roots are validated.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			dirs := cmd.Args().Slice()

			if len(dirs) == 0 {
				result, err := loadSkills(cmd)
				if err != nil {
					return err
				}
				for _, entry := range result.Registry.List() {
					fmt.Println(ui.StatusSuccess(entry.Name() + " (" + entry.SourcePath + ")"))
				}
				printDiagnostics(result.Diagnostics)
				if len(result.Diagnostics) > 0 {
					return fmt.Errorf("%d skill(s) rejected", len(result.Diagnostics))
				}
				return nil
			}

			failed := 0
			for _, dir := range dirs {
				if err := validateDir(dir); err != nil {
					fmt.Println(ui.StatusError(dir + ": " + err.Error()))
					failed++
					continue
				}
				fmt.Println(ui.StatusSuccess(dir))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d directories failed validation", failed, len(dirs))
			}
			return nil
		},
	}
}

// validateDir parses and validates a single skill directory.
func validateDir(dir string) error {
	manifestPath := filepath.Join(dir, model.ManifestFileName)
	// #nosec G304 - dir is a user-provided directory to validate
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("no readable %s: %w", model.ManifestFileName, err)
	}

	m, _, err := manifest.Parse(content)
	if err != nil {
		return err
	}

	result, err := validation.ValidateManifest(m)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Println(ui.StatusWarning(dir + ": " + warning))
	}
	return result.Error()
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display the resolved configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

// printEntryTable renders entries in aligned columns.
func printEntryTable(entries []model.Entry) {
	if len(entries) == 0 {
		fmt.Println("No skills found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, ui.Header("NAME")+"\t"+ui.Header("DESCRIPTION")+"\t"+ui.Header("SOURCE"))
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name(), entry.Description(), entry.SourcePath)
	}
	_ = w.Flush()
}

// printDiagnostics reports every rejected candidate.
func printDiagnostics(diagnostics []model.Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(ui.Warning(fmt.Sprintf("%d skill(s) rejected:", len(diagnostics))))
	for _, diag := range diagnostics {
		fmt.Println("  " + ui.StatusError(diag.String()))
	}
}
