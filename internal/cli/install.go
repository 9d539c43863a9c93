package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/openskills/internal/archive"
	"github.com/klauern/openskills/internal/install"
	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/ui"
	"github.com/klauern/openskills/internal/util"
)

func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install a skill directory or bundle into a skills root",
		UsageText: "openskills install <dir-or-bundle>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Skills root to install into (defaults to the user root)",
			},
			&cli.BoolFlag{
				Name:  "user",
				Usage: "Install into the user-level skills root",
			},
			&cli.BoolFlag{
				Name:  "project",
				Usage: "Install into the project-local skills root",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing skill of the same name",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be installed without writing anything",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("install requires exactly 1 argument: <dir-or-bundle>")
			}
			src := args.Get(0)

			root, err := resolveInstallRoot(cmd)
			if err != nil {
				return err
			}

			opts := install.Options{
				Root:   root,
				Force:  cmd.Bool("force"),
				DryRun: cmd.Bool("dry-run"),
			}

			var result *install.Result
			if install.IsBundlePath(src) {
				result, err = install.InstallBundle(src, opts)
			} else {
				result, err = install.Install(src, opts)
			}
			if err != nil {
				return err
			}

			if opts.DryRun {
				fmt.Println(ui.StatusSkipped(fmt.Sprintf("dry run: would install %q (%d file(s)) to %s",
					result.Manifest.Name, result.Files, result.TargetDir)))
				return nil
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("installed %q (%d file(s)) to %s",
				result.Manifest.Name, result.Files, result.TargetDir)))
			return nil
		},
	}
}

// resolveInstallRoot picks the target root from the install flags.
func resolveInstallRoot(cmd *cli.Command) (string, error) {
	if cmd.Bool("user") && cmd.Bool("project") {
		return "", errors.New("--user and --project are mutually exclusive")
	}
	if dir := cmd.String("dir"); dir != "" {
		return util.ExpandHome(dir), nil
	}
	if cmd.Bool("project") {
		return util.ProjectSkillsPath("."), nil
	}
	return util.UserSkillsPath(), nil
}

func bundleCommand() *cli.Command {
	return &cli.Command{
		Name:      "bundle",
		Usage:     "Package a skill directory as a portable tar.gz bundle",
		UsageText: "openskills bundle <dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Bundle file to write (defaults to <name>.tar.gz)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("bundle requires exactly 1 argument: <dir>")
			}
			skillDir := args.Get(0)

			manifestPath := filepath.Join(skillDir, model.ManifestFileName)
			// #nosec G304 - skillDir is the user-provided skill directory
			content, err := os.ReadFile(manifestPath)
			if err != nil {
				return fmt.Errorf("%q is not a skill directory: %w", skillDir, err)
			}

			m, _, err := manifest.Parse(content)
			if err != nil {
				return fmt.Errorf("refusing to bundle %q: %w", skillDir, err)
			}
			if err := manifest.ValidateName(m.Name); err != nil {
				return fmt.Errorf("refusing to bundle %q: %w", skillDir, err)
			}

			output := cmd.String("output")
			if output == "" {
				output = m.Name + ".tar.gz"
			}

			// #nosec G304 - output is the user-provided bundle path
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create bundle file: %w", err)
			}
			defer func() { _ = f.Close() }()

			if err := archive.Create(skillDir, m, f); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to finish bundle file: %w", err)
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("bundled %q as %s", m.Name, output)))
			return nil
		},
	}
}
