package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/template"
	"github.com/klauern/openskills/internal/ui"
	"github.com/klauern/openskills/internal/util"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Scaffold a new skill directory",
		UsageText: "openskills new <name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Value:   "guide",
				Usage:   "Template type (guide, workflow, reference)",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Skill description",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Author name recorded in the generated manifest",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Skills root to create the skill under (defaults to ./skills)",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Path to a custom template file (overrides --type)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("new requires exactly 1 argument: <name>")
			}
			name := args.Get(0)

			if err := manifest.ValidateName(name); err != nil {
				return err
			}

			gen, err := template.New()
			if err != nil {
				return err
			}

			var typ template.Type
			if custom := cmd.String("template"); custom != "" {
				typ = template.Type("custom")
				if err := gen.LoadCustomTemplate("custom", custom); err != nil {
					return err
				}
			} else {
				typ, err = template.ParseType(cmd.String("type"))
				if err != nil {
					return err
				}
			}

			description := cmd.String("description")
			if description == "" {
				description = fmt.Sprintf("Use when working with %s", name)
			}

			root := cmd.String("dir")
			if root == "" {
				root = util.ProjectSkillsPath(".")
			}

			skillPath, err := gen.CreateSkillDir(typ, template.Data{
				Name:        name,
				Description: description,
				Author:      cmd.String("author"),
			}, root)
			if err != nil {
				return err
			}

			fmt.Println(ui.StatusSuccess("created " + skillPath))
			fmt.Println(ui.Dim("Edit the skill body, then verify with: openskills validate " + root + "/" + name))
			return nil
		},
	}
}
