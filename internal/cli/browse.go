package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/openskills/internal/ui"
	"github.com/klauern/openskills/internal/ui/tui"
)

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse loaded skills interactively",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if !ui.IsTerminal() {
				return errors.New("browse requires an interactive terminal")
			}

			result, err := loadSkills(cmd)
			if err != nil {
				return err
			}

			entries := result.Registry.List()
			if len(entries) == 0 {
				fmt.Println("No skills found")
				printDiagnostics(result.Diagnostics)
				return nil
			}

			final, err := tui.Run(tui.NewSkillListModel(entries))
			if err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}

			if m, ok := final.(tui.SkillListModel); ok {
				if r := m.Result(); r.Viewed {
					fmt.Println(ui.Dim("Last viewed: " + r.Selected.Name()))
				}
			}
			return nil
		},
	}
}
