package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/shelf"
	"github.com/colonyops/promptshelf/pkg/randid"
)

type IDCmd struct {
	app *shelf.App

	count int
	short int
}

// NewIDCmd creates a new id command.
func NewIDCmd(app *shelf.App) *IDCmd {
	return &IDCmd{app: app}
}

// Register adds the id command to the application.
func (cmd *IDCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "id",
		Usage:     "Generate identifiers",
		UsageText: "promptshelf id [--count N] [--short LEN]",
		Description: `Prints random version 4 UUIDs, the same kind used for prompt IDs.

With --short, prints lowercase alphanumeric IDs of the given length instead.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of IDs",
				Value:       1,
				Destination: &cmd.count,
			},
			&cli.IntFlag{
				Name:        "short",
				Usage:       "length of a short alphanumeric ID",
				Destination: &cmd.short,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *IDCmd) run(_ context.Context, c *cli.Command) error {
	if cmd.count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	if cmd.short < 0 {
		return fmt.Errorf("--short cannot be negative")
	}

	w := c.Root().Writer
	for range cmd.count {
		id := cmd.app.IDs.NewID()
		if cmd.short > 0 {
			id = randid.Generate(cmd.short)
		}
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
