package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/shelf"
	"github.com/colonyops/promptshelf/pkg/iojson"
)

type CaptureCmd struct {
	flags *Flags
	app   *shelf.App

	sender     string
	jsonOutput bool
}

// NewCaptureCmd creates a new capture command.
func NewCaptureCmd(flags *Flags, app *shelf.App) *CaptureCmd {
	return &CaptureCmd{flags: flags, app: app}
}

// Register adds the capture command to the application.
func (cmd *CaptureCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "capture",
		Usage:     "Save selected text as a prompt",
		UsageText: "promptshelf capture [--sender <name>] [text]",
		Description: `Relays a text selection to the prompt library. The selection becomes a
prompt tagged "captured" with a title taken from its first line.

Bind this to an editor or window manager shortcut that pipes the current
selection, for example:
  wl-paste --primary | promptshelf capture --sender sway`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "sender",
				Usage:       "name of the surface the selection came from",
				Value:       "cli",
				Destination: &cmd.sender,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the relayed message as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CaptureCmd) run(ctx context.Context, c *cli.Command) error {
	text, err := readText(c)
	if err != nil {
		return fmt.Errorf("read selection: %w", err)
	}

	msg, err := cmd.app.Capture.Capture(ctx, text, cmd.sender)
	if err != nil {
		if msg.ID != "" {
			_, _ = fmt.Fprintln(c.Root().ErrWriter,
				cmd.app.Text.Format("capture_queued", "Selection queued (%d pending)", cmd.app.Capture.Pending()))
		}
		return fmt.Errorf("capture: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, msg)
	}
	_, err = fmt.Fprintln(c.Root().Writer, cmd.app.Text.Format("capture_saved", "Captured selection as %s", msg.ID))
	return err
}
