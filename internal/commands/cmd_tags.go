package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/core/tagcolor"
	"github.com/colonyops/promptshelf/internal/shelf"
	"github.com/colonyops/promptshelf/pkg/iojson"
)

type TagsCmd struct {
	flags *Flags
	app   *shelf.App

	jsonOutput bool
}

// NewTagsCmd creates a new tags command.
func NewTagsCmd(flags *Flags, app *shelf.App) *TagsCmd {
	return &TagsCmd{flags: flags, app: app}
}

type tagColor struct {
	Tag   string           `json:"tag"`
	Color tagcolor.ColorID `json:"color"`
	Hex   string           `json:"hex"`
}

// Register adds the tags command to the application.
func (cmd *TagsCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "json",
			Usage:       "output as JSON",
			Destination: &cmd.jsonOutput,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "tags",
		Usage: "Inspect tags and their colors",
		Description: `Tag colors are assigned on first use and stay fixed for the process.

Each new tag takes the least used palette color; ties are broken by a hash of
the tag. Stored tags are loaded oldest first at startup, so the same library
always produces the same colors.`,
		Commands: []*cli.Command{
			{
				Name:   "ls",
				Usage:  "List stored tags with their colors",
				Flags:  []cli.Flag{jsonFlag()},
				Action: cmd.runList,
			},
			{
				Name:          "color",
				Usage:         "Print the color assigned to each tag",
				UsageText:     "promptshelf tags color <tag>...",
				Flags:         []cli.Flag{jsonFlag()},
				ShellComplete: TagCompleter(cmd.app),
				Action:        cmd.runColor,
			},
			{
				Name:   "stats",
				Usage:  "Show how many tags use each palette color",
				Flags:  []cli.Flag{jsonFlag()},
				Action: cmd.runStats,
			},
			{
				Name:   "palette",
				Usage:  "List the built-in palettes",
				Action: cmd.runPalette,
			},
		},
	})

	return app
}

func (cmd *TagsCmd) runList(ctx context.Context, c *cli.Command) error {
	tags, err := cmd.app.Prompts.Tags(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 && !cmd.jsonOutput {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, cmd.app.Text.Text("tags_none", "No tags yet"))
		return nil
	}
	return cmd.print(c, tags)
}

func (cmd *TagsCmd) runColor(_ context.Context, c *cli.Command) error {
	if !c.Args().Present() {
		return fmt.Errorf("expected at least one tag")
	}
	return cmd.print(c, c.Args().Slice())
}

func (cmd *TagsCmd) print(c *cli.Command, tags []string) error {
	out := make([]tagColor, 0, len(tags))
	for _, t := range tags {
		id := cmd.app.Colors.Resolve(t)
		out = append(out, tagColor{Tag: t, Color: id, Hex: cmd.app.Scheme.Swatch(id).Background})
	}

	w := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(w, c.Root().ErrWriter, out)
	}

	r := cmd.app.Renderer(colorEnabled(w, cmd.flags.NoColor))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tc := range out {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Tag(tc.Tag), tc.Color, tc.Hex)
	}
	return tw.Flush()
}

func (cmd *TagsCmd) runStats(ctx context.Context, c *cli.Command) error {
	if _, err := cmd.app.Prompts.Tags(ctx); err != nil {
		return err
	}

	hist := cmd.app.Colors.Histogram()
	palette := cmd.app.Colors.Palette()

	w := c.Root().Writer
	if cmd.jsonOutput {
		type entry struct {
			Color tagcolor.ColorID `json:"color"`
			Count int              `json:"count"`
		}
		out := make([]entry, len(palette))
		for i, id := range palette {
			out[i] = entry{Color: id, Count: hist[id]}
		}
		return iojson.WriteWith(w, c.Root().ErrWriter, out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, id := range palette {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", id, hist[id])
	}
	return tw.Flush()
}

func (cmd *TagsCmd) runPalette(_ context.Context, c *cli.Command) error {
	w := c.Root().Writer
	color := colorEnabled(w, cmd.flags.NoColor)

	for _, name := range tagcolor.SchemeNames() {
		s, _ := tagcolor.GetScheme(name)
		marker := " "
		if name == cmd.app.Scheme.Name {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", marker, name)
		cmd.printScheme(c, s, color)
	}

	if cmd.app.Scheme.Name != "" {
		if _, builtin := tagcolor.GetScheme(cmd.app.Scheme.Name); !builtin {
			_, _ = fmt.Fprintf(w, "* %s\n", cmd.app.Scheme.Name)
			cmd.printScheme(c, cmd.app.Scheme, color)
		}
	}
	return nil
}

func (cmd *TagsCmd) printScheme(c *cli.Command, s tagcolor.Scheme, color bool) {
	tw := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	for _, id := range s.Colors {
		sw := s.Swatch(id)
		chip := "    "
		if color {
			chip = lipgloss.NewStyle().
				Background(lipgloss.Color(sw.Background)).
				Render(chip)
		}
		_, _ = fmt.Fprintf(tw, "    %s\t%s\t%s\n", chip, id, sw.Background)
	}
	_ = tw.Flush()
}
