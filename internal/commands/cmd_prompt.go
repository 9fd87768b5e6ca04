package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/core/prompt"
	"github.com/colonyops/promptshelf/internal/shelf"
	"github.com/colonyops/promptshelf/pkg/iojson"
)

type PromptCmd struct {
	flags *Flags
	app   *shelf.App

	// add flags
	title string
	tags  []string
	file  string

	// ls flags
	pattern    string
	limit      int
	jsonOutput bool

	importer iojson.FileReader[[]prompt.Draft]
}

// NewPromptCmd creates a new prompt command.
func NewPromptCmd(flags *Flags, app *shelf.App) *PromptCmd {
	return &PromptCmd{flags: flags, app: app}
}

// Register adds the prompt command to the application.
func (cmd *PromptCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "json",
			Usage:       "output as JSON",
			Destination: &cmd.jsonOutput,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:    "prompt",
		Aliases: []string{"p"},
		Usage:   "Manage saved prompts",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Save a new prompt",
				UsageText: "promptshelf prompt add [--title <title>] [--tag <tag>...] [content]",
				Description: `Saves a prompt. Content is read from the arguments, from --file, or from stdin.

Without --title the first non-blank line of the content is used.

Examples:
  promptshelf prompt add --tag review "Review this diff for race conditions"
  pbpaste | promptshelf prompt add --title "Commit message" --tag git`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "title",
						Usage:       "prompt title",
						Destination: &cmd.title,
					},
					&cli.StringSliceFlag{
						Name:        "tag",
						Aliases:     []string{"t"},
						Usage:       "tag (repeatable)",
						Destination: &cmd.tags,
					},
					&cli.StringFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "read content from file",
						Destination: &cmd.file,
					},
					jsonFlag(),
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "ls",
				Usage:     "List prompts",
				UsageText: "promptshelf prompt ls [--tag <glob>] [--limit N] [--json]",
				Description: `Lists prompts oldest first.

--tag accepts glob patterns, so "lang/*" matches "lang/go" and "lang/sql".`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "tag",
						Aliases:     []string{"t"},
						Usage:       "only prompts with a tag matching this glob",
						Destination: &cmd.pattern,
					},
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "maximum number of prompts",
						Destination: &cmd.limit,
					},
					jsonFlag(),
				},
				Action: cmd.runList,
			},
			{
				Name:          "show",
				Usage:         "Show a prompt",
				UsageText:     "promptshelf prompt show <id> [--json]",
				Flags:         []cli.Flag{jsonFlag()},
				ShellComplete: PromptIDCompleter(cmd.app),
				Action:        cmd.runShow,
			},
			{
				Name:          "rm",
				Usage:         "Delete a prompt",
				UsageText:     "promptshelf prompt rm <id>",
				ShellComplete: PromptIDCompleter(cmd.app),
				Action:        cmd.runRemove,
			},
			{
				Name:      "tag",
				Usage:     "Replace the tags of a prompt",
				UsageText: "promptshelf prompt tag <id> --tag <tag>...",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:        "tag",
						Aliases:     []string{"t"},
						Usage:       "tag (repeatable); none clears all tags",
						Destination: &cmd.tags,
					},
				},
				ShellComplete: PromptIDCompleter(cmd.app),
				Action:        cmd.runRetag,
			},
			{
				Name:      "import",
				Usage:     "Import prompts from JSON",
				UsageText: "promptshelf prompt import [-f file.json]",
				Description: `Imports an array of {"title", "content", "tags"} objects.

Prompts are added in array order, so tag colors follow the file order.`,
				Flags:  []cli.Flag{cmd.importer.Flag()},
				Action: cmd.runImport,
			},
		},
	})

	return app
}

func (cmd *PromptCmd) runAdd(ctx context.Context, c *cli.Command) error {
	content, err := cmd.content(c)
	if err != nil {
		return err
	}

	title := cmd.title
	if strings.TrimSpace(title) == "" {
		title = shelf.TitleFrom(content)
	}

	p, err := cmd.app.Prompts.Add(ctx, prompt.Draft{Title: title, Content: content, Tags: cmd.tags})
	if err != nil {
		return fmt.Errorf("add prompt: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, p)
	}
	_, err = fmt.Fprintln(c.Root().Writer, cmd.app.Text.Format("prompt_added", "Added prompt %s", p.ID))
	return err
}

func (cmd *PromptCmd) content(c *cli.Command) (string, error) {
	if cmd.file != "" {
		data, err := os.ReadFile(cmd.file)
		if err != nil {
			return "", fmt.Errorf("read content file: %w", err)
		}
		return string(data), nil
	}

	text, err := readText(c)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return text, nil
}

func (cmd *PromptCmd) runList(ctx context.Context, c *cli.Command) error {
	prompts, err := cmd.app.Prompts.List(ctx, prompt.ListOptions{TagPattern: cmd.pattern, Limit: cmd.limit})
	if err != nil {
		return fmt.Errorf("list prompts: %w", err)
	}

	w := c.Root().Writer
	if cmd.jsonOutput {
		if prompts == nil {
			prompts = []prompt.Prompt{}
		}
		return iojson.WriteWith(w, c.Root().ErrWriter, prompts)
	}

	if len(prompts) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, cmd.app.Text.Text("prompt_none", "No prompts found"))
		return nil
	}

	r := cmd.app.Renderer(colorEnabled(w, cmd.flags.NoColor))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
		cmd.app.Text.Text("column_id", "ID"),
		cmd.app.Text.Text("column_title", "Title"),
		cmd.app.Text.Text("column_tags", "Tags"),
	)
	for _, p := range prompts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Title, r.Tags(p.Tags))
	}
	return tw.Flush()
}

func (cmd *PromptCmd) runShow(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	p, err := cmd.app.Prompts.Get(ctx, id)
	if err != nil {
		return notFound(id, err)
	}

	w := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(w, c.Root().ErrWriter, p)
	}

	r := cmd.app.Renderer(colorEnabled(w, cmd.flags.NoColor))
	_, _ = fmt.Fprintln(w, p.Title)
	if len(p.Tags) > 0 {
		_, _ = fmt.Fprintln(w, r.Tags(p.Tags))
	}
	_, _ = fmt.Fprintln(w)
	_, err = fmt.Fprintln(w, strings.TrimRight(p.Content, "\n"))
	return err
}

func (cmd *PromptCmd) runRemove(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	if err := cmd.app.Prompts.Remove(ctx, id); err != nil {
		return notFound(id, err)
	}

	_, err = fmt.Fprintln(c.Root().Writer, cmd.app.Text.Format("prompt_removed", "Removed prompt %s", id))
	return err
}

func (cmd *PromptCmd) runRetag(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	if _, err := cmd.app.Prompts.Retag(ctx, id, cmd.tags); err != nil {
		return notFound(id, err)
	}

	_, err = fmt.Fprintln(c.Root().Writer, cmd.app.Text.Format("prompt_retagged", "Updated tags for %s", id))
	return err
}

func (cmd *PromptCmd) runImport(ctx context.Context, c *cli.Command) error {
	drafts, err := cmd.importer.Read(stdin(c))
	if err != nil {
		return err
	}

	for i, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			d.Title = shelf.TitleFrom(d.Content)
		}
		p, err := cmd.app.Prompts.Add(ctx, d)
		if err != nil {
			return fmt.Errorf("import prompt %d: %w", i, err)
		}
		_, _ = fmt.Fprintln(c.Root().Writer, cmd.app.Text.Format("prompt_added", "Added prompt %s", p.ID))
	}
	return nil
}

func requireID(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one prompt id")
	}
	return c.Args().First(), nil
}

func notFound(id string, err error) error {
	if errors.Is(err, prompt.ErrNotFound) {
		return fmt.Errorf("prompt %q not found", id)
	}
	return err
}
