package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/core/prompt"
	"github.com/colonyops/promptshelf/internal/shelf"
)

// PromptIDCompleter returns a ShellCompleteFunc that suggests prompt IDs as
// positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func PromptIDCompleter(app *shelf.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if delegateFlags(ctx, cmd) {
			return
		}

		prompts, err := app.Prompts.List(ctx, prompt.ListOptions{})
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, p := range prompts {
			_, _ = fmt.Fprintf(w, "%s:%s\n", p.ID, p.Title)
		}
	}
}

// TagCompleter suggests stored tags.
func TagCompleter(app *shelf.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if delegateFlags(ctx, cmd) {
			return
		}

		tags, err := app.Prompts.Tags(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range tags {
			_, _ = fmt.Fprintln(w, t)
		}
	}
}

func delegateFlags(ctx context.Context, cmd *cli.Command) bool {
	if args := cmd.Args(); args.Present() {
		last := args.Slice()[args.Len()-1]
		if len(last) > 0 && last[0] == '-' {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return true
		}
	}
	return false
}
