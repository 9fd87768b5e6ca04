package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/core/config"
	"github.com/colonyops/promptshelf/internal/shelf"
	"github.com/colonyops/promptshelf/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	app    *shelf.App
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags, app *shelf.App) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags, app: app}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "promptshelf config validate [options]",
				Description: "Validates the configuration file, checking palette colors, locale files, and store settings.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	errs := collectErrors(cfg.ValidateDeep(cmd.flags.ConfigPath))
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []validationError          `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(errs) == 0,
			Errors:   errs,
			Warnings: warnings,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
		if len(errs) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	w := c.Root().Writer
	for _, warn := range warnings {
		_, _ = fmt.Fprintf(w, "warning: %s: %s\n", warn.Category, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}
	for _, e := range errs {
		if e.Field != "" {
			_, _ = fmt.Fprintf(w, "error: %s: %s\n", e.Field, e.Message)
			continue
		}
		_, _ = fmt.Fprintf(w, "error: %s\n", e.Message)
	}

	if len(errs) == 0 {
		_, _ = fmt.Fprintln(w, cmd.app.Text.Text("config_valid", "Config is valid"))
		return nil
	}

	_, _ = fmt.Fprintf(w, "%s: %d\n", cmd.app.Text.Text("config_invalid", "Config has errors"), len(errs))
	return cli.Exit("", 1)
}

func collectErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationError{{Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
