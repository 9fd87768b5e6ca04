// Package logging holds zerolog helpers shared across components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with "cmp".
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
