// Package shelf wires the prompt library, tag colors, capture relay, and
// localization into a single App that commands consume.
package shelf

import (
	"github.com/colonyops/promptshelf/internal/core/config"
	"github.com/colonyops/promptshelf/internal/core/i18n"
	"github.com/colonyops/promptshelf/internal/core/idgen"
	"github.com/colonyops/promptshelf/internal/core/prompt"
	"github.com/colonyops/promptshelf/internal/core/tagcolor"
)

// App is the central entry point for promptshelf operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Prompts *prompt.Service
	Capture *CaptureService
	Colors  *tagcolor.Allocator
	Scheme  tagcolor.Scheme
	Text    *i18n.Localizer
	IDs     idgen.Generator
	Config  *config.Config
}

// Renderer returns a tag renderer over the app's allocator and scheme.
func (a *App) Renderer(color bool) *tagcolor.Renderer {
	return tagcolor.NewRenderer(a.Colors, a.Scheme, color)
}
