package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies prompt_id and topic from the event context into the event.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetPromptID(ctx); id != "" {
		e.Str("prompt_id", id)
	}
	if topic := GetTopic(ctx); topic != "" {
		e.Str("topic", topic)
	}
}
