package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		present []string
		absent  []string
	}{
		{
			name:    "prompt and topic",
			ctx:     WithTopic(WithPromptID(context.Background(), "p-1"), "selection"),
			present: []string{"prompt_id", "topic"},
		},
		{
			name:    "prompt only",
			ctx:     WithPromptID(context.Background(), "p-1"),
			present: []string{"prompt_id"},
			absent:  []string{"topic"},
		},
		{
			name:   "background",
			ctx:    context.Background(),
			absent: []string{"prompt_id", "topic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, k := range tt.present {
				assert.Contains(t, entry, k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
