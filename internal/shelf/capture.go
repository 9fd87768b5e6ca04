package shelf

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/colonyops/promptshelf/internal/core/messaging"
	"github.com/colonyops/promptshelf/internal/core/prompt"
)

// CaptureTag is added to every prompt created from a captured selection.
const CaptureTag = "captured"

const maxTitleRunes = 60

// ErrEmptySelection is returned when there is nothing to capture.
var ErrEmptySelection = errors.New("selection is empty")

// CaptureService turns selected text into prompts through a relay, the way
// a host surface hands a selection to the prompt editor.
type CaptureService struct {
	relay   *messaging.Relay
	prompts *prompt.Service
	log     zerolog.Logger
}

// NewCaptureService creates a capture service. Call Attach to start
// delivering to the prompt library.
func NewCaptureService(relay *messaging.Relay, prompts *prompt.Service, log zerolog.Logger) *CaptureService {
	return &CaptureService{relay: relay, prompts: prompts, log: log}
}

// Attach connects the relay to the prompt library and delivers anything queued.
func (c *CaptureService) Attach(ctx context.Context) error {
	return c.relay.Attach(ctx, messaging.SinkFunc(c.store))
}

// Capture sends text as a selection message. The returned message is
// delivered when err is nil and still queued otherwise.
func (c *CaptureService) Capture(ctx context.Context, text, sender string) (messaging.Message, error) {
	if strings.TrimSpace(text) == "" {
		return messaging.Message{}, ErrEmptySelection
	}

	msg, err := messaging.NewMessage(messaging.TopicSelection, text)
	if err != nil {
		return messaging.Message{}, err
	}
	msg.Sender = sender

	return msg, c.relay.Send(ctx, msg)
}

// Pending returns the number of selections waiting for delivery.
func (c *CaptureService) Pending() int {
	return c.relay.Pending()
}

func (c *CaptureService) store(ctx context.Context, msg messaging.Message) error {
	if msg.Topic != messaging.TopicSelection {
		c.log.Debug().Str("id", msg.ID).Msg("ignoring message on foreign topic")
		return nil
	}

	p, err := c.prompts.Add(ctx, prompt.Draft{
		Title:   TitleFrom(msg.Payload),
		Content: msg.Payload,
		Tags:    []string{CaptureTag},
	})
	if err != nil {
		return err
	}

	c.log.Info().Str("id", msg.ID).Str("prompt_id", p.ID).Msg("selection captured")
	return nil
}

// TitleFrom derives a prompt title from the first non-blank line of text,
// shortened to a fixed number of runes.
func TitleFrom(text string) string {
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxTitleRunes {
			return line
		}
		runes := []rune(line)
		return strings.TrimSpace(string(runes[:maxTitleRunes-1])) + "…"
	}
	return ""
}
