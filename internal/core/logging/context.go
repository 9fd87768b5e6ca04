package logging

import "context"

type contextKey string

const (
	promptIDKey contextKey = "prompt_id"
	topicKey    contextKey = "topic"
)

// WithPromptID adds a prompt ID to the context.
func WithPromptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, promptIDKey, id)
}

// WithTopic adds a relay topic to the context.
func WithTopic(ctx context.Context, topic string) context.Context {
	return context.WithValue(ctx, topicKey, topic)
}

// GetPromptID returns the prompt ID from the context, or "".
func GetPromptID(ctx context.Context) string {
	id, _ := ctx.Value(promptIDKey).(string)
	return id
}

// GetTopic returns the relay topic from the context, or "".
func GetTopic(ctx context.Context) string {
	topic, _ := ctx.Value(topicKey).(string)
	return topic
}
