package interfaces

import "context"

// Message is a single turn in a model conversation.
type Message struct {
	// Role identifies the sender: "user", "assistant", or "system"
	Role string

	// Content is the text of the message
	Content string
}

// LLMService is the opaque text-in/text-out language model boundary.
type LLMService interface {
	// Generate returns the model's completion for the given messages.
	Generate(ctx context.Context, messages []Message) (string, error)

	// Close releases provider resources.
	Close() error
}
