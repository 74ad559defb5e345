package interfaces

import "context"

// SlackClient is the thin outbound boundary to the chat platform.
type SlackClient interface {
	// PostMessage posts plain text to a channel, optionally in a thread.
	PostMessage(ctx context.Context, channel, text, threadTS string) error

	// PostBlocks posts a Block Kit payload to a channel.
	PostBlocks(ctx context.Context, channel string, blocks []map[string]any, threadTS string) error

	// UploadFile uploads a file (chart image, document) to a channel.
	UploadFile(ctx context.Context, channel, filename, title string, data []byte) error
}

// ConversationState is the per-conversation data retained between a summary
// request and its follow-up actions.
type ConversationState struct {
	CompanyName    string
	Summary        string
	FullContext    string
	OriginalURL    string
	QAEnabled      bool
	ComparePending bool
}

// ConversationStore is a bounded, least-recently-used store of conversation
// state keyed by "channel:thread". Updates on one key are mutually exclusive.
type ConversationStore interface {
	// Get returns a copy of the state for key, and whether it exists.
	Get(key string) (ConversationState, bool)

	// Put stores state for key, evicting the least-recently-used entry
	// when the store is at capacity.
	Put(key string, state ConversationState)

	// Update applies fn to the state for key under the store lock,
	// creating a zero state when the key is absent.
	Update(key string, fn func(*ConversationState))

	// Delete removes the key.
	Delete(key string)

	// Len returns the number of stored conversations.
	Len() int
}
