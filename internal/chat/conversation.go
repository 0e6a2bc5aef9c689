package chat

import "errors"

type EntryKind string

const (
	EntryUser      EntryKind = "user"
	EntryAssistant EntryKind = "assistant"
	EntryError     EntryKind = "error"
)

// Entry is one line of the visitor-facing transcript. Error entries render
// inline like assistant turns but are never sent back to the gateway.
type Entry struct {
	Kind    EntryKind `json:"kind"`
	Content string    `json:"content"`
}

// Conversation accumulates the transcript of one chat session.
type Conversation struct {
	entries []Entry
}

func (c *Conversation) AddUser(content string) {
	c.entries = append(c.entries, Entry{Kind: EntryUser, Content: content})
}

func (c *Conversation) AddAssistant(content string) {
	c.entries = append(c.entries, Entry{Kind: EntryAssistant, Content: content})
}

// AddFailure appends the transcript entry for a failed gateway call. Gateway
// status codes map to their dedicated messages; anything else gets the
// generic one.
func (c *Conversation) AddFailure(err error) {
	var gw *GatewayError
	if errors.As(err, &gw) {
		c.entries = append(c.entries, Entry{Kind: EntryError, Content: gw.UserMessage()})
		return
	}
	c.entries = append(c.entries, Entry{Kind: EntryError, Content: "AI gateway error"})
}

func (c *Conversation) Entries() []Entry {
	return c.entries
}

// Messages returns the turns to send to the gateway. Error entries are
// excluded so a failed call never pollutes the model context.
func (c *Conversation) Messages() []Message {
	messages := make([]Message, 0, len(c.entries))
	for _, entry := range c.entries {
		switch entry.Kind {
		case EntryUser, EntryAssistant:
			messages = append(messages, Message{Role: string(entry.Kind), Content: entry.Content})
		}
	}
	return messages
}
