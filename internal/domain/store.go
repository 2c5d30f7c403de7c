package domain

// ConversationStore is the append-only log of one conversation.
type ConversationStore interface {
	Append(msg Message) error
	Snapshot() []Message
}
