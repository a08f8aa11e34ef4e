// Package queue defines message payloads exchanged over the message broker.
package queue

// MessageSentEvent is published when a chat message is successfully stored.
// It carries enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database. Distinct from the
// Redis bus event: this one is durable and survives broker restarts, while
// the Redis event exists only for live UI delivery.
type MessageSentEvent struct {
	MessageID    uint64 `json:"message_id"`
	SenderID     uint64 `json:"sender_id"`
	SenderName   string `json:"sender_name"`
	ReceiverID   uint64 `json:"receiver_id"`
	ContentChars int    `json:"content_chars"` // length only, never the content itself
	SentAt       string `json:"sent_at"`
}
