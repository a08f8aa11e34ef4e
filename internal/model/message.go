package model

import "time"

// Message is one chat message in the `messages` table. Rows are append-only:
// after insert nothing ever changes except the Read flag, and that only flips
// false -> true when the receiver opens the conversation. CreatedAt is
// assigned by the database at insert time.
//
// A conversation between two users is the set of messages where
// {sender_id, receiver_id} equals the unordered pair of their ids, sorted
// ascending by CreatedAt.
type Message struct {
	ID         uint64    `json:"id"`          // messages.id
	SenderID   uint64    `json:"sender_id"`   // messages.sender_id
	ReceiverID uint64    `json:"receiver_id"` // messages.receiver_id
	Content    string    `json:"content"`     // messages.content
	Read       bool      `json:"read"`        // messages.read
	CreatedAt  time.Time `json:"created_at"`  // messages.created_at
}

// UnreadSummary is one entry of the per-sender unread roll-up shown on the
// notification indicator: how many unread messages a given sender has waiting
// for the receiver. Senders with zero unread messages never appear.
type UnreadSummary struct {
	SenderID   uint64 `json:"sender_id"`
	Count      int64  `json:"count"`
	SenderName string `json:"sender_name"`
}

// ChatPartner is a user the caller has exchanged at least one message with,
// in either direction. Used by the conversation list screen.
type ChatPartner struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
