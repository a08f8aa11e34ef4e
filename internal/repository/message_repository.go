package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roomatch/roomatch-backend/internal/model"
)

// MessageRepo provides the chat message store: conversation lookup in both
// directions, append-only sends, bulk read-marking and the per-sender unread
// roll-up. Messages are never edited or deleted; the only mutation this repo
// performs after insert is flipping read from 0 to 1.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// ErrEmptyContent is returned by Create for blank message bodies. The check
// runs before any write so a rejected send leaves no row behind.
var ErrEmptyContent = errors.New("message content must not be empty")

const messageColumns = "id,sender_id,receiver_id,content,`read`,created_at"

// Conversation returns the full message history between the two users, in
// either direction, ordered ascending by creation time. The pair is
// unordered: Conversation(a,b) and Conversation(b,a) return the same rows.
// The id tiebreak keeps ordering stable for messages created within the
// same timestamp granularity.
func (r *MessageRepo) Conversation(ctx context.Context, userA, userB uint64) ([]model.Message, error) {
	const q = "SELECT " + messageColumns + ` FROM messages
WHERE (sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?)
ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Create appends a new message with read=false and a database-assigned
// timestamp, then reads the full row back so the caller can return it to the
// sender without a second fetch. Blank or whitespace-only content is rejected
// with ErrEmptyContent before touching the database.
func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID uint64, content string) (model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return model.Message{}, ErrEmptyContent
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, content, `read`) VALUES (?,?,?,0)",
		senderID, receiverID, content)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	var m model.Message
	err = r.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id=?", uint64(id)).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt)
	return m, err
}

// MarkRead flags every unread message from otherUserID to receiverID as read
// and returns the number of rows updated. Only the receiver's own unread
// incoming messages are touched, and only from unread to read, so repeating
// the call is safe: the second run updates zero rows.
func (r *MessageRepo) MarkRead(ctx context.Context, receiverID, otherUserID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE messages SET `read`=1 WHERE sender_id=? AND receiver_id=? AND `read`=0",
		otherUserID, receiverID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnreadSummary groups the receiver's unread messages by sender and counts
// each group, resolving sender display names in the same query. Senders with
// nothing unread are absent by construction; a sender whose user row has
// vanished still appears, named "Unknown". Derived on every call from the
// read flag, never from a stored counter.
func (r *MessageRepo) UnreadSummary(ctx context.Context, receiverID uint64) ([]model.UnreadSummary, error) {
	const q = "SELECT m.sender_id, COUNT(*), COALESCE(u.name,'Unknown')" + `
FROM messages m
LEFT JOIN users u ON u.id = m.sender_id
WHERE m.receiver_id=? AND m.` + "`read`" + `=0
GROUP BY m.sender_id, u.name`
	rows, err := r.db.QueryContext(ctx, q, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.UnreadSummary, 0)
	for rows.Next() {
		var s model.UnreadSummary
		if err := rows.Scan(&s.SenderID, &s.Count, &s.SenderName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Partners returns the distinct users the given user has exchanged messages
// with, in either direction, for the conversation list screen.
func (r *MessageRepo) Partners(ctx context.Context, userID uint64) ([]model.ChatPartner, error) {
	const q = `SELECT DISTINCT u.id, u.name, u.avatar_url
FROM users u
JOIN messages m ON (m.sender_id = u.id AND m.receiver_id = ?)
               OR (m.receiver_id = u.id AND m.sender_id = ?)
ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, q, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ChatPartner, 0)
	for rows.Next() {
		var p model.ChatPartner
		if err := rows.Scan(&p.ID, &p.Name, &p.AvatarURL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
