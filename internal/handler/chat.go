package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/roomatch/roomatch-backend/internal/middleware"
	"github.com/roomatch/roomatch-backend/internal/model"
	"github.com/roomatch/roomatch-backend/internal/queue"
	"github.com/roomatch/roomatch-backend/internal/realtime"
	"github.com/roomatch/roomatch-backend/internal/repository"
	queue_publisher "github.com/roomatch/roomatch-backend/internal/service"
)

// ChatHandler serves conversation history, sends, read-marking, the unread
// roll-up and the partner list. After a successful send it announces the new
// row on the Redis bus for live delivery and on RabbitMQ for the durable
// audit trail; both are best effort because the row is already committed.
type ChatHandler struct {
	Messages *repository.MessageRepo
	Users    *repository.UserRepo
	RDB      *redis.Client // nil disables live delivery
}

func NewChatHandler(m *repository.MessageRepo, u *repository.UserRepo, rdb *redis.Client) *ChatHandler {
	return &ChatHandler{Messages: m, Users: u, RDB: rdb}
}

// messageReq is the dual-purpose POST body: a send carries receiver_id and
// content, a read-marking carries mark_read plus other_user_id.
type messageReq struct {
	ReceiverID  uint64 `json:"receiver_id"`
	Content     string `json:"content"`
	MarkRead    bool   `json:"mark_read"`
	OtherUserID uint64 `json:"other_user_id"`
}

// Conversation returns the full ordered history between the caller and
// other_user_id. A missing parameter yields an empty array with 401, the
// same shape unauthenticated callers see.
func (h *ChatHandler) Conversation(c echo.Context) error {
	uid := middleware.UserID(c)

	other, err := strconv.ParseUint(c.QueryParam("other_user_id"), 10, 64)
	if err != nil || other == 0 {
		return c.JSON(http.StatusUnauthorized, []model.Message{})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Messages.Conversation(ctx, uid, other)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, msgs)
}

// Post multiplexes the two conversation mutations on one endpoint, matching
// the wire contract of the web client: mark_read flips the caller's unread
// incoming messages from the named sender, anything else is a send.
func (h *ChatHandler) Post(c echo.Context) error {
	uid := middleware.UserID(c)

	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.MarkRead && req.OtherUserID != 0 {
		if _, err := h.Messages.MarkRead(ctx, uid, req.OtherUserID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}

	if req.ReceiverID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	msg, err := h.Messages.Create(ctx, uid, req.ReceiverID, req.Content)
	if err != nil {
		if err == repository.ErrEmptyContent {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "content must not be empty"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}

	h.announce(ctx, msg)

	return c.JSON(http.StatusCreated, msg)
}

// announce fans the committed message out to the live bus and the durable
// queue. Failures are logged, never surfaced: the send already succeeded and
// clients recover missed live events on their next fetch.
func (h *ChatHandler) announce(ctx context.Context, msg model.Message) {
	if err := realtime.PublishMessage(ctx, h.RDB, msg); err != nil {
		log.Printf("chat: publish realtime event failed: %v", err)
	}

	senderName := ""
	if u, err := h.Users.GetByID(ctx, msg.SenderID); err == nil {
		senderName = u.Name
	}
	if err := queue_publisher.PublishMessageSent(ctx, queue.MessageSentEvent{
		MessageID:    msg.ID,
		SenderID:     msg.SenderID,
		SenderName:   senderName,
		ReceiverID:   msg.ReceiverID,
		ContentChars: len(msg.Content),
		SentAt:       msg.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("chat: publish message.sent event failed: %v", err)
	}
}

// Unread returns the caller's per-sender unread counts for the notification
// indicator. Re-derived from the read flag on every call.
func (h *ChatHandler) Unread(c echo.Context) error {
	uid := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Messages.UnreadSummary(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, summary)
}

// Partners returns the distinct users the caller has chatted with, for the
// conversation list screen.
func (h *ChatHandler) Partners(c echo.Context) error {
	uid := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	partners, err := h.Messages.Partners(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, partners)
}
