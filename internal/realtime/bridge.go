package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/roomatch/roomatch-backend/internal/model"
)

// ChannelMessages is the Redis pub/sub channel carrying message-insert
// events. Every service instance publishes created messages here and every
// instance's bridge subscribes, so delivery works across replicas.
const ChannelMessages = "messages:insert"

// PublishMessage announces a freshly inserted message on the bus. Best
// effort: the message is already committed when this runs, so a bus failure
// must not fail the send — callers log the error and move on, and clients
// recover via their next explicit fetch.
func PublishMessage(ctx context.Context, rdb *redis.Client, m model.Message) error {
	if rdb == nil {
		return nil
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return rdb.Publish(ctx, ChannelMessages, payload).Err()
}

// Bridge owns the single persistent bus subscription for this process and
// routes each event to the hub clients of the two conversation parties.
type Bridge struct {
	rdb *redis.Client
	hub *Hub
}

func NewBridge(rdb *redis.Client, hub *Hub) *Bridge {
	return &Bridge{rdb: rdb, hub: hub}
}

// Run subscribes to the message channel and dispatches events until the
// context is cancelled. The go-redis pubsub re-establishes the subscription
// after a dropped connection on its own; events published while disconnected
// are simply lost (no replay), which clients tolerate because conversation
// history and unread counts are re-fetched explicitly.
func (b *Bridge) Run(ctx context.Context) {
	if b.rdb == nil {
		log.Printf("bridge: no redis client, live delivery disabled")
		return
	}
	sub := b.rdb.Subscribe(ctx, ChannelMessages)
	defer func() { _ = sub.Close() }()

	log.Printf("bridge: subscribed to %s", ChannelMessages)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.dispatch([]byte(msg.Payload))
		}
	}
}

// dispatch decodes one bus event and delivers it to both parties: the
// receiver needs it for the open conversation view and the notification
// indicator, the sender for any other sessions they have open.
func (b *Bridge) dispatch(payload []byte) {
	var m model.Message
	if err := json.Unmarshal(payload, &m); err != nil {
		log.Printf("bridge: drop malformed event: %v", err)
		return
	}
	b.hub.BroadcastToUsers([]uint64{m.SenderID, m.ReceiverID}, Event{Type: EventMessageNew, Data: m})
}
