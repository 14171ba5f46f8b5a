package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/polyintel-project/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// SnapshotStreamHub multiplexes refresh notices from Redis pub/sub to many SSE clients
// without opening a Redis subscription per HTTP request.
type SnapshotStreamHub struct {
	redis       *redis.Client
	channelName string
	cancel      context.CancelFunc
	done        chan struct{}

	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
}

// NewSnapshotStreamHub subscribes to the channel before returning, so no notice
// published after construction is missed.
func NewSnapshotStreamHub(ctx context.Context, rdb *redis.Client, channel string) (*SnapshotStreamHub, error) {
	pubsub := rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	hub := &SnapshotStreamHub{
		redis:       rdb,
		channelName: channel,
		cancel:      cancel,
		done:        make(chan struct{}),
		subscribers: make(map[chan []byte]struct{}),
	}

	go hub.run(runCtx, pubsub)

	return hub, nil
}

func (h *SnapshotStreamHub) run(ctx context.Context, pubsub *redis.PubSub) {
	defer close(h.done)

	for {
		ch := pubsub.Channel(redis.WithChannelSize(256))

	recv:
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				h.broadcast([]byte(msg.Payload))
			}
		}

		_ = pubsub.Close()
		logger.Warn("Snapshot stream subscription dropped, resubscribing to %s", h.channelName)

		// Avoid tight loop if Redis connection drops
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
		pubsub = h.redis.Subscribe(ctx, h.channelName)
	}
}

func (h *SnapshotStreamHub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- payload:
		default:
			// Subscriber is too slow; drop the oldest notice to keep the hub responsive
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- payload:
			default:
			}
		}
	}
}

// Subscribe registers a new listener and returns a channel plus cleanup function.
func (h *SnapshotStreamHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}

// Subscribers reports how many listeners are registered
func (h *SnapshotStreamHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close stops the subscription loop and waits for it to exit
func (h *SnapshotStreamHub) Close() {
	h.cancel()
	<-h.done
}
