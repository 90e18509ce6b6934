package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/logging"
	"github.com/Davidxcr/YelpCamp/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// TopicAll receives every event regardless of campground.
const TopicAll = "all"

const (
	channelPrefix  = "campgrounds:"
	channelSuffix  = ":events"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Event is one activity notification pushed to websocket clients.
type Event struct {
	Type       string    `json:"type"`
	Campground string    `json:"campgroundId"`
	Data       any       `json:"data,omitempty"`
	At         time.Time `json:"at"`
}

type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Topic string
	Send  chan []byte
}

// NewHub fans events out to local clients. With a redis client, events are
// routed through redis so every API instance sees them; the subscription
// lives until ctx is cancelled or Close is called.
func NewHub(ctx context.Context, redisClient *redis.Client) *Hub {
	h := &Hub{clients: map[string]map[*Client]struct{}{}}
	if redisClient == nil {
		return h
	}

	pubsub := redisClient.PSubscribe(ctx, channelPattern)
	if _, err := pubsub.Receive(ctx); err != nil {
		logging.Warn().Err(err).Msg("redis subscribe failed, delivering events in-process")
		_ = pubsub.Close()
		return h
	}
	h.redis = redisClient
	h.pubsub = pubsub
	go h.forward(pubsub.Channel())
	return h
}

func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

// Unregister removes client and closes its Send channel. Calling it twice
// is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topicClients := h.clients[client.Topic]
	if _, ok := topicClients[client]; !ok {
		return
	}
	delete(topicClients, client)
	if len(topicClients) == 0 {
		delete(h.clients, client.Topic)
	}
	close(client.Send)
}

// Subscribers returns the number of local clients on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Publish sends evt to topic. Failures are logged, never returned: activity
// events must not fail the write that produced them.
func (h *Hub) Publish(ctx context.Context, topic string, evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		logging.Error().Err(err).Str("type", evt.Type).Msg("encode event")
		return
	}
	metrics.EventsPublished.WithLabelValues(evt.Type).Inc()

	if h.redis != nil {
		err := h.redis.Publish(ctx, redisChannel(topic), payload).Err()
		if err == nil {
			return
		}
		logging.Warn().Err(err).Str("topic", topic).Msg("redis publish failed, delivering locally")
	}
	h.deliver(topic, payload)
}

func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	for msg := range messages {
		topic := topicFromChannel(msg.Channel)
		if topic == "" {
			continue
		}
		h.deliver(topic, []byte(msg.Payload))
	}
}

func redisChannel(topic string) string {
	return channelPrefix + topic + channelSuffix
}

func topicFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
