package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalajet/backend/internal/infrastructure/config"
	"github.com/lalajet/backend/internal/sync"
)

const channelPrefix = "sync:"

// Feed is the change-notification feed over Redis Pub/Sub: one channel
// per collection, one JSON-encoded sync.Event per message.
type Feed struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// FeedOption is a functional option for configuring the feed
type FeedOption func(*Feed)

// WithFeedLogger sets the logger for the feed
func WithFeedLogger(logger *zap.Logger) FeedOption {
	return func(f *Feed) { f.logger = logger }
}

// NewFeed creates a feed with its own Redis client
func NewFeed(cfg *config.RedisConfig, opts ...FeedOption) (*Feed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	f := &Feed{client: client, ownsClient: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewFeedWithClient creates a feed over an existing Redis client.
// The caller retains ownership of the client and is responsible for
// closing it.
func NewFeedWithClient(client *redis.Client, opts ...FeedOption) *Feed {
	f := &Feed{client: client, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func channelFor(col sync.Collection) string {
	return channelPrefix + string(col)
}

// Publish sends one change notification to the collection's channel.
func (f *Feed) Publish(ctx context.Context, ev sync.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := f.client.Publish(ctx, channelFor(ev.Collection), data).Err(); err != nil {
		f.logger.Error("Failed to publish sync event",
			zap.String("collection", string(ev.Collection)),
			zap.String("key", ev.Key),
			zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}
	f.logger.Debug("Published sync event",
		zap.String("collection", string(ev.Collection)),
		zap.String("kind", string(ev.Kind)),
		zap.String("key", ev.Key))
	return nil
}

// Subscribe delivers the collection's change notifications to fn until
// the returned stop function is called. Delivery is sequential on a
// single goroutine; event order is part of the merge contract and must
// not be reshuffled by concurrent dispatch.
func (f *Feed) Subscribe(ctx context.Context, col sync.Collection, fn func(sync.Event)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	pubsub := f.client.Subscribe(subCtx, channelFor(col))

	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	f.logger.Info("Subscribed to sync channel", zap.String("channel", channelFor(col)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					f.logger.Warn("Sync channel closed", zap.String("channel", channelFor(col)))
					return
				}
				var ev sync.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					f.logger.Error("Failed to unmarshal sync event",
						zap.String("payload", msg.Payload),
						zap.Error(err))
					continue
				}
				fn(ev)
			}
		}
	}()

	stop := func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			f.logger.Warn("Timeout waiting for subscription to stop")
		}
	}
	return stop, nil
}

// Close releases the Redis client when the feed owns it
func (f *Feed) Close() error {
	if f.ownsClient {
		return f.client.Close()
	}
	return nil
}
