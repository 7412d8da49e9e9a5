package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const DefaultEventChannel = "tictactoe:events"

var ErrEmptyChannel = errors.New("event channel name is empty")

type EventRepository interface {
	Publish(ctx context.Context, event entity.Event) error
	Subscribe(ctx context.Context) (*redis.PubSub, error)
}

type dbEvent struct {
	client  *redis.Client
	channel string
}

func NewEventRepository(client *redis.Client, channel string) (EventRepository, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}

	return &dbEvent{
		client:  client,
		channel: channel,
	}, nil
}

// Publish - sends the event as JSON to every subscriber of the channel.
func (that *dbEvent) Publish(ctx context.Context, event entity.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe - subscribes to the channel and waits for the confirmation.
func (that *dbEvent) Subscribe(ctx context.Context) (*redis.PubSub, error) {
	pubsub := that.client.Subscribe(ctx, that.channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", that.channel, err)
	}

	return pubsub, nil
}

// DecodeEvent - parses a pub/sub payload published by Publish.
func DecodeEvent(message *redis.Message) (entity.Event, error) {
	var event entity.Event
	if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
		return entity.Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return event, nil
}
