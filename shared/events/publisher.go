package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogStreamMaxLen caps catalog.events. Subscribers only act on the most
// recent imports.
const CatalogStreamMaxLen = 1000

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishCatalogImported announces a finished import on the catalog stream.
func (p *Publisher) PublishCatalogImported(ctx context.Context, imported CatalogImportedEvent) error {
	args, err := xaddArgs(CatalogEventsStream, CatalogImported, imported, CatalogStreamMaxLen, time.Now().UTC())
	if err != nil {
		return err
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", CatalogImported, err)
	}
	return nil
}

func xaddArgs(stream, eventType string, data any, maxLen int64, now time.Time) (*redis.XAddArgs, error) {
	eventJSON, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: now,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	return &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxLen,
		Approx: true,
		Values: map[string]any{
			"event": eventJSON,
		},
	}, nil
}

// DecodeData re-decodes the generic Data payload of an event into out.
func DecodeData(event Event, out any) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	return nil
}
