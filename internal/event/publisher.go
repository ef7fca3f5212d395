package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/brightclass/brightclass-backend/internal/config"
	"github.com/brightclass/brightclass-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Publisher emits integration events on the Redis event channel. Publishing
// is fire-and-forget: a failed publish is logged, never surfaced to the
// request that triggered it.
type Publisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewPublisher creates a new Publisher.
func NewPublisher(rdb *redis.Client, log zerolog.Logger) *Publisher {
	return &Publisher{
		rdb: rdb,
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish serializes the payload into the event envelope and pushes it onto
// the channel.
func (p *Publisher) Publish(ctx context.Context, name string, payload any) {
	evt := model.Event{
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	body, err := json.Marshal(evt)
	if err != nil {
		p.log.Error().Err(err).Str("event", name).Msg("marshal event")
		return
	}

	if err := p.rdb.Publish(ctx, config.CacheKey.EventChannel(), body).Err(); err != nil {
		p.log.Error().Err(err).Str("event", name).Msg("publish event")
		return
	}

	p.log.Debug().Str("event", name).Msg("event published")
}
