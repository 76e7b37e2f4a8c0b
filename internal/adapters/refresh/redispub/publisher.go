package redispub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"dog-registry/internal/platform/logger"
	refreshport "dog-registry/internal/ports/refresh"
)

const DefaultChannel = "dog-registry:refresh"

// Open crea un cliente Redis desde una URL (redis://...) y valida la
// conexión con un ping.
func Open(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Publisher emite las señales de refresh por pub/sub para que frontends
// suscriptos invaliden sus vistas. Best-effort: un publish fallido se loguea
// y no afecta la operación de dominio que lo originó.
type Publisher struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

func NewPublisher(client *redis.Client, channel string, log logger.Logger) *Publisher {
	if strings.TrimSpace(channel) == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		client:  client,
		channel: channel,
		log:     log,
	}
}

var _ refreshport.Signaler = (*Publisher)(nil)

type signalPayload struct {
	View  string `json:"view"`
	DogID string `json:"dog_id,omitempty"`
}

func (p *Publisher) SearchChanged(ctx context.Context) {
	p.publish(ctx, signalPayload{View: "search"})
}

func (p *Publisher) DogChanged(ctx context.Context, dogID string) {
	p.publish(ctx, signalPayload{View: "dog", DogID: dogID})
}

func (p *Publisher) publish(ctx context.Context, pl signalPayload) {
	b, err := json.Marshal(pl)
	if err != nil {
		return
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil && p.log != nil {
		p.log.Warn("refresh publish failed", map[string]any{
			"channel": p.channel,
			"view":    pl.View,
			"err":     err.Error(),
		})
	}
}
