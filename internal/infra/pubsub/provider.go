// Package pubsub publishes match events to downstream consumers.
package pubsub

import (
	"context"
	"log/slog"

	"spark/config"
	"spark/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher drops events when no broker is configured.
type noopPublisher struct {
	log *slog.Logger
}

func (p *noopPublisher) PublishMatchEvent(ctx context.Context, event *service.MatchEvent) error {
	p.log.DebugContext(ctx, "match event dropped", slog.String("chat_id", event.ChatID))

	return nil
}

func (p *noopPublisher) Close() error { return nil }

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher picks the transport named by pubsub.provider. Real
// transports are closed when the application stops.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	log := params.Logger.With(slog.String("component", "pubsub"))

	if cfg == nil || cfg.Provider == "" || cfg.Provider == config.PubSubProviderNoop {
		log.Info("match events disabled")

		return &noopPublisher{log: log}, nil
	}

	publisher, err := openPublisher(params.Ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("match event publisher ready", slog.String("provider", cfg.Provider))

	params.Lc.Append(fx.StopHook(publisher.Close))

	return publisher, nil
}

func openPublisher(ctx context.Context, cfg *config.PubSubConfig, log *slog.Logger) (service.EventPublisher, error) {
	switch cfg.Provider {
	case config.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("pubsub.localEndpoint is required for the local provider")
		}

		return newLocalHTTPPublisher(cfg.LocalEndpoint, log), nil
	case config.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("pubsub.projectId and pubsub.topicId are required for the google provider")
		}

		publisher, err := newGooglePublisher(ctx, cfg, log)
		if err != nil {
			return nil, err
		}

		return publisher, nil
	default:
		return nil, errors.Errorf("unknown pubsub provider %q", cfg.Provider)
	}
}
