package pubsub

import (
	"context"
	"log/slog"

	"spark/config"
	"spark/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePublisher sends match events to a Cloud Pub/Sub topic and waits for
// the server acknowledgement.
type googlePublisher struct {
	client *pubsub.Client
	topic  *pubsub.Publisher
	log    *slog.Logger
}

func newGooglePublisher(ctx context.Context, cfg *config.PubSubConfig, log *slog.Logger) (*googlePublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, errors.Wrap(err, "pubsub client")
	}

	name := "projects/" + cfg.ProjectID + "/topics/" + cfg.TopicID
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: name}); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "lookup topic %s", name)
	}

	return &googlePublisher{
		client: client,
		topic:  client.Publisher(cfg.TopicID),
		log:    log.With(slog.String("topic", name)),
	}, nil
}

func (p *googlePublisher) PublishMatchEvent(ctx context.Context, event *service.MatchEvent) error {
	env, err := encodeMatch(event)
	if err != nil {
		return err
	}

	serverID, err := p.topic.Publish(ctx, &pubsub.Message{Data: env.data, Attributes: env.attrs}).Get(ctx)
	if err != nil {
		return errors.Wrap(err, "publish match event")
	}
	p.log.DebugContext(ctx, "match event published",
		slog.String("chat_id", event.ChatID),
		slog.String("server_id", serverID),
	)

	return nil
}

func (p *googlePublisher) Close() error {
	p.topic.Stop()

	return errors.WithStack(p.client.Close())
}
