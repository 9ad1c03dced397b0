package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "spark/internal/delivery/context"
	"spark/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localPublishTimeout = 10 * time.Second
	localSubscription   = "projects/local/subscriptions/spark-matches"
)

// PushRequest is the body Cloud Pub/Sub posts to push subscribers. The local
// publisher emits the same shape so a push handler can be developed offline.
type PushRequest struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

// PushMessage carries the event; Data is base64 encoded on the wire.
type PushMessage struct {
	Data        []byte            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId"`
	PublishTime time.Time         `json:"publishTime"`
}

type localHTTPPublisher struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

func newLocalHTTPPublisher(endpoint string, log *slog.Logger) *localHTTPPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: localPublishTimeout},
		log:      log.With(slog.String("endpoint", endpoint)),
	}
}

func (p *localHTTPPublisher) PublishMatchEvent(ctx context.Context, event *service.MatchEvent) error {
	env, err := encodeMatch(event)
	if err != nil {
		return err
	}

	body, err := json.Marshal(PushRequest{
		Subscription: localSubscription,
		Message: PushMessage{
			Data:        env.data,
			Attributes:  env.attrs,
			MessageID:   event.ChatID,
			PublishTime: time.Now().UTC(),
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, event.RequestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "push match event")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return errors.Errorf("push subscriber answered %d", resp.StatusCode)
	}
	p.log.DebugContext(ctx, "match event pushed", slog.String("chat_id", event.ChatID))

	return nil
}

func (p *localHTTPPublisher) Close() error {
	p.client.CloseIdleConnections()

	return nil
}
