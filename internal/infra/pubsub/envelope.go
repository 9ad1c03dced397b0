package pubsub

import (
	"encoding/json"

	"spark/internal/domain/service"

	"github.com/pkg/errors"
)

const matchCreated = "match.created"

// envelope is a match event ready for any transport: a JSON body plus
// string attributes subscribers can filter on.
type envelope struct {
	data  []byte
	attrs map[string]string
}

func encodeMatch(event *service.MatchEvent) (envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return envelope{}, errors.Wrap(err, "encode match event")
	}

	attrs := map[string]string{"event_type": matchCreated, "chat_id": event.ChatID}
	if event.RequestID != "" {
		attrs["request_id"] = event.RequestID
	}

	return envelope{data: data, attrs: attrs}, nil
}
