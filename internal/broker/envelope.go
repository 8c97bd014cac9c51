package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/utils"
)

var json = jsoniter.ConfigFastest

// Envelope é o formato das mensagens na fila.
type Envelope struct {
	MessageID     string              `json:"message_id"`
	CorrelationID string              `json:"correlation_id,omitempty"`
	EventType     string              `json:"event_type"`
	OccurredAt    time.Time           `json:"occurred_at"`
	Payload       jsoniter.RawMessage `json:"payload"`
}

func NewEnvelope(ctx context.Context, e models.DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", e.EventType(), err)
	}
	return Envelope{
		MessageID:     uuid.NewString(),
		CorrelationID: utils.RequestID(ctx),
		EventType:     e.EventType(),
		OccurredAt:    e.OccurredAt().UTC(),
		Payload:       payload,
	}, nil
}

func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing event_type")
	}
	return env, nil
}

// FundCode devolve o code do fundo no payload, ou "" para eventos que não são de fundo.
func (e Envelope) FundCode() string {
	if e.EventType != models.FundCreatedEventType {
		return ""
	}
	return json.Get(e.Payload, "code").ToString()
}
