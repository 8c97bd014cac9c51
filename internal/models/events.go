package models

import "time"

const (
	FundCreatedEventType     = "FundCreated"
	FundTypeCreatedEventType = "FundTypeCreated"
)

// DomainEvent is a fact raised by an aggregate during one unit of work.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() int64
}

type FundCreated struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func (e FundCreated) EventType() string     { return FundCreatedEventType }
func (e FundCreated) OccurredAt() time.Time { return e.CreatedAt }
func (e FundCreated) AggregateID() int64    { return e.ID }

type FundTypeCreated struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (e FundTypeCreated) EventType() string     { return FundTypeCreatedEventType }
func (e FundTypeCreated) OccurredAt() time.Time { return e.CreatedAt }
func (e FundTypeCreated) AggregateID() int64    { return e.ID }

// eventBuffer guarda os eventos pendentes de um agregado até o PopEvents.
type eventBuffer struct {
	pending []DomainEvent
}

func (b *eventBuffer) record(e DomainEvent) {
	b.pending = append(b.pending, e)
}

// PopEvents devolve os eventos pendentes na ordem em que foram gerados e limpa o buffer.
func (b *eventBuffer) PopEvents() []DomainEvent {
	out := b.pending
	b.pending = nil
	if out == nil {
		return []DomainEvent{}
	}
	return out
}

// now é substituído nos testes.
var now = func() time.Time { return time.Now().UTC() }
