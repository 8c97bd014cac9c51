package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

var (
	ErrBeginFailed   = errors.New("unit of work: begin transaction failed")
	ErrPublishFailed = errors.New("unit of work: event publication failed")
	ErrCommitFailed  = errors.New("unit of work: commit failed")
)

// Publisher entrega um evento por vez, de forma síncrona.
type Publisher interface {
	Publish(ctx context.Context, e models.DomainEvent) error
}

// Events é a fila de eventos de uma unidade de trabalho. O handler enfileira
// explicitamente o que os agregados geraram (PopEvents); nada é varrido por fora.
type Events struct {
	queue []models.DomainEvent
}

func (q *Events) Enqueue(events ...models.DomainEvent) {
	q.queue = append(q.queue, events...)
}

func (q *Events) Len() int { return len(q.queue) }

func (q *Events) drain() []models.DomainEvent {
	out := q.queue
	q.queue = nil
	return out
}

// Work is the body of one unit of work.
type Work func(ctx context.Context, tx repository.Tx, events *Events) error

type state int

const (
	stateOpen state = iota
	stateCommitted
	stateRolledBack
)

func (s state) String() string {
	switch s {
	case stateCommitted:
		return "committed"
	case stateRolledBack:
		return "rolled_back"
	default:
		return "open"
	}
}

type UnitOfWork struct {
	store repository.Store
	pub   Publisher
	log   *slog.Logger
}

func New(store repository.Store, pub Publisher, log *slog.Logger) *UnitOfWork {
	if log == nil {
		log = slog.Default()
	}
	return &UnitOfWork{store: store, pub: pub, log: log.With("cmp", "uow")}
}

// Run abre a transação, executa work, publica os eventos enfileirados na ordem e só então
// faz commit. Qualquer falha (work, publicação ou commit) faz rollback e volta para o chamador.
func (u *UnitOfWork) Run(ctx context.Context, work Work) (err error) {
	tx, err := u.store.Begin(ctx)
	if err != nil {
		u.log.Error("uow_begin_error", "err", err)
		return fmt.Errorf("%w: %w", ErrBeginFailed, err)
	}

	st := stateOpen
	defer func() {
		if st != stateOpen {
			return
		}
		// contexto próprio: o do request pode já ter expirado
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		st = stateRolledBack
		if rbErr != nil {
			u.log.Error("uow_rollback_error", "err", rbErr)
			err = errors.Join(err, rbErr)
			return
		}
		u.log.Debug("uow_rolled_back", "state", st.String())
	}()

	events := &Events{}
	if err = work(ctx, tx, events); err != nil {
		return err
	}

	for _, e := range events.drain() {
		if err = u.pub.Publish(ctx, e); err != nil {
			u.log.Error("uow_publish_error", "event_type", e.EventType(), "aggregate_id", e.AggregateID(), "err", err)
			return fmt.Errorf("%w: %s: %w", ErrPublishFailed, e.EventType(), err)
		}
		u.log.Debug("uow_event_published", "event_type", e.EventType(), "aggregate_id", e.AggregateID())
	}

	if err = tx.Commit(ctx); err != nil {
		// commit com erro já descarta a transação no banco; não há rollback a fazer
		st = stateRolledBack
		u.log.Error("uow_commit_error", "err", err)
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	st = stateCommitted
	u.log.Debug("uow_committed", "state", st.String())
	return nil
}
