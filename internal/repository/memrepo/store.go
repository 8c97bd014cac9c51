// Package memrepo keeps funds in process memory. Transactions are serialized and work on a copy
// of the committed state, which is swapped in on Commit.
package memrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

var errTxDone = errors.New("memrepo: transaction already finished")

type fundRow struct {
	id        int64
	code      string
	name      string
	cnpj      string
	typeID    int64
	patrimony decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

type state struct {
	funds      map[string]fundRow
	types      map[int64]string
	nextFundID int64
	nextTypeID int64
}

func (s *state) clone() *state {
	c := &state{
		funds:      make(map[string]fundRow, len(s.funds)),
		types:      make(map[int64]string, len(s.types)),
		nextFundID: s.nextFundID,
		nextTypeID: s.nextTypeID,
	}
	for k, v := range s.funds {
		c.funds[k] = v
	}
	for k, v := range s.types {
		c.types[k] = v
	}
	return c
}

type Store struct {
	// sem admite uma transação por vez
	sem chan struct{}

	mu        sync.RWMutex
	committed *state
}

func New() *Store {
	return &Store{
		sem: make(chan struct{}, 1),
		committed: &state{
			funds:      map[string]fundRow{},
			types:      map[int64]string{},
			nextFundID: 1,
			nextTypeID: 1,
		},
	}
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	return &tx{store: s, st: work}, nil
}

func (s *Store) Queries() repository.FundQueries { return &queries{store: s} }

func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

type tx struct {
	store *Store
	st    *state
	done  bool
}

func (t *tx) Funds() repository.FundRepository         { return &fundRepo{tx: t} }
func (t *tx) FundTypes() repository.FundTypeRepository { return &fundTypeRepo{tx: t} }

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	defer func() { <-t.store.sem }()

	if err := ctx.Err(); err != nil {
		return err
	}
	t.store.mu.Lock()
	t.store.committed = t.st
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Rollback(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	<-t.store.sem
	return nil
}

func (t *tx) state() (*state, error) {
	if t.done {
		return nil, errTxDone
	}
	return t.st, nil
}
