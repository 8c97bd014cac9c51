// Package pgrepo stores funds in Postgres through a pgx pool. SQL is built with goqu.
package pgrepo

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registra o dialeto
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

const (
	tableFunds     = "funds"
	tableFundTypes = "fund_types"
)

//go:embed schema.sql
var schemaSQL string

var dialect = goqu.Dialect("postgres")

// querier é o que pgx.Tx e *pgxpool.Pool têm em comum.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewStore(pool *pgxpool.Pool, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{pool: pool, log: log.With("cmp", "pgrepo")}
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	pgTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("pg begin: %w", err)
	}
	return &tx{tx: pgTx, log: s.log}, nil
}

func (s *Store) Queries() repository.FundQueries {
	return &queries{db: s.pool, log: s.log}
}

// Migrate aplica o schema embutido. Sem argumentos o pgx usa o protocolo simples,
// então o arquivo inteiro vai num único Exec.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		s.log.Error("pg_migrate_error", "err", err)
		return fmt.Errorf("pg migrate: %w", err)
	}
	s.log.Info("pg_migrated")
	return nil
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

type tx struct {
	tx  pgx.Tx
	log *slog.Logger
}

func (t *tx) Funds() repository.FundRepository {
	return &fundRepo{db: t.tx, log: t.log}
}

func (t *tx) FundTypes() repository.FundTypeRepository {
	return &fundTypeRepo{db: t.tx, log: t.log}
}

func (t *tx) Commit(ctx context.Context) error {
	return translate(t.tx.Commit(ctx))
}

func (t *tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
