//go:build integration
// +build integration

package pgrepo

/*
	Para rodar: go test -tags=integration -v ./internal/repository/pgrepo -count=1
*/

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Werneck0live/cadastro-fundos/internal/db"
	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

func startPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "fundos",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := db.NewPostgresPool(fmt.Sprintf("postgres://test:test@%s:%s/fundos?sslmode=disable", host, port.Port()))
	require.NoError(t, err, "pool")

	s := NewStore(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = s.Close(ctx) })

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx), "migrate must be idempotent")
	return s
}

func inTx(t *testing.T, s *Store, fn func(tx repository.Tx)) {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit(ctx))
}

// Exercita: tipos -> Add -> duplicado -> FK -> Adjust -> Update -> consultas -> Remove
func TestStore_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := startPostgres(t)

	inTx(t, s, func(tx repository.Tx) {
		for id, name := range map[int64]string{1: "RENDA FIXA", 2: "ACOES", 3: "MULTI MERCADO"} {
			ft, err := models.NewFundType(name)
			require.NoError(t, err)
			ft.AssignID(id)
			got, err := tx.FundTypes().Add(ctx, ft)
			require.NoError(t, err)
			assert.Equal(t, id, got)
		}
		// identity segue depois dos ids fixos
		ft, err := models.NewFundType("OUTRO")
		require.NoError(t, err)
		id, err := tx.FundTypes().Add(ctx, ft)
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)
	})

	cnpj, err := models.NewCnpj("11222333444455")
	require.NoError(t, err)

	var fund *models.Fund
	inTx(t, s, func(tx repository.Tx) {
		fund, err = models.NewFund("ITAURF999", "ITAU TESTE RF", cnpj, 1)
		require.NoError(t, err)
		id, err := tx.Funds().Add(ctx, fund)
		require.NoError(t, err)
		assert.Positive(t, id)
		fund.AssignID(id)

		ok, err := tx.Funds().Exists(ctx, "ITAURF999")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	// duplicado e FK inválida abortam a transação
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	dup, _ := models.NewFund("ITAURF999", "OUTRO", cnpj, 1)
	_, err = tx.Funds().Add(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateCode)
	require.NoError(t, tx.Rollback(ctx))

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	orphan, _ := models.NewFund("ORFAO", "SEM TIPO", cnpj, 99)
	_, err = tx.Funds().Add(ctx, orphan)
	assert.ErrorIs(t, err, repository.ErrFundTypeMissing)
	require.NoError(t, tx.Rollback(ctx))

	inTx(t, s, func(tx repository.Tx) {
		require.NoError(t, tx.Funds().AdjustPatrimony(ctx, "ITAURF999", decimal.RequireFromString("500.25")))
		assert.ErrorIs(t, tx.Funds().AdjustPatrimony(ctx, "NOPE", decimal.NewFromInt(1)), repository.ErrNotFound)

		f, err := tx.Funds().GetByCode(ctx, "ITAURF999")
		require.NoError(t, err)
		require.NoError(t, f.Update("ITAU TESTE RF +", f.Cnpj(), 2))
		require.NoError(t, tx.Funds().Update(ctx, f))
	})

	dto, err := s.Queries().GetFund(ctx, "ITAURF999")
	require.NoError(t, err)
	assert.Equal(t, "ITAU TESTE RF +", dto.Name)
	assert.Equal(t, "ACOES", dto.TypeName)
	assert.True(t, decimal.RequireFromString("500.25").Equal(dto.Patrimony), dto.Patrimony.String())

	list, err := s.Queries().ListFunds(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	types, err := s.Queries().ListFundTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 4)
	assert.Equal(t, "RENDA FIXA", types[0].Name())

	inTx(t, s, func(tx repository.Tx) {
		require.NoError(t, tx.Funds().Remove(ctx, fund))
	})
	_, err = s.Queries().GetFund(ctx, "ITAURF999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
