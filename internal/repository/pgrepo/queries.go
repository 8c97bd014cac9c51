package pgrepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
)

// queries roda direto no pool, fora de qualquer transação de escrita.
type queries struct {
	db  querier
	log *slog.Logger
}

func fundView() *goqu.SelectDataset {
	return dialect.From(goqu.T(tableFunds).As("f")).
		Join(goqu.T(tableFundTypes).As("t"), goqu.On(goqu.I("f.type_id").Eq(goqu.I("t.id")))).
		Select(
			goqu.I("f.code"),
			goqu.I("f.name"),
			goqu.I("f.cnpj"),
			goqu.I("f.type_id"),
			goqu.I("t.name"),
			goqu.L("f.patrimony::text"),
		)
}

func (q *queries) GetFund(ctx context.Context, code string) (models.FundDTO, error) {
	query, args, err := fundView().Where(goqu.I("f.code").Eq(code)).Prepared(true).ToSQL()
	if err != nil {
		return models.FundDTO{}, fmt.Errorf("build get fund: %w", err)
	}
	dto, err := scanDTO(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.FundDTO{}, translate(err)
	}
	return dto, nil
}

func (q *queries) ListFunds(ctx context.Context) ([]models.FundDTO, error) {
	query, args, err := fundView().Order(goqu.I("f.code").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list funds: %w", err)
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		q.log.Error("pg_list_funds_error", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.FundDTO{}
	for rows.Next() {
		dto, err := scanDTO(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, rows.Err()
}

func (q *queries) ListFundTypes(ctx context.Context) ([]models.FundType, error) {
	query, args, err := dialect.From(tableFundTypes).
		Select("id", "name").
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fund types: %w", err)
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FundType{}
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, *models.RestoreFundType(id, name))
	}
	return out, rows.Err()
}

func scanDTO(row pgx.Row) (models.FundDTO, error) {
	var (
		dto models.FundDTO
		pat string
	)
	if err := row.Scan(&dto.Code, &dto.Name, &dto.Cnpj, &dto.TypeID, &dto.TypeName, &pat); err != nil {
		return models.FundDTO{}, err
	}
	p, err := decimal.NewFromString(pat)
	if err != nil {
		return models.FundDTO{}, fmt.Errorf("parse patrimony %q: %w", pat, err)
	}
	dto.Patrimony = p
	return dto, nil
}
