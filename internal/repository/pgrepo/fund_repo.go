package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

type fundRepo struct {
	db  querier
	log *slog.Logger
}

func (r *fundRepo) Exists(ctx context.Context, code string) (bool, error) {
	query, args, err := dialect.From(tableFunds).
		Select(goqu.L("1")).
		Where(goqu.C("code").Eq(code)).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *fundRepo) Add(ctx context.Context, f *models.Fund) (int64, error) {
	query, args, err := dialect.Insert(tableFunds).
		Rows(goqu.Record{
			"code":      f.Code(),
			"name":      f.Name(),
			"cnpj":      f.Cnpj().Value(),
			"type_id":   f.TypeID(),
			"patrimony": goqu.L("?::numeric", f.Patrimony().String()),
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert fund: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.log.Debug("pg_insert_fund_error", "code", f.Code(), "err", err)
		return 0, translate(err)
	}
	return id, nil
}

func (r *fundRepo) Update(ctx context.Context, f *models.Fund) error {
	query, args, err := dialect.Update(tableFunds).
		Set(goqu.Record{
			"name":       f.Name(),
			"cnpj":       f.Cnpj().Value(),
			"type_id":    f.TypeID(),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.C("code").Eq(f.Code())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fund: %w", err)
	}
	return r.execOne(ctx, query, args)
}

func (r *fundRepo) Remove(ctx context.Context, f *models.Fund) error {
	query, args, err := dialect.Delete(tableFunds).
		Where(goqu.C("code").Eq(f.Code())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete fund: %w", err)
	}
	return r.execOne(ctx, query, args)
}

func (r *fundRepo) GetAll(ctx context.Context) ([]*models.Fund, error) {
	query, args, err := selectFunds().Order(goqu.C("code").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select funds: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Fund{}
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *fundRepo) GetByCode(ctx context.Context, code string) (*models.Fund, error) {
	query, args, err := selectFunds().Where(goqu.C("code").Eq(code)).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fund: %w", err)
	}
	f, err := scanFund(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return f, nil
}

// AdjustPatrimony faz o incremento num único UPDATE; a linha fica travada até o fim da transação.
func (r *fundRepo) AdjustPatrimony(ctx context.Context, code string, amount decimal.Decimal) error {
	query, args, err := dialect.Update(tableFunds).
		Set(goqu.Record{
			"patrimony":  goqu.L("patrimony + ?::numeric", amount.String()),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.C("code").Eq(code)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build adjust patrimony: %w", err)
	}
	return r.execOne(ctx, query, args)
}

func (r *fundRepo) execOne(ctx context.Context, query string, args []any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func selectFunds() *goqu.SelectDataset {
	return dialect.From(tableFunds).Select(
		"id", "code", "name", "cnpj", "type_id", goqu.L("patrimony::text"),
	)
}

func scanFund(row pgx.Row) (*models.Fund, error) {
	var (
		id, typeID            int64
		code, name, cnpj, pat string
	)
	if err := row.Scan(&id, &code, &name, &cnpj, &typeID, &pat); err != nil {
		return nil, err
	}
	patrimony, err := decimal.NewFromString(pat)
	if err != nil {
		return nil, fmt.Errorf("parse patrimony %q: %w", pat, err)
	}
	return models.RestoreFund(id, code, name, models.RestoreCnpj(cnpj), typeID, patrimony), nil
}
