package pgrepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

type fundTypeRepo struct {
	db  querier
	log *slog.Logger
}

// syncTypeSeq avança a identity depois de um insert com id explícito.
const syncTypeSeq = `SELECT setval(pg_get_serial_sequence('fund_types', 'id'), GREATEST((SELECT max(id) FROM fund_types), 1))`

func (r *fundTypeRepo) Add(ctx context.Context, ft *models.FundType) (int64, error) {
	rec := goqu.Record{"name": ft.Name()}
	if ft.ID() > 0 {
		rec["id"] = ft.ID()
	}
	query, args, err := dialect.Insert(tableFundTypes).
		Rows(rec).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert fund type: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translate(err)
	}
	if ft.ID() > 0 {
		if _, err := r.db.Exec(ctx, syncTypeSeq); err != nil {
			return 0, fmt.Errorf("sync fund_types sequence: %w", err)
		}
	}
	return id, nil
}

func (r *fundTypeRepo) Update(ctx context.Context, ft *models.FundType) error {
	query, args, err := dialect.Update(tableFundTypes).
		Set(goqu.Record{"name": ft.Name()}).
		Where(goqu.C("id").Eq(ft.ID())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fund type: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *fundTypeRepo) GetAll(ctx context.Context) ([]*models.FundType, error) {
	query, args, err := dialect.From(tableFundTypes).
		Select("id", "name").
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fund types: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.FundType{}
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, models.RestoreFundType(id, name))
	}
	return out, rows.Err()
}

func (r *fundTypeRepo) GetByID(ctx context.Context, id int64) (*models.FundType, error) {
	query, args, err := dialect.From(tableFundTypes).
		Select("name").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fund type: %w", err)
	}
	var name string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&name); err != nil {
		return nil, translate(err)
	}
	return models.RestoreFundType(id, name), nil
}
