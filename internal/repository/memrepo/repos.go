package memrepo

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

type fundRepo struct{ tx *tx }

func (r *fundRepo) Exists(_ context.Context, code string) (bool, error) {
	st, err := r.tx.state()
	if err != nil {
		return false, err
	}
	_, ok := st.funds[code]
	return ok, nil
}

func (r *fundRepo) Add(_ context.Context, f *models.Fund) (int64, error) {
	st, err := r.tx.state()
	if err != nil {
		return 0, err
	}
	if _, dup := st.funds[f.Code()]; dup {
		return 0, repository.ErrDuplicateCode
	}
	if _, ok := st.types[f.TypeID()]; !ok {
		return 0, repository.ErrFundTypeMissing
	}

	id := st.nextFundID
	st.nextFundID++
	ts := time.Now().UTC()
	st.funds[f.Code()] = fundRow{
		id:        id,
		code:      f.Code(),
		name:      f.Name(),
		cnpj:      f.Cnpj().Value(),
		typeID:    f.TypeID(),
		patrimony: f.Patrimony(),
		createdAt: ts,
		updatedAt: ts,
	}
	return id, nil
}

func (r *fundRepo) Update(_ context.Context, f *models.Fund) error {
	st, err := r.tx.state()
	if err != nil {
		return err
	}
	row, ok := st.funds[f.Code()]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := st.types[f.TypeID()]; !ok {
		return repository.ErrFundTypeMissing
	}
	row.name = f.Name()
	row.cnpj = f.Cnpj().Value()
	row.typeID = f.TypeID()
	row.updatedAt = time.Now().UTC()
	st.funds[f.Code()] = row
	return nil
}

func (r *fundRepo) Remove(_ context.Context, f *models.Fund) error {
	st, err := r.tx.state()
	if err != nil {
		return err
	}
	if _, ok := st.funds[f.Code()]; !ok {
		return repository.ErrNotFound
	}
	delete(st.funds, f.Code())
	return nil
}

func (r *fundRepo) GetAll(_ context.Context) ([]*models.Fund, error) {
	st, err := r.tx.state()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Fund, 0, len(st.funds))
	for _, row := range sortedFunds(st) {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *fundRepo) GetByCode(_ context.Context, code string) (*models.Fund, error) {
	st, err := r.tx.state()
	if err != nil {
		return nil, err
	}
	row, ok := st.funds[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return row.toModel(), nil
}

func (r *fundRepo) AdjustPatrimony(_ context.Context, code string, amount decimal.Decimal) error {
	st, err := r.tx.state()
	if err != nil {
		return err
	}
	row, ok := st.funds[code]
	if !ok {
		return repository.ErrNotFound
	}
	row.patrimony = row.patrimony.Add(amount)
	row.updatedAt = time.Now().UTC()
	st.funds[code] = row
	return nil
}

type fundTypeRepo struct{ tx *tx }

func (r *fundTypeRepo) Add(_ context.Context, ft *models.FundType) (int64, error) {
	st, err := r.tx.state()
	if err != nil {
		return 0, err
	}
	id := ft.ID()
	if id == 0 {
		id = st.nextTypeID
	}
	if _, dup := st.types[id]; dup {
		return 0, repository.ErrDuplicateCode
	}
	st.types[id] = ft.Name()
	if id >= st.nextTypeID {
		st.nextTypeID = id + 1
	}
	return id, nil
}

func (r *fundTypeRepo) Update(_ context.Context, ft *models.FundType) error {
	st, err := r.tx.state()
	if err != nil {
		return err
	}
	if _, ok := st.types[ft.ID()]; !ok {
		return repository.ErrNotFound
	}
	st.types[ft.ID()] = ft.Name()
	return nil
}

func (r *fundTypeRepo) GetAll(_ context.Context) ([]*models.FundType, error) {
	st, err := r.tx.state()
	if err != nil {
		return nil, err
	}
	out := make([]*models.FundType, 0, len(st.types))
	for _, id := range sortedTypeIDs(st) {
		out = append(out, models.RestoreFundType(id, st.types[id]))
	}
	return out, nil
}

func (r *fundTypeRepo) GetByID(_ context.Context, id int64) (*models.FundType, error) {
	st, err := r.tx.state()
	if err != nil {
		return nil, err
	}
	name, ok := st.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return models.RestoreFundType(id, name), nil
}

func (row fundRow) toModel() *models.Fund {
	return models.RestoreFund(row.id, row.code, row.name, models.RestoreCnpj(row.cnpj), row.typeID, row.patrimony)
}

func sortedFunds(st *state) []fundRow {
	rows := make([]fundRow, 0, len(st.funds))
	for _, row := range st.funds {
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b fundRow) int { return strings.Compare(a.code, b.code) })
	return rows
}

func sortedTypeIDs(st *state) []int64 {
	ids := make([]int64, 0, len(st.types))
	for id := range st.types {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
