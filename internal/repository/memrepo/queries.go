package memrepo

import (
	"context"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
)

// queries lê só o estado já commitado; o snapshot nunca é alterado depois de publicado.
type queries struct{ store *Store }

func (q *queries) GetFund(_ context.Context, code string) (models.FundDTO, error) {
	st := q.store.snapshot()
	row, ok := st.funds[code]
	if !ok {
		return models.FundDTO{}, repository.ErrNotFound
	}
	return toDTO(st, row), nil
}

func (q *queries) ListFunds(_ context.Context) ([]models.FundDTO, error) {
	st := q.store.snapshot()
	out := make([]models.FundDTO, 0, len(st.funds))
	for _, row := range sortedFunds(st) {
		out = append(out, toDTO(st, row))
	}
	return out, nil
}

func (q *queries) ListFundTypes(_ context.Context) ([]models.FundType, error) {
	st := q.store.snapshot()
	out := make([]models.FundType, 0, len(st.types))
	for _, id := range sortedTypeIDs(st) {
		out = append(out, *models.RestoreFundType(id, st.types[id]))
	}
	return out, nil
}

func toDTO(st *state, row fundRow) models.FundDTO {
	return models.FundDTO{
		Code:      row.code,
		Name:      row.name,
		Cnpj:      row.cnpj,
		TypeID:    row.typeID,
		TypeName:  st.types[row.typeID],
		Patrimony: row.patrimony,
	}
}
