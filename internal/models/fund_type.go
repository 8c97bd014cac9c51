package models

import (
	"strings"
	"unicode/utf8"
)

const FundTypeNameMaxLength = 20

// FundType é dado de referência (RENDA FIXA, ACOES, MULTI MERCADO).
type FundType struct {
	eventBuffer

	id   int64
	name string
}

func NewFundType(name string) (*FundType, error) {
	if err := validateFundTypeName(name); err != nil {
		return nil, err
	}
	ft := &FundType{name: name}
	ft.record(FundTypeCreated{Name: name, CreatedAt: now()})
	return ft, nil
}

func RestoreFundType(id int64, name string) *FundType {
	return &FundType{id: id, name: name}
}

func (ft *FundType) ID() int64    { return ft.id }
func (ft *FundType) Name() string { return ft.name }

// AssignID funciona como Fund.AssignID: o seed usa para fixar ids conhecidos (1, 2, 3).
func (ft *FundType) AssignID(id int64) {
	ft.id = id
	for i, e := range ft.pending {
		if created, ok := e.(FundTypeCreated); ok {
			created.ID = id
			ft.pending[i] = created
		}
	}
}

func (ft *FundType) Rename(name string) error {
	if err := validateFundTypeName(name); err != nil {
		return err
	}
	ft.name = name
	return nil
}

func validateFundTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidArgument("name", "fund type name cannot be null or empty")
	}
	if utf8.RuneCountInString(name) > FundTypeNameMaxLength {
		return invalidFormat("name", "fund type name must have at most 20 characters")
	}
	return nil
}
