package models

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	FundCodeMaxLength = 20
	FundNameMaxLength = 100
)

// Fund is the aggregate root for an investment fund.
// Patrimony is only ever changed by the store (atomic increment); the aggregate just carries the
// value read back from storage.
type Fund struct {
	eventBuffer

	id        int64
	code      string
	name      string
	cnpj      Cnpj
	typeID    int64
	patrimony decimal.Decimal
}

// NewFund valida os campos e registra um FundCreated. Use apenas para fundos novos;
// para reconstruir a partir do banco use RestoreFund.
func NewFund(code, name string, cnpj Cnpj, typeID int64) (*Fund, error) {
	f := &Fund{
		code:      code,
		name:      name,
		cnpj:      cnpj,
		typeID:    typeID,
		patrimony: decimal.Zero,
	}
	if err := f.validate(); err != nil {
		return nil, err
	}

	f.record(FundCreated{ID: f.id, Code: f.code, CreatedAt: now()})
	return f, nil
}

// RestoreFund rebuilds a persisted fund without validation or events.
func RestoreFund(id int64, code, name string, cnpj Cnpj, typeID int64, patrimony decimal.Decimal) *Fund {
	return &Fund{
		id:        id,
		code:      code,
		name:      name,
		cnpj:      cnpj,
		typeID:    typeID,
		patrimony: patrimony,
	}
}

// RestoreCnpj is the storage counterpart of NewCnpj: the value was validated when written.
func RestoreCnpj(value string) Cnpj {
	return Cnpj{value: value}
}

func (f *Fund) ID() int64                  { return f.id }
func (f *Fund) Code() string               { return f.code }
func (f *Fund) Name() string               { return f.name }
func (f *Fund) Cnpj() Cnpj                 { return f.cnpj }
func (f *Fund) TypeID() int64              { return f.typeID }
func (f *Fund) Patrimony() decimal.Decimal { return f.patrimony }

// AssignID grava o id gerado pelo banco. O FundCreated é registrado antes do insert,
// então os eventos pendentes são recarimbados com o id definitivo.
func (f *Fund) AssignID(id int64) {
	f.id = id
	for i, e := range f.pending {
		if created, ok := e.(FundCreated); ok {
			created.ID = id
			f.pending[i] = created
		}
	}
}

// Update substitui nome, cnpj e tipo, revalidando as mesmas invariantes da criação.
// Em caso de erro o agregado fica inalterado.
func (f *Fund) Update(name string, cnpj Cnpj, typeID int64) error {
	next := *f
	next.name = name
	next.cnpj = cnpj
	next.typeID = typeID
	if err := next.validate(); err != nil {
		return err
	}

	f.name = name
	f.cnpj = cnpj
	f.typeID = typeID
	return nil
}

func (f *Fund) validate() error {
	if strings.TrimSpace(f.code) == "" {
		return invalidArgument("code", "fund code cannot be null or empty")
	}
	if utf8.RuneCountInString(f.code) > FundCodeMaxLength {
		return invalidFormat("code", "fund code must have at most 20 characters")
	}
	if strings.TrimSpace(f.name) == "" {
		return invalidArgument("name", "fund name cannot be null or empty")
	}
	if utf8.RuneCountInString(f.name) > FundNameMaxLength {
		return invalidFormat("name", "fund name must have at most 100 characters")
	}
	if f.cnpj.IsZero() {
		return invalidArgument("cnpj", "fund cnpj cannot be null")
	}
	if f.typeID <= 0 {
		return invalidArgument("typeId", "fund type id must be greater than zero")
	}
	return nil
}
