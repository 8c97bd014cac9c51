package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2025, 6, 25, 0, 28, 38, 0, time.UTC)
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
	return at
}

func mustCnpj(t *testing.T, v string) Cnpj {
	t.Helper()
	c, err := NewCnpj(v)
	require.NoError(t, err)
	return c
}

func TestNewFund_RaisesSingleCreatedEvent(t *testing.T) {
	at := fixedClock(t)

	f, err := NewFund("ITAURF999", "Itau RF", mustCnpj(t, "11222333444455"), 1)
	require.NoError(t, err)

	assert.Equal(t, "ITAURF999", f.Code())
	assert.Equal(t, "Itau RF", f.Name())
	assert.Equal(t, "11222333444455", f.Cnpj().Value())
	assert.Equal(t, int64(1), f.TypeID())
	assert.True(t, f.Patrimony().Equal(decimal.Zero))

	events := f.PopEvents()
	require.Len(t, events, 1)
	assert.Equal(t, FundCreated{ID: 0, Code: "ITAURF999", CreatedAt: at}, events[0])
	assert.Equal(t, FundCreatedEventType, events[0].EventType())

	assert.Empty(t, f.PopEvents())
}

func TestFund_AssignIDRestampsPendingEvent(t *testing.T) {
	fixedClock(t)

	f, err := NewFund("ITAURF999", "Itau RF", mustCnpj(t, "11222333444455"), 1)
	require.NoError(t, err)

	f.AssignID(42)

	assert.Equal(t, int64(42), f.ID())
	events := f.PopEvents()
	require.Len(t, events, 1)
	assert.Equal(t, int64(42), events[0].AggregateID())
}

func TestNewFund_Validation(t *testing.T) {
	cnpj := mustCnpj(t, "11222333444455")

	cases := []struct {
		name   string
		code   string
		fname  string
		cnpj   Cnpj
		typeID int64
		field  string
		kind   error
	}{
		{"empty code", "", "Fund", cnpj, 1, "code", ErrInvalidArgument},
		{"blank code", "   ", "Fund", cnpj, 1, "code", ErrInvalidArgument},
		{"long code", strings.Repeat("A", 21), "Fund", cnpj, 1, "code", ErrInvalidFormat},
		{"empty name", "ITAU1", "", cnpj, 1, "name", ErrInvalidArgument},
		{"long name", "ITAU1", strings.Repeat("n", 101), cnpj, 1, "name", ErrInvalidFormat},
		{"missing cnpj", "ITAU1", "Fund", Cnpj{}, 1, "cnpj", ErrInvalidArgument},
		{"zero type", "ITAU1", "Fund", cnpj, 0, "typeId", ErrInvalidArgument},
		{"negative type", "ITAU1", "Fund", cnpj, -3, "typeId", ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFund(tc.code, tc.fname, tc.cnpj, tc.typeID)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, tc.kind)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestFund_UpdateRevalidates(t *testing.T) {
	f := RestoreFund(7, "ITAURF123", "ITAU JUROS RF +", mustCnpj(t, "11222333444455"), 1, decimal.RequireFromString("10.5"))

	err := f.Update("", mustCnpj(t, "12222333444455"), 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	// nada mudou
	assert.Equal(t, "ITAU JUROS RF +", f.Name())
	assert.Equal(t, "11222333444455", f.Cnpj().Value())
	assert.Equal(t, int64(1), f.TypeID())

	err = f.Update("Novo nome", mustCnpj(t, "12222333444455"), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, f.Update("Novo nome", mustCnpj(t, "12222333444455"), 2))
	assert.Equal(t, "Novo nome", f.Name())
	assert.Equal(t, "12222333444455", f.Cnpj().Value())
	assert.Equal(t, int64(2), f.TypeID())
	assert.True(t, f.Patrimony().Equal(decimal.RequireFromString("10.5")))
	assert.Empty(t, f.PopEvents(), "update does not raise events")
}

func TestRestoreFund_NoEvents(t *testing.T) {
	f := RestoreFund(1, "X", "Y", RestoreCnpj("11222333444455"), 1, decimal.Zero)
	assert.Empty(t, f.PopEvents())
}
