package models

import "strings"

const CnpjLength = 14

// Cnpj é um value object: só pode ser obtido via NewCnpj e nunca muda.
// A comparação com == compara o valor (struct com um único campo string).
type Cnpj struct {
	value string
}

func NewCnpj(value string) (Cnpj, error) {
	if strings.TrimSpace(value) == "" {
		return Cnpj{}, invalidArgument("cnpj", "cnpj cannot be null or empty")
	}
	if len(value) != CnpjLength || !onlyDigits(value) {
		return Cnpj{}, invalidFormat("cnpj", "cnpj must be a 14-digit number")
	}
	return Cnpj{value: value}, nil
}

func (c Cnpj) Value() string { return c.value }

func (c Cnpj) String() string { return c.value }

func (c Cnpj) IsZero() bool { return c.value == "" }

func (c Cnpj) Equal(other Cnpj) bool { return c.value == other.value }

func onlyDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
