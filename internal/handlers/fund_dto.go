package handlers

import "github.com/shopspring/decimal"

type FundCreateDTO struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Cnpj   string `json:"cnpj"`
	TypeID int64  `json:"typeId"`
}

type FundCreatedDTO struct {
	Code string `json:"code"`
}

type FundUpdateDTO struct {
	Name   string `json:"name"`
	Cnpj   string `json:"cnpj"`
	TypeID int64  `json:"typeId"`
}

// PatrimonyDTO aceita número ou string ("500.25"); ponteiro para distinguir ausente de zero.
type PatrimonyDTO struct {
	Patrimony *decimal.Decimal `json:"patrimony"`
}

type FundTypeDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
