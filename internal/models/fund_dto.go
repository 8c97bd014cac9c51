package models

import "github.com/shopspring/decimal"

// FundDTO é a projeção de leitura (fund + nome do tipo). Nunca volta para o agregado.
type FundDTO struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Cnpj      string          `json:"cnpj"`
	TypeID    int64           `json:"typeId"`
	TypeName  string          `json:"typeName"`
	Patrimony decimal.Decimal `json:"patrimony"`
}
