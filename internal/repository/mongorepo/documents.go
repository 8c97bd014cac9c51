package mongorepo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
)

type fundDoc struct {
	ID        int64                `bson:"_id"`
	Code      string               `bson:"code"`
	Name      string               `bson:"name"`
	Cnpj      string               `bson:"cnpj"`
	TypeID    int64                `bson:"type_id"`
	Patrimony primitive.Decimal128 `bson:"patrimony"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type fundTypeDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

// fundViewDoc é a saída do $lookup usado nas consultas.
type fundViewDoc struct {
	Code      string               `bson:"code"`
	Name      string               `bson:"name"`
	Cnpj      string               `bson:"cnpj"`
	TypeID    int64                `bson:"type_id"`
	TypeName  string               `bson:"type_name"`
	Patrimony primitive.Decimal128 `bson:"patrimony"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("decimal128 %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal128 %s: %w", v.String(), err)
	}
	return d, nil
}

func (d fundDoc) toModel() (*models.Fund, error) {
	p, err := fromDecimal128(d.Patrimony)
	if err != nil {
		return nil, err
	}
	return models.RestoreFund(d.ID, d.Code, d.Name, models.RestoreCnpj(d.Cnpj), d.TypeID, p), nil
}

func (d fundViewDoc) toDTO() (models.FundDTO, error) {
	p, err := fromDecimal128(d.Patrimony)
	if err != nil {
		return models.FundDTO{}, err
	}
	return models.FundDTO{
		Code:      d.Code,
		Name:      d.Name,
		Cnpj:      d.Cnpj,
		TypeID:    d.TypeID,
		TypeName:  d.TypeName,
		Patrimony: p,
	}, nil
}
