package admin

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/funds"
	"github.com/Werneck0live/cadastro-fundos/internal/models"
)

//go:embed seeds/funds.json
var fundsJSON []byte

// FundTypes são os tipos fixos do cadastro; ids são estáveis.
var FundTypes = []struct {
	ID   int64
	Name string
}{
	{1, "RENDA FIXA"},
	{2, "ACOES"},
	{3, "MULTI MERCADO"},
}

type Seeder interface {
	EnsureFundType(ctx context.Context, id int64, name string) (bool, error)
	ImportFund(ctx context.Context, cmd funds.CreateFund, patrimony decimal.Decimal) (*models.Fund, error)
}

type seedItem struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Cnpj      string          `json:"cnpj"`
	TypeID    int64           `json:"type_id"`
	Patrimony decimal.Decimal `json:"patrimony"`
}

// SeedFundTypes garante os tipos fixos. Roda em todo start da API.
func SeedFundTypes(ctx context.Context, svc Seeder, log *slog.Logger) error {
	for _, ft := range FundTypes {
		created, err := svc.EnsureFundType(ctx, ft.ID, ft.Name)
		if err != nil {
			return fmt.Errorf("seed fund type %d: %w", ft.ID, err)
		}
		if created {
			log.Info("seed_fund_type_created", "id", ft.ID, "name", ft.Name)
		}
	}
	return nil
}

// Idempotente: cria se não existir; se já existir, ignora (o patrimônio não é reaplicado).
func SeedFunds(ctx context.Context, svc Seeder, log *slog.Logger) error {
	var items []seedItem
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(fundsJSON, &items); err != nil {
		return err
	}

	for _, s := range items {
		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := seedOne(ictx, svc, s)
		cancel()

		if err != nil {
			if errors.Is(err, funds.ErrFundAlreadyExists) {
				log.Info("seed_fund_exists", "code", s.Code)
				continue
			}
			return fmt.Errorf("seed fund %s: %w", s.Code, err)
		}
		log.Info("seed_fund_created", "code", s.Code)
	}

	log.Info("seed_funds_done", "count", len(items))
	return nil
}

func seedOne(ctx context.Context, svc Seeder, s seedItem) error {
	_, err := svc.ImportFund(ctx, funds.CreateFund{
		Code:   s.Code,
		Name:   s.Name,
		Cnpj:   s.Cnpj,
		TypeID: s.TypeID,
	}, s.Patrimony)
	return err
}
